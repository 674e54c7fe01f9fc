package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/roboco-io/webpconv/internal/decoder"
	"github.com/spf13/cobra"
)

func newDecodersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decoders",
		Short: "List the available WebP decoder backends",
		Long: `List the WebP decoder backends compiled into this program.

Select one with --decoder, the "decoder" config key or WEBPCONV_DECODER.
The libwebp backend is only present in cgo-enabled builds.`,
		Args: cobra.NoArgs,
		RunE: runDecoders,
	}
}

func runDecoders(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "NAME\tDEFAULT\tDESCRIPTION")
	for _, name := range decoder.List() {
		d, err := decoder.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, defaultMark(name), d.Description())
	}
	return w.Flush()
}

func defaultMark(name string) string {
	if name == decoder.DefaultName {
		return "*"
	}
	return ""
}
