// Package cli implements the webp2jpeg and webp2png command lines.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/roboco-io/webpconv/internal/encoder"
	"github.com/spf13/cobra"
)

var version = "dev"

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// options holds the root flags shared by the subcommands.
type options struct {
	configPath  string
	decoder     string
	quality     int
	compression string
	maxWidth    int
	maxHeight   int
	verbose     bool
	quiet       bool
}

// ProgramName returns the executable name for the program producing f.
func ProgramName(f encoder.Format) string {
	switch f {
	case encoder.FormatJPEG:
		return "webp2jpeg"
	case encoder.FormatPNG:
		return "webp2png"
	default:
		return "webpconv"
	}
}

// NewRootCommand builds the command tree of the program producing f.
func NewRootCommand(f encoder.Format) *cobra.Command {
	opts := &options{}
	name := ProgramName(f)
	upper := map[encoder.Format]string{encoder.FormatJPEG: "JPEG", encoder.FormatPNG: "PNG"}[f]

	cmd := &cobra.Command{
		Use:   name + " <input_directory> <output_directory>",
		Short: fmt.Sprintf("Convert a directory of WebP images to %s", upper),
		Long: fmt.Sprintf(`%[1]s converts every *.webp file directly inside <input_directory> to
%[2]s and writes <name>%[3]s into <output_directory>, creating that directory
if it does not exist.

Files that fail to convert are reported on stderr and skipped; the exit
status is still 0. Setup problems (bad arguments, missing input directory,
output directory that cannot be created) exit with status 1.

Settings are read from ~/.webpconv/config.yaml (see "%[1]s config") and
can be overridden by WEBPCONV_* environment variables and flags.

Examples:
  %[1]s ./photos ./out
  %[1]s --decoder libwebp ./photos ./out
  %[1]s --max-width 1920 ./photos ./out`, name, upper, f.Extension()),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected 2 arguments, got %d\nUsage: %s", len(args), cmd.UseLine())
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, f, opts, args[0], args[1])
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: ~/.webpconv/config.yaml)")
	cmd.Flags().StringVar(&opts.decoder, "decoder", "", "WebP decoder backend (see \"decoders\")")
	switch f {
	case encoder.FormatJPEG:
		cmd.Flags().IntVarP(&opts.quality, "quality", "q", encoder.DefaultJPEGQuality, "JPEG quality 1-100")
	case encoder.FormatPNG:
		cmd.Flags().StringVar(&opts.compression, "compression", "default", "PNG compression (default, none, speed, best)")
	}
	cmd.Flags().IntVar(&opts.maxWidth, "max-width", 0, "downscale to at most this width (0: off)")
	cmd.Flags().IntVar(&opts.maxHeight, "max-height", 0, "downscale to at most this height (0: off)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "print settings and a summary to stderr")
	cmd.Flags().BoolVar(&opts.quiet, "quiet", false, "do not print converted files")

	cmd.AddCommand(newVersionCmd(name))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newDecodersCmd())
	cmd.AddCommand(newInfoCmd())

	return cmd
}

// Execute runs the program producing f with the process arguments and
// returns its exit status.
func Execute(f encoder.Format) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, f, os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, f encoder.Format, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(f)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", ProgramName(f), err)
		return 1
	}
	return 0
}

func newVersionCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, version)
		},
	}
}
