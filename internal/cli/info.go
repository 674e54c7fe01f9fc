package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/roboco-io/webpconv/internal/decoder"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	var (
		format string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "info <file.webp>",
		Short: "Show a WebP file's header information",
		Long: `Read a WebP file's container headers and print its kind (lossy,
lossless or extended), dimensions, alpha and animation flags. Pixel data is
not decoded.

Examples:
  webp2png info photo.webp
  webp2png info photo.webp --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}

			info, err := decoder.Inspect(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out, err := formatInfo(info, format, pretty)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&pretty, "pretty", true, "indent JSON output")
	return cmd
}

func formatInfo(info *decoder.Info, format string, pretty bool) (string, error) {
	switch format {
	case "json":
		var data []byte
		var err error
		if pretty {
			data, err = json.MarshalIndent(info, "", "  ")
		} else {
			data, err = json.Marshal(info)
		}
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "text":
		return formatInfoText(info), nil

	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

func formatInfoText(info *decoder.Info) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "kind: %s\n", info.Kind)
	fmt.Fprintf(&sb, "size: %dx%d\n", info.Width, info.Height)
	fmt.Fprintf(&sb, "alpha: %t\n", info.HasAlpha)
	fmt.Fprintf(&sb, "animated: %t\n", info.Animated)

	var meta []string
	if info.HasICCP {
		meta = append(meta, "icc")
	}
	if info.HasEXIF {
		meta = append(meta, "exif")
	}
	if info.HasXMP {
		meta = append(meta, "xmp")
	}
	if len(meta) > 0 {
		fmt.Fprintf(&sb, "metadata: %s\n", strings.Join(meta, ", "))
	}
	fmt.Fprintf(&sb, "file size: %d bytes", info.FileSize)
	return sb.String()
}
