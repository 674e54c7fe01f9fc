package cli

import (
	"fmt"
	"strings"

	"github.com/roboco-io/webpconv/internal/config"
	"github.com/roboco-io/webpconv/internal/convert"
	"github.com/roboco-io/webpconv/internal/decoder"
	"github.com/roboco-io/webpconv/internal/encoder"
	"github.com/spf13/cobra"
)

func runConvert(cmd *cobra.Command, f encoder.Format, opts *options, inputDir, outputDir string) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	dec, err := decoder.Get(cfg.Decoder)
	if err != nil {
		return fmt.Errorf("unknown decoder %q (available: %s)", cfg.Decoder, strings.Join(decoder.List(), ", "))
	}

	enc, err := encoder.New(f, encoder.Options{
		JPEGQuality:    cfg.JPEG.Quality,
		PNGCompression: cfg.PNG.Compression,
	})
	if err != nil {
		return err
	}

	conv, err := convert.New(convert.Options{
		Decoder:   dec,
		Encoder:   enc,
		MaxWidth:  cfg.Resize.MaxWidth,
		MaxHeight: cfg.Resize.MaxHeight,
	})
	if err != nil {
		return err
	}

	verbose := !opts.quiet && (opts.verbose || config.GetEnvBool(config.EnvVerbose))
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "input: %s\n", inputDir)
		fmt.Fprintf(cmd.ErrOrStderr(), "output: %s\n", outputDir)
		fmt.Fprintf(cmd.ErrOrStderr(), "decoder: %s\n", dec.Name())
		if f == encoder.FormatJPEG {
			fmt.Fprintf(cmd.ErrOrStderr(), "quality: %d\n", enc.(*encoder.JPEGEncoder).Quality())
		}
	}

	rep := &convert.TextReporter{
		Out:   cmd.OutOrStdout(),
		Err:   cmd.ErrOrStderr(),
		Quiet: opts.quiet,
	}
	sum, err := conv.ConvertDir(cmd.Context(), inputDir, outputDir, rep)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "done: %d converted, %d failed\n", sum.Converted, sum.Failed)
	}
	return nil
}

// resolveConfig loads the config file and environment, then applies flags
// that were set explicitly. A missing home directory is not an error.
func resolveConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("decoder") {
		cfg.Decoder = opts.decoder
	}
	if flags.Changed("quality") {
		cfg.JPEG.Quality = opts.quality
	}
	if flags.Changed("compression") {
		cfg.PNG.Compression = opts.compression
	}
	if flags.Changed("max-width") {
		cfg.Resize.MaxWidth = opts.maxWidth
	}
	if flags.Changed("max-height") {
		cfg.Resize.MaxHeight = opts.maxHeight
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
