package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/roboco-io/webpconv/internal/config"
	"github.com/roboco-io/webpconv/internal/decoder"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(opts *options) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage settings",
		Long: `Manage the settings file.

Default location: ~/.webpconv/config.yaml (override with --config)

Subcommands:
  show    print the current settings
  init    write a settings file with the defaults
  set     change one setting
  path    print the settings file path`,
	}

	var force bool

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Long: `Print the settings as stored in the file, followed by the environment
variables that override them. Defaults are shown when no file exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, opts)
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with the defaults",
		Long: `Write the default settings to the settings file.

Fails if the file already exists unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, opts, force)
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing settings file")

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: `Change one setting.

Keys:
  decoder            WebP decoder backend (see "decoders")
  jpeg.quality       JPEG quality 1-100 (0: library default)
  png.compression    default, none, speed, best
  resize.max_width   downscale bound in pixels (0: off)
  resize.max_height  downscale bound in pixels (0: off)

Examples:
  webp2jpeg config set jpeg.quality 90
  webp2png config set png.compression best`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, opts, args[0], args[1])
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := config.Open(opts.configPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loader.ConfigPath())
			return nil
		},
	}

	configCmd.AddCommand(showCmd, initCmd, setCmd, pathCmd)
	return configCmd
}

func runConfigShow(cmd *cobra.Command, opts *options) error {
	loader, err := config.Open(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config loader: %w", err)
	}

	cfg, err := loader.LoadRaw()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := cmd.OutOrStdout()
	if loader.Exists() {
		fmt.Fprintf(out, "config file: %s\n\n", loader.ConfigPath())
	} else {
		fmt.Fprintf(out, "config file: (defaults)\n\n")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to print config: %w", err)
	}
	fmt.Fprintln(out, string(data))

	fmt.Fprintln(out, "environment:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	envVars := []struct {
		key  string
		desc string
	}{
		{config.EnvDecoder, "decoder backend"},
		{config.EnvQuality, "JPEG quality"},
		{config.EnvVerbose, "verbose output"},
	}
	for _, ev := range envVars {
		status := "(unset)"
		if v := os.Getenv(ev.key); v != "" {
			status = v
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", ev.key, ev.desc, status)
	}
	return w.Flush()
}

func runConfigInit(cmd *cobra.Command, opts *options, force bool) error {
	loader, err := config.Open(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config loader: %w", err)
	}

	if force {
		err = loader.Save(config.DefaultConfig())
	} else {
		err = loader.Init()
	}
	if errors.Is(err, config.ErrConfigExists) {
		return fmt.Errorf("%w\nuse --force to overwrite it", err)
	}
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "config file created: %s\n", loader.ConfigPath())
	return nil
}

func runConfigSet(cmd *cobra.Command, opts *options, key, value string) error {
	loader, err := config.Open(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config loader: %w", err)
	}

	cfg, err := loader.LoadRaw()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if key == "decoder" && !decoder.DefaultRegistry.Has(value) {
		return fmt.Errorf("unknown decoder %q (available: %s)", value, strings.Join(decoder.List(), ", "))
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "config updated: %s = %s\n", key, value)
	return nil
}
