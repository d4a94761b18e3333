package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/rangelink/config"
	"github.com/teranos/rangelink/display"
	"github.com/teranos/rangelink/errors"
	"github.com/teranos/rangelink/internal/workspace"
)

// ConfigCmd groups the configuration subcommands
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage rangelink configuration",
	Long: `Display and manage rangelink configuration.

Configuration sources (later overrides earlier):
  1. Built-in defaults
  2. User config (~/.rangelink/config.toml)
  3. Workspace config (rangelink.toml at the repository root)
  4. Workspace folder config (.rangelink.toml in the current directory)
  5. Environment variables (RANGELINK_* prefix, e.g. RANGELINK_DELIMITERS_LINE)

Invalid delimiters never stop rangelink: the whole delimiter set falls back
to the defaults and 'config validate' reports why.

Examples:
  rangelink config show                      # Show effective configuration
  rangelink config show --format json
  rangelink config get delimiters.hash
  rangelink config set delimiters.line LINE  # Write to the user config
  rangelink config where                     # Show where each value came from`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runConfigShow(cmd.OutOrStdout(), cfg, configFormat)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Long:  "Get a configuration value using dot notation (e.g. delimiters.line, format.notation)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		value, err := cfg.GetString(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runConfigValidate(cmd.OutOrStdout(), cfg)
	},
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long: `Show the configuration layers, which files exist, and the source of
every effective value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runConfigWhere(cmd.OutOrStdout(), cfg, config.Options{}.Layers())
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Persist a configuration value",
	Long: `Write KEY = VALUE to a config file. The previous file is kept as a
rotating .back1..3 backup. Values are validated before anything is written.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := scopePath(config.Options{}, configScope)
		if err != nil {
			return err
		}
		if err := config.SetValue(path, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s (%s)\n", pterm.Green("✓"), args[0], args[1], path)
		return nil
	},
}

var (
	configFormat string
	configScope  string
)

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	configSetCmd.Flags().StringVar(&configScope, "scope", string(config.SourceUser), "File to write: user, workspace or workspaceFolder")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configGetCmd)
	ConfigCmd.AddCommand(configValidateCmd)
	ConfigCmd.AddCommand(configWhereCmd)
	ConfigCmd.AddCommand(configSetCmd)
}

func runConfigShow(w io.Writer, cfg *config.Config, format string) error {
	switch format {
	case "json":
		return display.WriteJSON(w, cfg)

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(w, "# rangelink configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(w, "# rangelink configuration\n%s", data)

	default:
		return errors.WithHint(
			errors.Newf("unsupported format: %s", format),
			"supported formats: toml, json, yaml")
	}
	return nil
}

func runConfigValidate(w io.Writer, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	if len(cfg.DelimiterErrors) > 0 {
		for _, derr := range cfg.DelimiterErrors {
			fmt.Fprintf(w, "%s %s\n", pterm.Red("✗"), derr.Error())
		}
		return errors.WithHint(
			errors.Wrapf(errors.ErrInvalidDelimiters, "%d delimiter problem(s)", len(cfg.DelimiterErrors)),
			"the default delimiters are in use until this is fixed")
	}
	fmt.Fprintf(w, "%s Configuration is valid\n", pterm.Green("✓"))
	return nil
}

func runConfigWhere(w io.Writer, cfg *config.Config, layers []config.Layer) error {
	fmt.Fprintln(w, "Configuration cascade (later overrides earlier):")
	fmt.Fprintf(w, "  1. [%s]  built-in defaults\n", config.SourceDefault)
	for i, layer := range layers {
		state := pterm.Gray("missing")
		if _, err := os.Stat(layer.Path); err == nil {
			state = pterm.Green("found")
		}
		fmt.Fprintf(w, "  %d. [%s]  %s (%s)\n", i+2, layer.Source, layer.Path, state)
	}
	fmt.Fprintf(w, "  %d. [%s]  %s_* variables\n", len(layers)+2, config.SourceEnvironment, config.EnvPrefix)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Effective values:")
	for _, s := range cfg.Settings() {
		origin := string(s.Source)
		if s.SourcePath != "" && s.Source != config.SourceDefault {
			origin += " " + s.SourcePath
		}
		fmt.Fprintf(w, "  %s = %v %s\n", s.Key, s.Value, pterm.Gray("("+origin+")"))
		if s.Rejected != "" {
			fmt.Fprintf(w, "    %s configured %q was rejected\n", pterm.Yellow("!"), s.Rejected)
		}
	}
	return nil
}

// scopePath returns the file a config set writes to
func scopePath(opts config.Options, scope string) (string, error) {
	switch config.ConfigSource(scope) {
	case config.SourceUser:
		if p := opts.UserConfigPath(); p != "" {
			return p, nil
		}
		return "", errors.New("could not determine home directory")
	case config.SourceWorkspace:
		d, err := workDir(opts)
		if err != nil {
			return "", err
		}
		root, ok := workspace.Root(d)
		if !ok {
			return "", errors.WithHint(
				errors.Newf("%s is not inside a git repository", d),
				"use --scope workspaceFolder to write .rangelink.toml here")
		}
		return filepath.Join(root, config.WorkspaceFileName), nil
	case config.SourceWorkspaceFolder:
		d, err := workDir(opts)
		if err != nil {
			return "", err
		}
		return filepath.Join(d, config.WorkspaceFolderFileName), nil
	default:
		return "", errors.WithHint(
			errors.Newf("unknown scope %q", scope),
			"use user, workspace or workspaceFolder")
	}
}

func workDir(opts config.Options) (string, error) {
	if opts.WorkDir != "" {
		return opts.WorkDir, nil
	}
	d, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to determine working directory")
	}
	return d, nil
}
