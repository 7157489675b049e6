package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avolkov/traceplot/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Traceplot configuration",
	Long: `Manage the Traceplot configuration file and settings.

Settings are resolved in order: CLI flags, then TRACEPLOT_* environment
variables, then ~/.traceplot/config.yaml, then built-in defaults.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(os.Stderr, "Config file: %s\n\n", used)
		} else {
			fmt.Fprintf(os.Stderr, "No config file found, showing defaults\n\n")
		}

		data, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Print(string(data))

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to ~/.traceplot/config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}

		dir := filepath.Join(home, ".traceplot")
		path := filepath.Join(dir, "config.yaml")

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists; edit it directly or delete it first", path)
		}

		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}

		data, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		header := "# Traceplot configuration.\n" +
			"# Overridden by TRACEPLOT_* environment variables and CLI flags.\n" +
			"#\n" +
			"# units.scale converts the trace's native meters on export;\n" +
			"# the parser itself never converts.\n\n"

		if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}

		fmt.Printf("✓ Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)
}
