package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iMAGRAY/ASTSentinel/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect resolved configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the settings a hook run would resolve",
	Long: `show merges the built-in defaults, a discovered .hooks-config
file, and the environment — the same precedence config.Load applies inside
every hook binary — and prints the result as YAML.`,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(false)
	out := cmd.OutOrStdout()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: config file degraded to defaults+env: %v\n", err)
	}

	if path, ok := config.FindSettingsPath(); ok {
		fmt.Fprintf(out, "# source: %s\n", path)
	} else {
		fmt.Fprintln(out, "# source: defaults + environment (no .hooks-config file found)")
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	_, err = out.Write(data)
	return err
}
