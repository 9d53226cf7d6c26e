package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iMAGRAY/ASTSentinel/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .hooks-config.yaml in the current directory",
	Long: `init writes a .hooks-config.yaml carrying the built-in default
Settings to the current directory, for an operator to trim to taste.
Use --force to overwrite a file that already exists.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
}

const configFileName = ".hooks-config.yaml"

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configFileName); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configFileName)
	}

	data, err := yaml.Marshal(config.Defaults())
	if err != nil {
		return fmt.Errorf("marshal default settings: %w", err)
	}
	if err := os.WriteFile(configFileName, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", configFileName, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configFileName)
	return nil
}
