package main

import (
	"github.com/spf13/cobra"

	"github.com/iMAGRAY/ASTSentinel/internal/logging"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "astsentinel",
	Short: "Operator CLI for the AST review hooks",
	Long: `astsentinel is the operator-facing counterpart to the PreToolUse,
PostToolUse, and UserPromptSubmit hook binaries: it initializes a project's
.hooks-config file, runs a one-shot scan from a terminal, lists the rule
catalogue, and prints the settings a hook run would resolve.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(func() {
		logging.Init(false, verbose)
	})
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
