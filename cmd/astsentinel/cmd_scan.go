package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iMAGRAY/ASTSentinel/internal/config"
	"github.com/iMAGRAY/ASTSentinel/internal/rules"
	"github.com/iMAGRAY/ASTSentinel/internal/scan"
)

var scanRoot string

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a project tree and print a findings summary",
	Long: `scan walks a directory with the same scanner, ignore rules, and rule
engine the UserPromptSubmit hook uses for its project snapshot, then prints
one line per issue plus a totals summary.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	settings, err := config.Load(false)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: config load degraded to defaults+env: %v\n", err)
	}

	report, err := scan.Scan(context.Background(), scan.Options{
		Root:       root,
		Settings:   settings,
		Mode:       rules.FastPath,
		Thresholds: rules.ThresholdsFor(string(settings.Sensitivity)),
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", root, err)
	}

	out := cmd.OutOrStdout()
	var critical, major, minor int
	for _, f := range report.Files {
		if f.Err != nil {
			fmt.Fprintf(out, "%s: error: %v\n", f.Path, f.Err)
			continue
		}
		if f.Skipped {
			continue
		}
		for _, is := range f.Issues {
			fmt.Fprintf(out, "%s:%d: [%s] %s: %s\n", f.Path, is.Line, is.Severity, is.RuleID, is.Message)
			switch is.Severity {
			case rules.Critical:
				critical++
			case rules.Major:
				major++
			default:
				minor++
			}
		}
	}

	fmt.Fprintf(out, "\n%d files scanned, %d critical, %d major, %d minor\n",
		report.TotalFiles, critical, major, minor)

	return nil
}
