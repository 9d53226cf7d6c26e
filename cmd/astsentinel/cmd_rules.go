package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/iMAGRAY/ASTSentinel/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the rule catalogue",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every rule in the catalogue",
	RunE:  runRulesList,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd)
}

func runRulesList(cmd *cobra.Command, args []string) error {
	ids := make([]string, 0, len(rules.Catalogue))
	for id := range rules.Catalogue {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	out := cmd.OutOrStdout()
	for _, id := range ids {
		meta := rules.Catalogue[rules.RuleID(id)]
		fmt.Fprintf(out, "%-28s %-12s %-8s %s\n", meta.ID, meta.Category, meta.DefaultSev, meta.Title)
	}
	return nil
}
