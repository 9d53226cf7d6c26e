// Command astsentinel is the admin CLI: init a project's .hooks-config.yaml,
// run a one-shot project scan from a terminal, list the rule catalogue, and
// print the resolved settings — the operator-facing counterpart to the
// three stdin/stdout hook binaries.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
