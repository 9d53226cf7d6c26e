// Command sarif-export is a debug binary: it scans a path with the same
// scanner and rule engine the hooks use, and writes the findings as a
// SARIF 2.1.0 report to standard output.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iMAGRAY/ASTSentinel/internal/config"
	"github.com/iMAGRAY/ASTSentinel/internal/rules"
	"github.com/iMAGRAY/ASTSentinel/internal/sarifexport"
	"github.com/iMAGRAY/ASTSentinel/internal/scan"
)

const toolVersion = "dev"

func main() {
	flag.Parse()
	root := "."
	if args := flag.Args(); len(args) > 0 {
		root = args[0]
	}
	os.Exit(run(os.Stdout, os.Stderr, root))
}

func run(stdout, stderr io.Writer, root string) int {
	settings, err := config.Load(false)
	if err != nil {
		fmt.Fprintf(stderr, "warning: config load degraded to defaults+env: %v\n", err)
	}

	report, err := scan.Scan(context.Background(), scan.Options{
		Root:       root,
		Settings:   settings,
		Mode:       rules.FastPath,
		Thresholds: rules.ThresholdsFor(string(settings.Sensitivity)),
	})
	if err != nil {
		fmt.Fprintf(stderr, "scan %s: %v\n", root, err)
		return 1
	}

	var issues []rules.Issue
	for _, f := range report.Files {
		issues = append(issues, f.Issues...)
	}

	sarifReport := sarifexport.Export(issues, toolVersion)
	if err := sarifexport.WriteTo(stdout, sarifReport); err != nil {
		fmt.Fprintf(stderr, "write sarif: %v\n", err)
		return 1
	}
	return 0
}
