package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/rickgao/thirteenf/internal/app"
	"github.com/rickgao/thirteenf/internal/report"
)

type compareCmd struct {
	json    bool
	plain   bool
	maxRows int
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare the two latest 13F-HR filings of a fund" }
func (*compareCmd) Usage() string {
	return `f13 compare [-json] [-plain] [-n <rows>] <cik>

  Locates the two latest 13F-HR filings of the fund, downloads both
  information tables and prints the position deltas.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the comparison as JSON.")
	f.BoolVar(&c.plain, "plain", false, "Print raw Markdown even on a terminal.")
	f.IntVar(&c.maxRows, "n", 0, "Maximum position rows shown. Defaults to display.max_rows.")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "compare takes exactly one CIK")
		return subcommands.ExitUsageError
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	result, err := a.Comparer.Compare(ctx, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding comparison: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	rows := c.maxRows
	if rows <= 0 {
		rows = cfg.Display.MaxRows
	}
	printMarkdown(report.Markdown(result, report.Options{MaxRows: rows}), c.plain)
	return subcommands.ExitSuccess
}
