package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/rickgao/thirteenf/internal/app"
	"github.com/rickgao/thirteenf/internal/report"
)

type filingsCmd struct {
	plain bool
}

func (*filingsCmd) Name() string     { return "filings" }
func (*filingsCmd) Synopsis() string { return "show the information tables that would be compared" }
func (*filingsCmd) Usage() string {
	return `f13 filings [-plain] <cik>

  Locates the two latest 13F-HR filings of the fund and prints their
  information table documents without downloading them.
`
}

func (c *filingsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "Print raw Markdown even on a terminal.")
}

func (c *filingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "filings takes exactly one CIK")
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

	located, err := a.Comparer.Locate(ctx, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(report.Filings(located), c.plain)
	return subcommands.ExitSuccess
}
