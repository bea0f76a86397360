package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"github.com/rickgao/thirteenf/internal/holdings"
	"github.com/rickgao/thirteenf/internal/report"
)

type holdingsCmd struct {
	json    bool
	plain   bool
	maxRows int
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "parse a local information table document" }
func (*holdingsCmd) Usage() string {
	return `f13 holdings [-json] [-plain] [-n <rows>] <file>

  Parses a 13F information table from disk and prints its positions.
  Works offline.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the snapshot as JSON.")
	f.BoolVar(&c.plain, "plain", false, "Print raw Markdown even on a terminal.")
	f.IntVar(&c.maxRows, "n", report.DefaultMaxRows, "Maximum position rows shown.")
}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "holdings takes exactly one file")
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)

	snapshot, err := holdings.ParseFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snapshot); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding snapshot: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	printMarkdown(report.Holdings(filepath.Base(path), snapshot, report.Options{MaxRows: c.maxRows}), c.plain)
	return subcommands.ExitSuccess
}
