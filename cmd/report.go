package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/costbasis"
	"github.com/etnz/costbasis/renderer"
	"github.com/goccy/go-json"
	"github.com/google/subcommands"
)

type reportCmd struct {
	window windowFlags
	json   bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "report the cost basis of every asset" }
func (*reportCmd) Usage() string {
	return `cbt report [-p <period> [-d <date>] | -from <date> -to <date>] [-json]

  Computes one snapshot per asset found in the records, marked with the marks
  file, and their totals.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.window.SetFlags(f)
	f.BoolVar(&c.json, "json", false, "Print the snapshots as JSON Lines")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	window, err := c.window.Range()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	as, err := DecodeAccountingSystem(window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading records: %v\n", err)
		return subcommands.ExitFailure
	}

	snapshots := as.Snapshots()
	if c.json {
		enc := json.NewEncoder(os.Stdout)
		for _, s := range snapshots {
			if err := enc.Encode(s); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.ReportMarkdown(window, snapshots, costbasis.NewTotals(as.Currency, snapshots)))
	return subcommands.ExitSuccess
}
