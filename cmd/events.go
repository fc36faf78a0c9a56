package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/costbasis"
	"github.com/etnz/costbasis/renderer"
	"github.com/google/subcommands"
)

type eventsCmd struct {
	window windowFlags
	json   bool
}

func (*eventsCmd) Name() string     { return "events" }
func (*eventsCmd) Synopsis() string { return "list the ledger events of an asset" }
func (*eventsCmd) Usage() string {
	return `cbt events [-from <date>] [-to <date>] [-json] <symbol>

  Builds the time-ordered ledger of an asset from the raw transactions and transfers.
`
}

func (c *eventsCmd) SetFlags(f *flag.FlagSet) {
	c.window.SetFlags(f)
	f.BoolVar(&c.json, "json", false, "Print events as JSON Lines")
}

func (c *eventsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: events takes exactly one symbol")
		return subcommands.ExitUsageError
	}
	symbol := costbasis.NormalizeSymbol(f.Arg(0))
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

	events := as.Events(symbol)
	if c.json {
		if err := costbasis.EncodeEvents(os.Stdout, events); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.EventsMarkdown(symbol, events))
	return subcommands.ExitSuccess
}
