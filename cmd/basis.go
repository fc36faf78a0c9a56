package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/costbasis"
	"github.com/etnz/costbasis/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type basisCmd struct {
	window  windowFlags
	price   string
	balance string
	json    bool
}

func (*basisCmd) Name() string     { return "basis" }
func (*basisCmd) Synopsis() string { return "compute the cost basis of an asset" }
func (*basisCmd) Usage() string {
	return `cbt basis [-price <price>] [-balance <quantity>] [-json] <symbol>

  Replays the ledger of an asset through FIFO lots and reports its cost basis,
  averages, realized and unrealized P&L. Price and balance default to the marks file.
`
}

func (c *basisCmd) SetFlags(f *flag.FlagSet) {
	c.window.SetFlags(f)
	f.StringVar(&c.price, "price", "", "Current price, overrides the marks file")
	f.StringVar(&c.balance, "balance", "", "Current balance, overrides the marks file")
	f.BoolVar(&c.json, "json", false, "Print the snapshot as JSON")
}

func (c *basisCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: basis takes exactly one symbol")
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
	if err := c.overrideMark(as, symbol); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	s := as.Snapshot(symbol)
	if c.json {
		data, err := s.MarshalJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(string(data))
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.SnapshotMarkdown(s))
	return subcommands.ExitSuccess
}

// overrideMark applies -price and -balance to the mark of symbol.
func (c *basisCmd) overrideMark(as *costbasis.AccountingSystem, symbol string) error {
	if c.price == "" && c.balance == "" {
		return nil
	}
	if as.Marks == nil {
		as.Marks = make(map[string]costbasis.Mark)
	}
	m := as.Marks[symbol]
	if c.price != "" {
		p, err := decimal.NewFromString(c.price)
		if err != nil {
			return fmt.Errorf("invalid -price %q: %w", c.price, err)
		}
		m.Price = costbasis.M(p, "")
	}
	if c.balance != "" {
		b, err := decimal.NewFromString(c.balance)
		if err != nil {
			return fmt.Errorf("invalid -balance %q: %w", c.balance, err)
		}
		m.Balance = costbasis.Q(b)
	}
	as.Marks[symbol] = m
	return nil
}
