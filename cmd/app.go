// Package cmd implements the CLI application to compute cost basis.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/costbasis"
	"github.com/etnz/costbasis/date"
	"github.com/google/subcommands"
)

// Commands are the subcommands of the application, registered by the main package.
var Commands = []subcommands.Command{
	&eventsCmd{},
	&basisCmd{},
	&reportCmd{},
	&importCmd{},
	&topicCmd{},
	&AssistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	transactionsFile = flag.String("transactions", "transactions.jsonl", "Path to the raw transactions file (JSONL format)")
	transfersFile    = flag.String("transfers", "transfers.jsonl", "Path to the raw transfers file (JSONL format)")
	marksFile        = flag.String("marks", "marks.jsonl", "Path to the marks file with current prices and balances (JSONL format)")
	defaultCurrency  = flag.String("currency", costbasis.DefaultCurrency, "Quote currency of the snapshots")
	plain            = flag.Bool("plain", false, "Print raw markdown instead of rendering it")
	Verbose          = flag.Bool("v", false, "Log dropped records and other details to stderr")
)

// logger returns the application logger, debug level when verbose.
func logger() *slog.Logger {
	level := slog.LevelWarn
	if *Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// decodeFile opens name and decodes it. A missing file decodes as nothing.
func decodeFile[T any](name string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		logger().Debug("file does not exist, using no records", "file", name)
		return zero, nil
	}
	if err != nil {
		return zero, fmt.Errorf("could not open %q: %w", name, err)
	}
	defer f.Close()
	v, err := decode(f)
	if err != nil {
		return zero, fmt.Errorf("could not decode %q: %w", name, err)
	}
	return v, nil
}

// DecodeAccountingSystem loads the records and marks of the application
// files, restricted to window.
func DecodeAccountingSystem(window date.Range) (*costbasis.AccountingSystem, error) {
	txs, err := decodeFile(*transactionsFile, costbasis.DecodeTransactions)
	if err != nil {
		return nil, err
	}
	trs, err := decodeFile(*transfersFile, costbasis.DecodeTransfers)
	if err != nil {
		return nil, err
	}
	marks, err := decodeFile(*marksFile, costbasis.DecodeMarks)
	if err != nil {
		return nil, err
	}
	from, to := window.Window()
	return &costbasis.AccountingSystem{
		Transactions: txs,
		Transfers:    trs,
		Marks:        marks,
		FromMs:       from,
		ToMs:         to,
		Currency:     *defaultCurrency,
		Logger:       logger(),
	}, nil
}

// renderMarkdown renders md for the terminal, or returns it raw with -plain.
func renderMarkdown(md string) string {
	if *plain {
		return md
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func printMarkdown(md string) { fmt.Print(renderMarkdown(md)) }

// windowFlags select the time window of a command.
type windowFlags struct {
	from, to string
	period   string
	on       string
}

func (w *windowFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&w.from, "from", "", "Ignore records before this day (YYYY-MM-DD)")
	f.StringVar(&w.to, "to", "", "Ignore records after this day (YYYY-MM-DD)")
	f.StringVar(&w.period, "p", "", "Restrict to a calendar period (day, week, month, quarter, year). Overrides -from and -to.")
	f.StringVar(&w.on, "d", "", "Day the period contains, defaults to today")
}

// Range returns the selected window, the zero Range when unbounded.
func (w *windowFlags) Range() (date.Range, error) {
	if w.period != "" {
		p, err := date.ParsePeriod(w.period)
		if err != nil {
			return date.Range{}, err
		}
		on := date.Today()
		if w.on != "" {
			if on, err = date.Parse(w.on); err != nil {
				return date.Range{}, err
			}
		}
		return date.NewRange(on, p), nil
	}
	var r date.Range
	var err error
	if w.from != "" {
		if r.From, err = date.Parse(w.from); err != nil {
			return date.Range{}, fmt.Errorf("parsing -from: %w", err)
		}
	}
	if w.to != "" {
		if r.To, err = date.Parse(w.to); err != nil {
			return date.Range{}, fmt.Errorf("parsing -to: %w", err)
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return date.Range{}, fmt.Errorf("-to %s is before -from %s", r.To, r.From)
	}
	return r, nil
}
