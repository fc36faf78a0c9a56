package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/costbasis"
	"github.com/google/subcommands"
)

type importCmd struct {
	mapping string
	append  bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "extract raw records from an exchange export" }
func (*importCmd) Usage() string {
	return `cbt import -mapping <mapping.yaml> [-append] <export.json>

  Extracts transactions or transfers from a JSON export using a YAML mapping of
  JSONPath expressions. Records are printed as JSON Lines, or appended to the
  transactions or transfers file with -append. See "cbt topic import".
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mapping, "mapping", "", "Path to the YAML mapping")
	f.BoolVar(&c.append, "append", false, "Append to the transactions or transfers file instead of printing")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.mapping == "" || f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: import takes a -mapping and exactly one export file")
		return subcommands.ExitUsageError
	}
	m, err := decodeFile(c.mapping, costbasis.ParseMapping)
	if err == nil && m == nil {
		err = fmt.Errorf("mapping %q does not exist", c.mapping)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	doc, err := decodeFile(f.Arg(0), costbasis.DecodeDocument)
	if err == nil && doc == nil {
		err = fmt.Errorf("export %q does not exist or is empty", f.Arg(0))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if !c.append {
		if _, err := importRecords(os.Stdout, m, doc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	target := *transactionsFile
	if m.Kind == costbasis.MapTransfers {
		target = *transfersFile
	}
	out, err := os.OpenFile(target, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", target, err)
		return subcommands.ExitFailure
	}
	n, err := importAndClose(out, m, doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error appending to %q: %v\n", target, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Appended %d %s\n", n, m.Kind)
	return subcommands.ExitSuccess
}

// importAndClose imports into w and closes it. A failed close fails the
// import: the records may not have reached the file.
func importAndClose(w io.WriteCloser, m *costbasis.Mapping, doc any) (int, error) {
	n, err := importRecords(w, m, doc)
	if cerr := w.Close(); err == nil && cerr != nil {
		return n, cerr
	}
	return n, err
}

// importRecords extracts the records of doc and writes them to w. It returns
// the number of records written.
func importRecords(w io.Writer, m *costbasis.Mapping, doc any) (int, error) {
	switch m.Kind {
	case costbasis.MapTransactions:
		txs, err := m.Transactions(doc)
		if err != nil {
			return 0, err
		}
		return len(txs), costbasis.EncodeTransactions(w, txs)
	default:
		trs, err := m.Transfers(doc)
		if err != nil {
			return 0, err
		}
		return len(trs), costbasis.EncodeTransfers(w, trs)
	}
}
