package costbasis

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Records are persisted as JSONL: one JSON object per line, empty lines
// ignored. The files are meant to be appended to by importers and edited by
// hand, so decoding reports the faulty line number.

// decodeLines calls decode on each non-empty line of r.
func decodeLines(r io.Reader, decode func(line []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := decode(line); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading from input: %w", err)
	}
	return nil
}

// DecodeTransactions decodes JSONL raw transactions, in file order.
func DecodeTransactions(r io.Reader) ([]RawTransaction, error) {
	var txs []RawTransaction
	err := decodeLines(r, func(line []byte) error {
		var tx RawTransaction
		if err := json.Unmarshal(line, &tx); err != nil {
			return fmt.Errorf("invalid transaction %q: %w", line, err)
		}
		txs = append(txs, tx)
		return nil
	})
	return txs, err
}

// DecodeTransfers decodes JSONL raw transfers, in file order.
func DecodeTransfers(r io.Reader) ([]RawTransfer, error) {
	var trs []RawTransfer
	err := decodeLines(r, func(line []byte) error {
		var tr RawTransfer
		if err := json.Unmarshal(line, &tr); err != nil {
			return fmt.Errorf("invalid transfer %q: %w", line, err)
		}
		trs = append(trs, tr)
		return nil
	})
	return trs, err
}

// DecodeMarks decodes JSONL marks keyed by normalized symbol. A later line
// for the same symbol replaces an earlier one.
func DecodeMarks(r io.Reader) (map[string]Mark, error) {
	type jmark struct {
		Symbol            string          `json:"symbol"`
		Price             decimal.Decimal `json:"price"`
		Balance           decimal.Decimal `json:"balance"`
		DepositBasisPrice decimal.Decimal `json:"depositBasisPrice"`
	}
	marks := make(map[string]Mark)
	err := decodeLines(r, func(line []byte) error {
		var jm jmark
		if err := json.Unmarshal(line, &jm); err != nil {
			return fmt.Errorf("invalid mark %q: %w", line, err)
		}
		symbol := NormalizeSymbol(jm.Symbol)
		if symbol == "" {
			return fmt.Errorf("mark without symbol: %q", line)
		}
		marks[symbol] = Mark{
			Price:             M(jm.Price, ""),
			Balance:           Q(jm.Balance),
			DepositBasisPrice: M(jm.DepositBasisPrice, ""),
		}
		return nil
	})
	return marks, err
}

// encodeLines writes each value as a JSON line.
func encodeLines[T any](w io.Writer, values []T) error {
	for _, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal %T: %w", v, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write %T: %w", v, err)
		}
	}
	return nil
}

// EncodeTransactions writes transactions in JSONL format.
func EncodeTransactions(w io.Writer, txs []RawTransaction) error { return encodeLines(w, txs) }

// EncodeTransfers writes transfers in JSONL format.
func EncodeTransfers(w io.Writer, trs []RawTransfer) error { return encodeLines(w, trs) }

// EncodeEvents writes ledger events in JSONL format.
func EncodeEvents(w io.Writer, events []LedgerEvent) error { return encodeLines(w, events) }
