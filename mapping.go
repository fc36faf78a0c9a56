package costbasis

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// MappingKind tells which records a mapping produces.
type MappingKind string

const (
	MapTransactions MappingKind = "transactions"
	MapTransfers    MappingKind = "transfers"
)

// Mapping describes how to extract raw records from a JSON export of an
// exchange or a wallet, using JSONPath expressions.
//
// Items selects the list of records in the document; each Fields
// expression is then evaluated against one item. Constant metadata fills
// what the items do not carry.
type Mapping struct {
	Kind   MappingKind       `yaml:"kind"`
	Items  string            `yaml:"items"`
	Fields map[string]string `yaml:"fields"`

	ConnectionID   string `yaml:"connectionId"`
	Exchange       string `yaml:"exchange"`
	SourceType     string `yaml:"sourceType"`
	QuoteAsset     string `yaml:"quoteAsset"`
	EstimatedBasis bool   `yaml:"estimatedBasis"`
}

// ParseMapping reads and validates a YAML mapping.
func ParseMapping(r io.Reader) (*Mapping, error) {
	var m Mapping
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("invalid mapping: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that the mapping can produce records.
func (m *Mapping) Validate() error {
	var errs []error
	required := []string{"symbol", "amount", "timestamp"}
	switch m.Kind {
	case MapTransactions:
		required = append(required, "side")
	case MapTransfers:
		required = append(required, "type")
	default:
		errs = append(errs, fmt.Errorf("unknown mapping kind %q, want %q or %q", m.Kind, MapTransactions, MapTransfers))
	}
	if m.Items == "" {
		errs = append(errs, errors.New("mapping has no items path"))
	}
	for _, f := range required {
		if m.Fields[f] == "" {
			errs = append(errs, fmt.Errorf("mapping has no %q field", f))
		}
	}
	return errors.Join(errs...)
}

// DecodeDocument decodes a JSON export into the generic form JSONPath
// expressions are evaluated against.
func DecodeDocument(r io.Reader) (any, error) {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}
	return doc, nil
}

// items evaluates the items path against doc.
func (m *Mapping) items(doc any) ([]any, error) {
	v, err := jsonpath.Get(m.Items, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot select items %q: %w", m.Items, err)
	}
	if list, ok := v.([]any); ok {
		return list, nil
	}
	return []any{v}, nil
}

// itemReader reads the fields of one item, keeping the first error.
type itemReader struct {
	m     *Mapping
	item  any
	index int
	err   error
}

// get returns the value of field, or nil when the field is not mapped or
// absent from the item.
func (r *itemReader) get(field string) any {
	path := r.m.Fields[field]
	if path == "" || r.err != nil {
		return nil
	}
	v, err := jsonpath.Get(path, r.item)
	if err != nil {
		// jsonpath reports missing keys as errors: an absent optional field
		// is not a failure.
		return nil
	}
	// jsonpath is never clear about whether it returns a list of 1 answer,
	// or a single answer: keep the first one if any.
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		v = list[0]
	}
	return v
}

func (r *itemReader) fail(field string, v any, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("item %d: field %q: cannot read %v: %w", r.index, field, v, err)
	}
}

func (r *itemReader) text(field string) string {
	switch v := r.get(field).(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func (r *itemReader) number(field string) decimal.Decimal {
	v := r.get(field)
	d, err := toDecimal(v)
	if err != nil {
		r.fail(field, v, err)
	}
	return d
}

func (r *itemReader) flag(field string, fallback bool) bool {
	switch v := r.get(field).(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			r.fail(field, v, err)
		}
		return b
	default:
		return fallback
	}
}

func (r *itemReader) timestamp(field string) int64 {
	v := r.get(field)
	ms, err := toMillis(v)
	if err != nil {
		r.fail(field, v, err)
	}
	return ms
}

func (r *itemReader) metadata(field, constant string) string {
	if s := r.text(field); s != "" {
		return s
	}
	return constant
}

// toDecimal converts a JSON value to a decimal. Missing values are zero.
func toDecimal(v any) (decimal.Decimal, error) {
	switch v := v.(type) {
	case nil:
		return decimal.Zero, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, errors.New("not a finite number")
		}
		return decimal.NewFromFloat(v), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if s == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(s)
	default:
		return decimal.Zero, fmt.Errorf("unsupported type %T", v)
	}
}

// secondsThreshold separates epoch seconds from epoch milliseconds: 1e11
// seconds is year 5138, 1e11 milliseconds is 1973.
const secondsThreshold = 1e11

// toMillis converts a JSON timestamp to epoch milliseconds. It accepts epoch
// seconds, epoch milliseconds (as numbers or numeric strings) and RFC 3339
// strings.
func toMillis(v any) (int64, error) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UnixMilli(), nil
		}
	}
	d, err := toDecimal(v)
	if err != nil {
		return 0, err
	}
	if d.Abs().LessThan(decimal.NewFromFloat(secondsThreshold)) {
		d = d.Shift(3)
	}
	d = d.Round(0)
	if d.LessThan(minMillis) || d.GreaterThan(maxMillis) {
		return 0, fmt.Errorf("timestamp %s out of range", d)
	}
	return d.IntPart(), nil
}

var (
	minMillis = decimal.NewFromInt(math.MinInt64)
	maxMillis = decimal.NewFromInt(math.MaxInt64)
)

// each calls f for every item of doc, stopping at the first error.
func (m *Mapping) each(doc any, f func(r *itemReader)) error {
	items, err := m.items(doc)
	if err != nil {
		return err
	}
	for i, item := range items {
		r := &itemReader{m: m, item: item, index: i}
		f(r)
		if r.err != nil {
			return r.err
		}
	}
	return nil
}

// Transactions extracts raw transactions from doc.
func (m *Mapping) Transactions(doc any) ([]RawTransaction, error) {
	if m.Kind != MapTransactions {
		return nil, fmt.Errorf("mapping produces %s, not transactions", m.Kind)
	}
	var txs []RawTransaction
	err := m.each(doc, func(r *itemReader) {
		txs = append(txs, RawTransaction{
			ID:             r.text("id"),
			Symbol:         r.text("symbol"),
			Side:           r.text("side"),
			Amount:         r.number("amount"),
			Price:          r.number("price"),
			Fee:            r.number("fee"),
			FeeAsset:       r.text("feeAsset"),
			QuoteAsset:     r.metadata("quoteAsset", m.QuoteAsset),
			Timestamp:      r.timestamp("timestamp"),
			ConnectionID:   r.metadata("connectionId", m.ConnectionID),
			Exchange:       r.metadata("exchange", m.Exchange),
			SourceType:     r.metadata("sourceType", m.SourceType),
			EstimatedBasis: r.flag("estimatedBasis", m.EstimatedBasis),
		})
	})
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// Transfers extracts raw transfers from doc.
func (m *Mapping) Transfers(doc any) ([]RawTransfer, error) {
	if m.Kind != MapTransfers {
		return nil, fmt.Errorf("mapping produces %s, not transfers", m.Kind)
	}
	var trs []RawTransfer
	err := m.each(doc, func(r *itemReader) {
		trs = append(trs, RawTransfer{
			ID:           r.text("id"),
			Symbol:       r.text("symbol"),
			Type:         r.text("type"),
			Internal:     r.flag("internal", false),
			Amount:       r.number("amount"),
			Fee:          r.number("fee"),
			FeeAsset:     r.text("feeAsset"),
			Timestamp:    r.timestamp("timestamp"),
			ConnectionID: r.metadata("connectionId", m.ConnectionID),
			Exchange:     r.metadata("exchange", m.Exchange),
			SourceType:   r.metadata("sourceType", m.SourceType),
		})
	})
	if err != nil {
		return nil, err
	}
	return trs, nil
}
