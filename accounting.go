package costbasis

import (
	"log/slog"

	"github.com/sourcegraph/conc/iter"
)

// Mark is the external state of one asset: its current price, the balance
// the connectors report, and an optional valuation for deposits.
type Mark struct {
	Price             Money
	Balance           Quantity
	DepositBasisPrice Money
}

// AccountingSystem holds the raw records of a portfolio and the marks of
// its assets. It serves as the entry point to build events and snapshots
// for every symbol the records mention.
//
// It holds no derived state: every call recomputes from the records.
type AccountingSystem struct {
	Transactions []RawTransaction
	Transfers    []RawTransfer
	// Marks is keyed by normalized symbol.
	Marks map[string]Mark
	// FromMs and ToMs bound the window of every computation. Zero means
	// unbounded.
	FromMs, ToMs int64
	// Currency of the snapshots, defaults to USD.
	Currency string
	Logger   *slog.Logger
}

// Symbols returns the distinct normalized symbols of the records, in order
// of first appearance (transactions first).
func (as *AccountingSystem) Symbols() []string {
	seen := make(map[string]struct{})
	var symbols []string
	add := func(s string) {
		s = NormalizeSymbol(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		symbols = append(symbols, s)
	}
	for _, tx := range as.Transactions {
		add(tx.Symbol)
	}
	for _, tr := range as.Transfers {
		add(tr.Symbol)
	}
	return symbols
}

// mark returns the mark of symbol, the zero Mark if unknown.
func (as *AccountingSystem) mark(symbol string) Mark {
	return as.Marks[NormalizeSymbol(symbol)]
}

// Events returns the ledger events of symbol within the system window.
func (as *AccountingSystem) Events(symbol string) []LedgerEvent {
	return BuildLedgerEvents(BuildOptions{
		Symbol:            symbol,
		Transactions:      as.Transactions,
		Transfers:         as.Transfers,
		FromMs:            as.FromMs,
		ToMs:              as.ToMs,
		DepositBasisPrice: as.mark(symbol).DepositBasisPrice,
		Logger:            as.Logger,
	})
}

// Snapshot computes the accounting snapshot of symbol.
func (as *AccountingSystem) Snapshot(symbol string) Snapshot {
	m := as.mark(symbol)
	return ComputeSnapshot(SnapshotOptions{
		Symbol:         symbol,
		Events:         as.Events(symbol),
		CurrentPrice:   m.Price,
		CurrentBalance: m.Balance,
		Currency:       as.Currency,
	})
}

// Snapshots computes one snapshot per symbol, in Symbols order. Symbols are
// computed concurrently; each computation owns its own events.
func (as *AccountingSystem) Snapshots() []Snapshot {
	return iter.Map(as.Symbols(), func(symbol *string) Snapshot {
		return as.Snapshot(*symbol)
	})
}

// Totals aggregates snapshots that share a currency.
type Totals struct {
	Currency        string
	CostBasis       Money
	RealizedPnL     Money
	UnrealizedPnL   Money
	FeesUSD         Money
	BasisConfidence BasisConfidence
}

// NewTotals sums the money values of snapshots. The confidence is the
// weakest of all snapshots.
func NewTotals(currency string, snapshots []Snapshot) Totals {
	if currency == "" {
		currency = DefaultCurrency
	}
	zero := M(0, currency)
	t := Totals{
		Currency:      currency,
		CostBasis:     zero,
		RealizedPnL:   zero,
		UnrealizedPnL: zero,
		FeesUSD:       zero,
	}
	for _, s := range snapshots {
		t.CostBasis = t.CostBasis.Add(s.CostBasis)
		t.RealizedPnL = t.RealizedPnL.Add(s.RealizedPnL)
		t.UnrealizedPnL = t.UnrealizedPnL.Add(s.UnrealizedPnL)
		t.FeesUSD = t.FeesUSD.Add(s.TotalFeesUSD)
		t.BasisConfidence = t.BasisConfidence.Weakest(s.BasisConfidence)
	}
	return t
}
