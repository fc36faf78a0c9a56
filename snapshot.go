package costbasis

import (
	"slices"
	"sort"
)

// DefaultCurrency is the quote currency of snapshots when none is given.
const DefaultCurrency = "USD"

// SnapshotOptions are the inputs of ComputeSnapshot.
type SnapshotOptions struct {
	Events []LedgerEvent
	// CurrentPrice marks the open position.
	CurrentPrice Money
	// CurrentBalance is the externally reported holding.
	CurrentBalance Quantity
	// Currency stamps the money values of the snapshot. Defaults to USD.
	Currency string
	// Symbol names the snapshot when Events is empty. Otherwise the symbol
	// of the events is used.
	Symbol string
}

// Snapshot is the FIFO accounting of one asset. It is a pure function of
// its options: computing it twice gives the same result.
type Snapshot struct {
	Symbol   string
	Currency string

	// AvgBuyPriceCurrent is the cost of the open lots over their quantity.
	AvgBuyPriceCurrent Money
	// AvgBuyPriceLifetime is the cost of everything bought over the quantity
	// bought, consumed lots included.
	AvgBuyPriceLifetime Money
	AvgSellPrice        Money
	// CostBasis is the cost of the part of the balance the lots explain.
	CostBasis     Money
	RealizedPnL   Money
	UnrealizedPnL Money
	TotalFeesUSD  Money

	BasisConfidence BasisConfidence

	TotalBought Quantity
	TotalSold   Quantity
	BuyCount    int
	SellCount   int
	// NetPosition is TotalBought - TotalSold. A negative value means the
	// history does not cover the whole holding.
	NetPosition Quantity

	FirstBuyMs int64
	LastBuyMs  int64
	LastSellMs int64

	// OpenQty is the quantity left in the lot queue.
	OpenQty Quantity
	// CoveredQty is the part of CurrentBalance that OpenQty explains.
	CoveredQty Quantity
	// UncoveredQty is the part of CurrentBalance with no known cost. It is
	// not priced into UnrealizedPnL.
	UncoveredQty Quantity

	CurrentPrice   Money
	CurrentBalance Quantity
}

// sortedEvents returns a timestamp-ordered copy of events. Sorting is
// stable, so sorted input keeps its exact order, and events is not mutated.
func sortedEvents(events []LedgerEvent) []LedgerEvent {
	sorted := slices.Clone(events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}

// ComputeSnapshot runs FIFO lot accounting over events and marks the result
// against the current price and balance.
//
// It never fails: lot underflow, missing prices or an empty history
// degrade to zeros, a negative NetPosition, or an estimated confidence.
func ComputeSnapshot(opts SnapshotOptions) Snapshot {
	currency := opts.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	zero := M(0, currency)

	var (
		queue         lotQueue
		totalCost     = zero
		totalProceeds = zero
		s             = Snapshot{
			Symbol:         NormalizeSymbol(opts.Symbol),
			Currency:       currency,
			RealizedPnL:    zero,
			TotalFeesUSD:   zero,
			CurrentPrice:   opts.CurrentPrice.In(currency).exact(),
			CurrentBalance: opts.CurrentBalance,
		}
	)

	for _, e := range sortedEvents(opts.Events) {
		if s.Symbol == "" && e.Symbol != "" {
			s.Symbol = e.Symbol
		}
		s.TotalFeesUSD = s.TotalFeesUSD.Add(e.FeeUSD)

		switch {
		case e.Kind.IsAcquisition():
			if !e.HasPrice() {
				continue
			}
			cost := e.Price.Mul(e.Qty).Add(e.FeeUSD)
			queue.push(lot{Timestamp: e.Timestamp, Quantity: e.Qty, Cost: cost, Estimated: e.EstimatedBasis})
			s.TotalBought = s.TotalBought.Add(e.Qty)
			totalCost = totalCost.Add(cost)
			s.BuyCount++
			if s.FirstBuyMs == 0 {
				s.FirstBuyMs = e.Timestamp
			}
			s.LastBuyMs = e.Timestamp

		case e.Kind.IsDisposal():
			consumed := queue.consume(e.Qty)
			s.TotalSold = s.TotalSold.Add(e.Qty)
			s.LastSellMs = e.Timestamp
			switch {
			case e.Kind == TradeSell && e.HasPrice():
				proceeds := e.Price.Mul(e.Qty).Sub(e.FeeUSD)
				s.RealizedPnL = s.RealizedPnL.Add(proceeds.Sub(consumed))
				totalProceeds = totalProceeds.Add(proceeds)
				s.SellCount++
			case e.Kind != TradeSell:
				// Moving assets out is not a disposal against a price.
				s.SellCount++
			}
		}
		// Fee and funding events only contribute their fee.
	}

	s.OpenQty = queue.quantity()
	openCost := queue.cost()

	s.AvgBuyPriceCurrent = zero.exact()
	if s.OpenQty.IsPositive() {
		s.AvgBuyPriceCurrent = openCost.Div(s.OpenQty).In(currency).exact()
	}
	s.AvgBuyPriceLifetime = zero.exact()
	if s.TotalBought.IsPositive() {
		s.AvgBuyPriceLifetime = totalCost.Div(s.TotalBought).exact()
	}
	s.AvgSellPrice = zero.exact()
	if s.TotalSold.IsPositive() {
		s.AvgSellPrice = totalProceeds.Div(s.TotalSold).exact()
	}

	s.CoveredQty = opts.CurrentBalance.Clamp(Q(0), s.OpenQty)
	if !s.CoveredQty.IsPositive() {
		// Keep a canonical zero rather than a negative or empty decimal.
		s.CoveredQty = Q(0)
	}
	if uncovered := opts.CurrentBalance.Sub(s.CoveredQty); uncovered.IsPositive() {
		s.UncoveredQty = uncovered
	}

	s.CostBasis = zero
	if s.CoveredQty.IsPositive() && s.AvgBuyPriceCurrent.IsPositive() {
		s.CostBasis = s.AvgBuyPriceCurrent.Mul(s.CoveredQty).In(currency)
	}
	s.UnrealizedPnL = zero
	if s.CoveredQty.IsPositive() && opts.CurrentPrice.IsPositive() {
		s.UnrealizedPnL = opts.CurrentPrice.Mul(s.CoveredQty).In(currency).Sub(s.CostBasis)
	}

	s.BasisConfidence = Exact
	if queue.estimated() {
		s.BasisConfidence = Estimated
	}
	s.NetPosition = s.TotalBought.Sub(s.TotalSold)
	return s
}

// MarshalJSON writes the snapshot with a stable field order.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", s.Symbol)
	w.Append("currency", s.Currency)
	w.Append("avgBuyPriceCurrent", s.AvgBuyPriceCurrent.Decimal())
	w.Append("avgBuyPriceLifetime", s.AvgBuyPriceLifetime.Decimal())
	w.Append("avgSellPrice", s.AvgSellPrice.Decimal())
	w.Append("costBasis", s.CostBasis.Decimal())
	w.Append("realizedPnl", s.RealizedPnL.Decimal())
	w.Append("unrealizedPnl", s.UnrealizedPnL.Decimal())
	w.Append("totalFeesUsd", s.TotalFeesUSD.Decimal())
	w.Append("basisConfidence", s.BasisConfidence)
	w.Append("totalBought", s.TotalBought)
	w.Append("totalSold", s.TotalSold)
	w.Append("buyCount", s.BuyCount)
	w.Append("sellCount", s.SellCount)
	w.Append("netPosition", s.NetPosition)
	w.Optional("firstBuyDate", s.FirstBuyMs)
	w.Optional("lastBuyDate", s.LastBuyMs)
	w.Optional("lastSellDate", s.LastSellMs)
	w.Append("openQty", s.OpenQty)
	w.Append("coveredQty", s.CoveredQty)
	w.Append("uncoveredQty", s.UncoveredQty)
	w.Append("currentPrice", s.CurrentPrice.Decimal())
	w.Append("currentBalance", s.CurrentBalance)
	return w.MarshalJSON()
}
