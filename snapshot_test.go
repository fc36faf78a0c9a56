package costbasis

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeSnapshot_Example(t *testing.T) {
	s := ComputeSnapshot(SnapshotOptions{
		Events: []LedgerEvent{
			buyAt(1000, 1, 10000, 5),
			buyAt(2000, 1, 20000, 5),
			sellAt(3000, 1.5, 25000, 10),
		},
		CurrentPrice:   NO(30000),
		CurrentBalance: Q(0.5),
	})

	testCases := []struct {
		name string
		got  Money
		want Money
	}{
		{"RealizedPnL", s.RealizedPnL, NO(17482.5)},
		{"AvgBuyPriceCurrent", s.AvgBuyPriceCurrent, NO(20005)},
		{"AvgBuyPriceLifetime", s.AvgBuyPriceLifetime, NO(15005)},
		{"AvgSellPrice", s.AvgSellPrice, NO(37490).Div(Q(1.5))},
		{"CostBasis", s.CostBasis, NO(10002.5)},
		{"UnrealizedPnL", s.UnrealizedPnL, NO(4997.5)},
		{"TotalFeesUSD", s.TotalFeesUSD, NO(20)},
		{"CurrentPrice", s.CurrentPrice, NO(30000)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.got.Equal(tc.want) {
				t.Errorf("%s = %v, want %v", tc.name, tc.got.Decimal(), tc.want.Decimal())
			}
			if tc.got.Currency() != DefaultCurrency {
				t.Errorf("%s currency = %q, want %q", tc.name, tc.got.Currency(), DefaultCurrency)
			}
		})
	}

	if s.Symbol != "BTC" || s.Currency != "USD" {
		t.Errorf("Symbol, Currency = %q, %q, want BTC, USD", s.Symbol, s.Currency)
	}
	if !s.OpenQty.Equal(Q(0.5)) || !s.CoveredQty.Equal(Q(0.5)) || !s.UncoveredQty.IsZero() {
		t.Errorf("OpenQty, CoveredQty, UncoveredQty = %v, %v, %v, want 0.5, 0.5, 0", s.OpenQty, s.CoveredQty, s.UncoveredQty)
	}
	if !s.TotalBought.Equal(Q(2)) || !s.TotalSold.Equal(Q(1.5)) || !s.NetPosition.Equal(Q(0.5)) {
		t.Errorf("TotalBought, TotalSold, NetPosition = %v, %v, %v, want 2, 1.5, 0.5", s.TotalBought, s.TotalSold, s.NetPosition)
	}
	if s.BuyCount != 2 || s.SellCount != 1 {
		t.Errorf("BuyCount, SellCount = %d, %d, want 2, 1", s.BuyCount, s.SellCount)
	}
	if s.FirstBuyMs != 1000 || s.LastBuyMs != 2000 || s.LastSellMs != 3000 {
		t.Errorf("FirstBuyMs, LastBuyMs, LastSellMs = %d, %d, %d, want 1000, 2000, 3000", s.FirstBuyMs, s.LastBuyMs, s.LastSellMs)
	}
	if s.BasisConfidence != Exact {
		t.Errorf("BasisConfidence = %v, want exact", s.BasisConfidence)
	}
}

func TestComputeSnapshot_TransferInWithoutPrice(t *testing.T) {
	events := BuildLedgerEvents(BuildOptions{
		Symbol:    "ETH",
		Transfers: []RawTransfer{tr("d1", "ETH", "deposit", 2, 1000)},
	})
	if len(events) != 1 || events[0].Kind != TransferIn || events[0].HasPrice() {
		t.Fatalf("BuildLedgerEvents() = %v, want one unpriced TRANSFER_IN", events)
	}

	s := ComputeSnapshot(SnapshotOptions{Events: events, CurrentPrice: NO(3000), CurrentBalance: Q(2)})
	if !s.TotalBought.IsZero() || s.BuyCount != 0 || !s.OpenQty.IsZero() {
		t.Errorf("TotalBought, BuyCount, OpenQty = %v, %d, %v, want no lot", s.TotalBought, s.BuyCount, s.OpenQty)
	}
	if !s.UncoveredQty.Equal(Q(2)) || !s.UnrealizedPnL.IsZero() || !s.CostBasis.IsZero() {
		t.Errorf("UncoveredQty, UnrealizedPnL, CostBasis = %v, %v, %v, want 2, 0, 0", s.UncoveredQty, s.UnrealizedPnL, s.CostBasis)
	}
	if s.Symbol != "ETH" {
		t.Errorf("Symbol = %q, want ETH", s.Symbol)
	}
}

func TestComputeSnapshot_FIFO(t *testing.T) {
	// Averaging would consume 300, LIFO 400.
	s := ComputeSnapshot(SnapshotOptions{Events: []LedgerEvent{
		buyAt(1, 1, 100, 0),
		buyAt(2, 1, 200, 0),
		buyAt(3, 1, 300, 0),
		sellAt(4, 1.5, 400, 0),
	}})
	if want := NO(600 - 200); !s.RealizedPnL.Equal(want) {
		t.Errorf("RealizedPnL = %v, want %v", s.RealizedPnL.Decimal(), want.Decimal())
	}
	if want := NO(400).Div(Q(1.5)); !s.AvgBuyPriceCurrent.Equal(want) {
		t.Errorf("AvgBuyPriceCurrent = %v, want %v", s.AvgBuyPriceCurrent.Decimal(), want.Decimal())
	}
}

func TestComputeSnapshot_Conservation(t *testing.T) {
	s := ComputeSnapshot(SnapshotOptions{Events: []LedgerEvent{
		buyAt(1, 0.3, 17000, 1.5),
		buyAt(2, 1.2, 21000, 3),
		depositAt(3, 0.5, 25000),
		buyAt(4, 0.01, 60000, 0.1),
	}})
	if !s.AvgBuyPriceLifetime.Equal(s.AvgBuyPriceCurrent) {
		t.Errorf("AvgBuyPriceLifetime = %v, AvgBuyPriceCurrent = %v, want equal", s.AvgBuyPriceLifetime.Decimal(), s.AvgBuyPriceCurrent.Decimal())
	}
	if !s.RealizedPnL.IsZero() {
		t.Errorf("RealizedPnL = %v, want 0", s.RealizedPnL)
	}
}

func TestComputeSnapshot_RealizedSign(t *testing.T) {
	testCases := []struct {
		name      string
		sellPrice float64
		sign      int
	}{
		{"above cost", 150, 1},
		{"at cost", 100, 0},
		{"below cost", 50, -1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := ComputeSnapshot(SnapshotOptions{Events: []LedgerEvent{
				buyAt(1, 2, 100, 0),
				sellAt(2, 1, tc.sellPrice, 0),
			}})
			if got := s.RealizedPnL.Decimal().Sign(); got != tc.sign {
				t.Errorf("RealizedPnL = %v, want sign %d", s.RealizedPnL, tc.sign)
			}
		})
	}
}

func TestComputeSnapshot_Idempotent(t *testing.T) {
	opts := SnapshotOptions{
		Events:         []LedgerEvent{buyAt(1, 1, 100, 1), depositAt(2, 1, 120), sellAt(3, 1.5, 130, 1)},
		CurrentPrice:   NO(140),
		CurrentBalance: Q(1),
	}
	first, err := ComputeSnapshot(opts).MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	second, err := ComputeSnapshot(opts).MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(string(first), string(second)); diff != "" {
		t.Errorf("ComputeSnapshot() mismatch (-first +second):\n%s", diff)
	}
}

func TestComputeSnapshot_UnsortedInput(t *testing.T) {
	sorted := []LedgerEvent{buyAt(1, 1, 100, 0), buyAt(2, 1, 200, 0), sellAt(3, 1, 300, 0), buyAt(4, 1, 400, 0)}
	unsorted := []LedgerEvent{sorted[2], sorted[3], sorted[0], sorted[1]}
	original := slices.Clone(unsorted)

	want := ComputeSnapshot(SnapshotOptions{Events: sorted, CurrentPrice: NO(500), CurrentBalance: Q(2)})
	got := ComputeSnapshot(SnapshotOptions{Events: unsorted, CurrentPrice: NO(500), CurrentBalance: Q(2)})
	if diff := cmp.Diff(want, got, cmpOpts...); diff != "" {
		t.Errorf("ComputeSnapshot(unsorted) mismatch (-sorted +unsorted):\n%s", diff)
	}
	if diff := cmp.Diff(original, unsorted, cmpOpts...); diff != "" {
		t.Errorf("ComputeSnapshot() mutated its input (-before +after):\n%s", diff)
	}
}

func TestComputeSnapshot_Confidence(t *testing.T) {
	testCases := []struct {
		name   string
		events []LedgerEvent
		want   BasisConfidence
	}{
		{"buys only", []LedgerEvent{buyAt(1, 1, 100, 0)}, Exact},
		{"open deposit", []LedgerEvent{buyAt(1, 1, 100, 0), depositAt(2, 1, 100)}, Estimated},
		{"partly consumed deposit", []LedgerEvent{depositAt(1, 1, 100), sellAt(2, 0.5, 100, 0)}, Estimated},
		{"consumed deposit", []LedgerEvent{depositAt(1, 1, 100), buyAt(2, 1, 100, 0), sellAt(3, 1, 100, 0)}, Exact},
		{"unpriced deposit", []LedgerEvent{buyAt(1, 1, 100, 0), {Kind: TransferIn, Timestamp: 2, Qty: Q(1), EstimatedBasis: true}}, Exact},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeSnapshot(SnapshotOptions{Events: tc.events}).BasisConfidence; got != tc.want {
				t.Errorf("BasisConfidence = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestComputeSnapshot_Underflow(t *testing.T) {
	s := ComputeSnapshot(SnapshotOptions{
		Events:         []LedgerEvent{buyAt(1, 1, 100, 0), sellAt(2, 5, 200, 0)},
		CurrentPrice:   NO(200),
		CurrentBalance: Q(3),
	})
	if !s.NetPosition.Equal(Q(-4)) {
		t.Errorf("NetPosition = %v, want -4", s.NetPosition)
	}
	if !s.OpenQty.IsZero() || !s.CoveredQty.IsZero() || !s.UncoveredQty.Equal(Q(3)) {
		t.Errorf("OpenQty, CoveredQty, UncoveredQty = %v, %v, %v, want 0, 0, 3", s.OpenQty, s.CoveredQty, s.UncoveredQty)
	}
	// Only the known lot has a cost.
	if !s.RealizedPnL.Equal(NO(900)) {
		t.Errorf("RealizedPnL = %v, want 900", s.RealizedPnL)
	}
	if !s.AvgBuyPriceCurrent.IsZero() || !s.UnrealizedPnL.IsZero() {
		t.Errorf("AvgBuyPriceCurrent, UnrealizedPnL = %v, %v, want 0, 0", s.AvgBuyPriceCurrent, s.UnrealizedPnL)
	}
}

func TestComputeSnapshot_TransferOut(t *testing.T) {
	s := ComputeSnapshot(SnapshotOptions{Events: []LedgerEvent{
		buyAt(1, 2, 100, 0),
		withdrawAt(2, 1),
		{Kind: InternalMoveOut, Timestamp: 3, Qty: Q(0.5)},
	}})
	if !s.RealizedPnL.IsZero() || !s.AvgSellPrice.IsZero() {
		t.Errorf("RealizedPnL, AvgSellPrice = %v, %v, want 0, 0", s.RealizedPnL, s.AvgSellPrice)
	}
	if s.SellCount != 2 || s.LastSellMs != 3 || !s.TotalSold.Equal(Q(1.5)) {
		t.Errorf("SellCount, LastSellMs, TotalSold = %d, %d, %v, want 2, 3, 1.5", s.SellCount, s.LastSellMs, s.TotalSold)
	}
	if !s.OpenQty.Equal(Q(0.5)) || !s.AvgBuyPriceCurrent.Equal(NO(100)) {
		t.Errorf("OpenQty, AvgBuyPriceCurrent = %v, %v, want 0.5, 100", s.OpenQty, s.AvgBuyPriceCurrent)
	}
}

func TestComputeSnapshot_Fees(t *testing.T) {
	s := ComputeSnapshot(SnapshotOptions{Events: []LedgerEvent{
		buyAt(1, 1, 100, 1),
		{Kind: Fee, Timestamp: 2, FeeUSD: NO(2)},
		{Kind: Funding, Timestamp: 3, Qty: Q(1), FeeUSD: NO(-0.5)},
		{Kind: TransferOut, Timestamp: 4, Qty: Q(0.1), FeeUSD: NO(0.25)},
	}})
	if !s.TotalFeesUSD.Equal(NO(2.75)) {
		t.Errorf("TotalFeesUSD = %v, want 2.75", s.TotalFeesUSD)
	}
	if s.BuyCount != 1 || !s.TotalBought.Equal(Q(1)) {
		t.Errorf("BuyCount, TotalBought = %d, %v, want 1, 1", s.BuyCount, s.TotalBought)
	}
}

func TestComputeSnapshot_Empty(t *testing.T) {
	s := ComputeSnapshot(SnapshotOptions{Symbol: "sol/usdc", Currency: "EUR", CurrentPrice: NO(150), CurrentBalance: Q(10)})
	if s.Symbol != "SOL" || s.Currency != "EUR" {
		t.Errorf("Symbol, Currency = %q, %q, want SOL, EUR", s.Symbol, s.Currency)
	}
	if s.BasisConfidence != Exact || !s.UncoveredQty.Equal(Q(10)) || !s.NetPosition.IsZero() {
		t.Errorf("snapshot = %+v, want an exact, fully uncovered, flat snapshot", s)
	}
	if s.RealizedPnL.Currency() != "EUR" || s.CostBasis.Currency() != "EUR" {
		t.Errorf("money currencies = %q, %q, want EUR", s.RealizedPnL.Currency(), s.CostBasis.Currency())
	}
}

func TestSnapshot_MarshalJSON(t *testing.T) {
	s := ComputeSnapshot(SnapshotOptions{
		Events:         []LedgerEvent{buyAt(1000, 1, 100, 0)},
		CurrentPrice:   NO(150),
		CurrentBalance: Q(1),
	})
	got, err := s.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"symbol":"BTC","currency":"USD","avgBuyPriceCurrent":100,"avgBuyPriceLifetime":100,"avgSellPrice":0,` +
		`"costBasis":100,"realizedPnl":0,"unrealizedPnl":50,"totalFeesUsd":0,"basisConfidence":"exact",` +
		`"totalBought":1,"totalSold":0,"buyCount":1,"sellCount":0,"netPosition":1,"firstBuyDate":1000,"lastBuyDate":1000,` +
		`"openQty":1,"coveredQty":1,"uncoveredQty":0,"currentPrice":150,"currentBalance":1}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("MarshalJSON() mismatch (-want +got):\n%s", diff)
	}
}
