package costbasis

import (
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// NO is a helper for test to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

// D is a helper for test to create a decimal from const
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// cmpOpts compare decimal based values by value.
var cmpOpts = []cmp.Option{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Quantity) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Money) bool { return a.Equal(b) }),
}

func buyAt(ts int64, qty, price, fee float64) LedgerEvent {
	return LedgerEvent{Kind: TradeBuy, Symbol: "BTC", Timestamp: ts, Qty: Q(qty), Price: NO(price), FeeUSD: NO(fee)}
}

func sellAt(ts int64, qty, price, fee float64) LedgerEvent {
	return LedgerEvent{Kind: TradeSell, Symbol: "BTC", Timestamp: ts, Qty: Q(qty), Price: NO(price), FeeUSD: NO(fee)}
}

func depositAt(ts int64, qty, price float64) LedgerEvent {
	return LedgerEvent{Kind: TransferIn, Symbol: "BTC", Timestamp: ts, Qty: Q(qty), Price: NO(price), EstimatedBasis: true}
}

func withdrawAt(ts int64, qty float64) LedgerEvent {
	return LedgerEvent{Kind: TransferOut, Symbol: "BTC", Timestamp: ts, Qty: Q(qty)}
}

func tx(id, symbol, side string, amount, price, fee float64, ts int64) RawTransaction {
	return RawTransaction{ID: id, Symbol: symbol, Side: side, Amount: D(amount), Price: D(price), Fee: D(fee), Timestamp: ts}
}

func tr(id, symbol, typ string, amount float64, ts int64) RawTransfer {
	return RawTransfer{ID: id, Symbol: symbol, Type: typ, Amount: D(amount), Timestamp: ts}
}
