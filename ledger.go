package costbasis

import (
	"log/slog"
	"sort"
)

// BuildOptions are the inputs of BuildLedgerEvents.
type BuildOptions struct {
	// Symbol is the target asset; it is normalized before comparison.
	Symbol       string
	Transactions []RawTransaction
	Transfers    []RawTransfer
	// FromMs and ToMs bound the window, inclusive. Zero means unbounded.
	FromMs, ToMs int64
	// DepositBasisPrice values incoming transfers that have no price of
	// their own. Ignored unless positive.
	DepositBasisPrice Money
	// Logger, when set, receives one debug line per dropped record.
	Logger *slog.Logger
}

// ledgerBuilder accumulates events for one symbol.
type ledgerBuilder struct {
	opts   BuildOptions
	symbol string
	events []LedgerEvent
}

// BuildLedgerEvents projects raw transactions and transfers onto one
// time-ordered event stream for a single symbol.
//
// Records that cannot be accounted for are dropped silently: out of window,
// other symbol, non-positive amount, unknown side, or a buy/sell with no
// positive price. The result is stable-sorted by timestamp, so at equal
// timestamps transactions come before transfers and keep their input order.
func BuildLedgerEvents(opts BuildOptions) []LedgerEvent {
	b := &ledgerBuilder{
		opts:   opts,
		symbol: NormalizeSymbol(opts.Symbol),
		events: make([]LedgerEvent, 0, len(opts.Transactions)+len(opts.Transfers)),
	}
	for _, tx := range opts.Transactions {
		b.addTransaction(tx)
	}
	for _, tr := range opts.Transfers {
		b.addTransfer(tr)
	}
	sort.SliceStable(b.events, func(i, j int) bool {
		return b.events[i].Timestamp < b.events[j].Timestamp
	})
	return b.events
}

// accepts applies the filters shared by transactions and transfers.
func (b *ledgerBuilder) accepts(id, symbol string, ts int64, amount Quantity) bool {
	switch {
	case !b.inWindow(ts):
		b.drop(id, "timestamp out of window", "timestamp", ts)
	case NormalizeSymbol(symbol) != b.symbol:
		// Other symbols are expected in a multi-asset feed: not worth a log line.
	case !amount.IsPositive():
		b.drop(id, "non-positive amount", "amount", amount.String())
	default:
		return true
	}
	return false
}

func (b *ledgerBuilder) inWindow(ts int64) bool {
	if ts <= 0 {
		return false
	}
	if b.opts.FromMs > 0 && ts < b.opts.FromMs {
		return false
	}
	if b.opts.ToMs > 0 && ts > b.opts.ToMs {
		return false
	}
	return true
}

func (b *ledgerBuilder) drop(id, reason string, args ...any) {
	if b.opts.Logger == nil {
		return
	}
	b.opts.Logger.Debug("dropping record", append([]any{"symbol", b.symbol, "id", id, "reason", reason}, args...)...)
}

func (b *ledgerBuilder) addTransaction(tx RawTransaction) {
	amount := Q(tx.Amount)
	if !b.accepts(tx.ID, tx.Symbol, tx.Timestamp, amount) {
		return
	}

	e := LedgerEvent{
		ID:             tx.ID,
		Symbol:         b.symbol,
		Timestamp:      tx.Timestamp,
		Qty:            amount,
		FeeUSD:         M(tx.Fee, ""),
		FeeAsset:       tx.FeeAsset,
		QuoteAsset:     tx.QuoteAsset,
		ConnectionID:   tx.ConnectionID,
		Exchange:       tx.Exchange,
		SourceType:     tx.SourceType,
		EstimatedBasis: tx.EstimatedBasis,
	}

	switch parseSide(tx.Side) {
	case sideFunding:
		// Funding has no meaningful unit price.
		e.Kind = Funding
	case sideBuy, sideSell:
		if !tx.Price.IsPositive() {
			b.drop(tx.ID, "no fill price", "price", tx.Price.String())
			return
		}
		e.Kind = TradeBuy
		if parseSide(tx.Side) == sideSell {
			e.Kind = TradeSell
		}
		e.Price = M(tx.Price, "")
	default:
		b.drop(tx.ID, "unknown side", "side", tx.Side)
		return
	}
	b.events = append(b.events, e)
}

func (b *ledgerBuilder) addTransfer(tr RawTransfer) {
	amount := Q(tr.Amount)
	if !b.accepts(tr.ID, tr.Symbol, tr.Timestamp, amount) {
		return
	}

	e := LedgerEvent{
		ID:           tr.ID,
		Symbol:       b.symbol,
		Timestamp:    tr.Timestamp,
		Qty:          amount,
		FeeUSD:       M(tr.Fee, ""),
		FeeAsset:     tr.FeeAsset,
		ConnectionID: tr.ConnectionID,
		Exchange:     tr.Exchange,
		SourceType:   tr.SourceType,
	}

	internal, out := tr.isInternal(), tr.isOutgoing()
	switch {
	case internal && out:
		e.Kind = InternalMoveOut
	case internal:
		e.Kind = InternalMoveIn
	case out:
		e.Kind = TransferOut
	default:
		e.Kind = TransferIn
	}

	if !out {
		e.EstimatedBasis = true
		if b.opts.DepositBasisPrice.IsPositive() {
			e.Price = M(b.opts.DepositBasisPrice.Decimal(), "")
		}
	}
	b.events = append(b.events, e)
}
