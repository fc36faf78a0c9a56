package costbasis

// LedgerEvent is one accounting-relevant occurrence for a single asset, as
// consumed by the cost-basis calculator. It is immutable once built.
type LedgerEvent struct {
	// ID is the identifier of the source record.
	ID        string
	Kind      EventKind
	Symbol    string
	Timestamp int64 // epoch milliseconds
	Qty       Quantity
	// Price is the quote currency value of one unit. The zero value means
	// the event carries no price.
	Price  Money
	FeeUSD Money

	FeeAsset     string
	QuoteAsset   string
	ConnectionID string
	Exchange     string
	SourceType   string

	// EstimatedBasis is true when Price is a best-effort valuation rather
	// than an executed fill price.
	EstimatedBasis bool
}

// HasPrice reports whether the event carries a usable, positive price.
func (e LedgerEvent) HasPrice() bool { return e.Price.IsPositive() }

// MarshalJSON writes the event with a stable field order.
func (e LedgerEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", e.ID)
	w.Append("kind", e.Kind)
	w.Append("symbol", e.Symbol)
	w.Append("timestamp", e.Timestamp)
	w.Append("qty", e.Qty)
	if e.HasPrice() {
		w.Append("price", e.Price.Decimal())
	}
	if !e.FeeUSD.IsZero() {
		w.Append("feeUsd", e.FeeUSD.Decimal())
	}
	w.EmbedFrom(struct {
		FeeAsset       string `json:"feeAsset,omitempty"`
		QuoteAsset     string `json:"quoteAsset,omitempty"`
		ConnectionID   string `json:"connectionId,omitempty"`
		Exchange       string `json:"exchange,omitempty"`
		SourceType     string `json:"sourceType,omitempty"`
		EstimatedBasis bool   `json:"estimatedBasis,omitempty"`
	}{e.FeeAsset, e.QuoteAsset, e.ConnectionID, e.Exchange, e.SourceType, e.EstimatedBasis})
	return w.MarshalJSON()
}
