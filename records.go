package costbasis

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// RawTransaction is one executed trade as reported by a wallet or exchange
// connector.
type RawTransaction struct {
	ID     string `json:"id,omitempty"`
	Symbol string `json:"symbol"`
	// Side is one of buy, sell, long, short or funding.
	Side   string          `json:"side"`
	Amount decimal.Decimal `json:"amount"`
	// Price is in quote currency per unit.
	Price decimal.Decimal `json:"price"`
	// Fee is in quote currency units.
	Fee        decimal.Decimal `json:"fee"`
	FeeAsset   string          `json:"feeAsset,omitempty"`
	QuoteAsset string          `json:"quoteAsset,omitempty"`
	// Timestamp is in epoch milliseconds.
	Timestamp    int64  `json:"timestamp"`
	ConnectionID string `json:"connectionId,omitempty"`
	Exchange     string `json:"exchange,omitempty"`
	SourceType   string `json:"sourceType,omitempty"`
	// EstimatedBasis is set when Price is not an authoritative fill price.
	EstimatedBasis bool `json:"estimatedBasis,omitempty"`
}

// RawTransfer is an asset movement not tied to a fill: a deposit, a
// withdrawal, or a move between the user's own accounts.
type RawTransfer struct {
	ID     string `json:"id,omitempty"`
	Symbol string `json:"symbol"`
	// Type is free-form (deposit, withdrawal, internal, transfer_out...).
	Type string `json:"type"`
	// Internal flags a move between the user's own accounts.
	Internal     bool            `json:"internal,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Fee          decimal.Decimal `json:"fee"`
	FeeAsset     string          `json:"feeAsset,omitempty"`
	Timestamp    int64           `json:"timestamp"`
	ConnectionID string          `json:"connectionId,omitempty"`
	Exchange     string          `json:"exchange,omitempty"`
	SourceType   string          `json:"sourceType,omitempty"`
}

// isInternal reports whether the transfer is a move between own accounts.
func (t RawTransfer) isInternal() bool {
	return t.Internal || strings.EqualFold(strings.TrimSpace(t.Type), "internal")
}

// withdrawalMarkers mark an outgoing movement wherever they appear in a
// transfer type: withdrawals, cryptoWithdrawal, send_to_address...
var withdrawalMarkers = []string{"withdraw", "send"}

// withdrawalWords mark an outgoing movement only as a whole word, so that
// payout or outstanding stay incoming.
var withdrawalWords = map[string]bool{
	"out":  true,
	"sent": true,
}

// isOutgoing reports whether the transfer type carries a withdrawal
// indicator.
func (t RawTransfer) isOutgoing() bool {
	lower := strings.ToLower(t.Type)
	for _, m := range withdrawalMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	for _, w := range typeWords(t.Type) {
		if withdrawalWords[w] {
			return true
		}
	}
	return false
}

// typeWords splits a transfer type into lower-case words, on any non-letter
// and on camel case boundaries (TransferOut is transfer, out).
func typeWords(typ string) []string {
	var words []string
	var word []rune
	flush := func() {
		if len(word) > 0 {
			words = append(words, strings.ToLower(string(word)))
			word = word[:0]
		}
	}
	prevLower := false
	for _, r := range typ {
		switch {
		case !unicode.IsLetter(r):
			flush()
			prevLower = false
			continue
		case unicode.IsUpper(r) && prevLower:
			flush()
		}
		word = append(word, r)
		prevLower = unicode.IsLower(r)
	}
	flush()
	return words
}

// NormalizeSymbol returns the canonical form of an asset symbol: trimmed,
// upper-cased, and reduced to the base asset when written as a pair
// (BTC/USDT, btc-usd, ETH_EUR, SOL:USDC).
func NormalizeSymbol(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if i := strings.IndexAny(s, "/-_:"); i > 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
