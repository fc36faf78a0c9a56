package costbasis

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// EventKind is the type of a ledger event.
type EventKind int

const (
	TradeBuy EventKind = iota + 1
	TradeSell
	TransferIn
	TransferOut
	InternalMoveIn
	InternalMoveOut
	Fee
	Funding
)

var kindNames = map[EventKind]string{
	TradeBuy:        "TRADE_BUY",
	TradeSell:       "TRADE_SELL",
	TransferIn:      "TRANSFER_IN",
	TransferOut:     "TRANSFER_OUT",
	InternalMoveIn:  "INTERNAL_MOVE_IN",
	InternalMoveOut: "INTERNAL_MOVE_OUT",
	Fee:             "FEE",
	Funding:         "FUNDING",
}

func (k EventKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseEventKind parses the upper or lower case name of a kind.
func ParseEventKind(s string) (EventKind, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind: %q", s)
}

// IsAcquisition reports whether the event can open a lot.
func (k EventKind) IsAcquisition() bool {
	return k == TradeBuy || k == TransferIn || k == InternalMoveIn
}

// IsDisposal reports whether the event consumes lots.
func (k EventKind) IsDisposal() bool {
	return k == TradeSell || k == TransferOut || k == InternalMoveOut
}

// IsTrade reports whether the event is an executed fill.
func (k EventKind) IsTrade() bool { return k == TradeBuy || k == TradeSell }

func (k EventKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *EventKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseEventKind(s)
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// side is the normalized side of a raw transaction.
type side int

const (
	sideUnknown side = iota
	sideBuy
	sideSell
	sideFunding
)

// parseSide resolves the free-form side of an upstream record.
func parseSide(s string) side {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "long":
		return sideBuy
	case "sell", "short":
		return sideSell
	case "funding":
		return sideFunding
	default:
		return sideUnknown
	}
}
