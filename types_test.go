package costbasis

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := map[string]string{
		" btc/usdt ": "BTC",
		"eth-usd":    "ETH",
		"SOL_EUR":    "SOL",
		"ada:usdc":   "ADA",
		"Doge":       "DOGE",
		"-BTC":       "-BTC",
		"":           "",
	}
	for in, want := range tests {
		if got := NormalizeSymbol(in); got != want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRawTransfer_Direction(t *testing.T) {
	tests := []struct {
		tr           RawTransfer
		wantOut      bool
		wantInternal bool
	}{
		{tr: RawTransfer{Type: "deposit"}},
		{tr: RawTransfer{Type: "withdrawal"}, wantOut: true},
		{tr: RawTransfer{Type: "crypto_withdraw"}, wantOut: true},
		{tr: RawTransfer{Type: "SEND"}, wantOut: true},
		{tr: RawTransfer{Type: "transfer_out"}, wantOut: true},
		{tr: RawTransfer{Type: "outbound"}},
		{tr: RawTransfer{Type: "withdrawals"}, wantOut: true},
		{tr: RawTransfer{Type: "cryptoWithdrawal"}, wantOut: true},
		{tr: RawTransfer{Type: "Sent"}, wantOut: true},
		{tr: RawTransfer{Type: "TransferOut"}, wantOut: true},
		{tr: RawTransfer{Type: "payout"}},
		{tr: RawTransfer{Type: " Internal "}, wantInternal: true},
		{tr: RawTransfer{Type: "internal_move"}},
		{tr: RawTransfer{Type: "transfer_out", Internal: true}, wantOut: true, wantInternal: true},
	}
	for _, tt := range tests {
		if got := tt.tr.isOutgoing(); got != tt.wantOut {
			t.Errorf("%+v.isOutgoing() = %v, want %v", tt.tr, got, tt.wantOut)
		}
		if got := tt.tr.isInternal(); got != tt.wantInternal {
			t.Errorf("%+v.isInternal() = %v, want %v", tt.tr, got, tt.wantInternal)
		}
	}
}

func TestTypeWords(t *testing.T) {
	tests := map[string][]string{
		"transfer_out":     {"transfer", "out"},
		"TransferOut":      {"transfer", "out"},
		"cryptoWithdrawal": {"crypto", "withdrawal"},
		"SEND":             {"send"},
		"payout":           {"payout"},
		"":                 nil,
	}
	for in, want := range tests {
		if diff := cmp.Diff(want, typeWords(in)); diff != "" {
			t.Errorf("typeWords(%q) mismatch (-want +got):\n%s", in, diff)
		}
	}
}

func TestParseSide(t *testing.T) {
	tests := map[string]side{
		"buy":     sideBuy,
		" LONG":   sideBuy,
		"Sell":    sideSell,
		"short":   sideSell,
		"funding": sideFunding,
		"swap":    sideUnknown,
		"":        sideUnknown,
	}
	for in, want := range tests {
		if got := parseSide(in); got != want {
			t.Errorf("parseSide(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestEventKind_JSON(t *testing.T) {
	for k := TradeBuy; k <= Funding; k++ {
		data, err := json.Marshal(k)
		if err != nil {
			t.Fatalf("json.Marshal(%v) error = %v", k, err)
		}
		var got EventKind
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("json.Unmarshal(%s) error = %v", data, err)
		}
		if got != k {
			t.Errorf("json round trip of %v = %v", k, got)
		}
	}
	if k, err := ParseEventKind("internal_move_out"); err != nil || k != InternalMoveOut {
		t.Errorf("ParseEventKind(internal_move_out) = %v, %v, want %v", k, err, InternalMoveOut)
	}
	if _, err := ParseEventKind("TRADE"); err == nil {
		t.Error("ParseEventKind(TRADE) error = nil, want an error")
	}
	if got := EventKind(0).String(); got != "UNKNOWN" {
		t.Errorf("EventKind(0).String() = %q, want UNKNOWN", got)
	}
}

func TestEventKind_Classes(t *testing.T) {
	tests := []struct {
		kind        EventKind
		acquisition bool
		disposal    bool
		trade       bool
	}{
		{TradeBuy, true, false, true},
		{TradeSell, false, true, true},
		{TransferIn, true, false, false},
		{TransferOut, false, true, false},
		{InternalMoveIn, true, false, false},
		{InternalMoveOut, false, true, false},
		{Fee, false, false, false},
		{Funding, false, false, false},
	}
	for _, tt := range tests {
		if got := tt.kind.IsAcquisition(); got != tt.acquisition {
			t.Errorf("%v.IsAcquisition() = %v, want %v", tt.kind, got, tt.acquisition)
		}
		if got := tt.kind.IsDisposal(); got != tt.disposal {
			t.Errorf("%v.IsDisposal() = %v, want %v", tt.kind, got, tt.disposal)
		}
		if got := tt.kind.IsTrade(); got != tt.trade {
			t.Errorf("%v.IsTrade() = %v, want %v", tt.kind, got, tt.trade)
		}
	}
}

func TestMoney_String(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{USD(1234.5), "$1,234.50"},
		{USD(-5), "-$5.00"},
		{M(12.3, "TOKEN"), "12.30 TOKEN"},
		{NO(12.3), "12.30"},
		{NO(1.23456).exact(), "1.23456"},
		{USD(1.23456).exact(), "1.23456 USD"},
		{USD(1.23456).exact().Rounded(), "$1.23"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestMoney_SignedString(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{USD(0), "-"},
		{USD(5), "+$5.00"},
		{USD(-5), "-$5.00"},
	}
	for _, tt := range tests {
		if got := tt.m.SignedString(); got != tt.want {
			t.Errorf("%v.SignedString() = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestMoney_Currency(t *testing.T) {
	if got := NO(1).Add(USD(2)); got.Currency() != "USD" || !got.Equal(USD(3)) {
		t.Errorf("NO(1).Add(USD(2)) = %v, want $3.00", got)
	}
	if got := USD(1).Sub(M(2, "EUR")); got.Currency() != "USD" {
		t.Errorf("USD(1).Sub(EUR(2)).Currency() = %q, want USD", got.Currency())
	}
	if got := USD(10).Div(Q(4)).Mul(Q(2)); !got.Equal(USD(5)) {
		t.Errorf("USD(10)/4*2 = %v, want $5.00", got)
	}
}

func TestMoney_MarshalJSON(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{USD(1.005), `{"currency":"USD","amount":1.01}`},
		{USD(1.005).exact(), `{"currency":"USD","amount":1.005}`},
		{NO(2), `{"amount":2}`},
	}
	for _, tt := range tests {
		got, err := json.Marshal(tt.m)
		if err != nil {
			t.Fatalf("json.Marshal(%v) error = %v", tt.m, err)
		}
		if string(got) != tt.want {
			t.Errorf("json.Marshal(%v) = %s, want %s", tt.m, got, tt.want)
		}
	}
}

func TestQuantity(t *testing.T) {
	tests := []struct {
		name string
		got  Quantity
		want Quantity
	}{
		{"clamp below", Q(-1).Clamp(Q(0), Q(2)), Q(0)},
		{"clamp above", Q(3).Clamp(Q(0), Q(2)), Q(2)},
		{"clamp inside", Q(1.5).Clamp(Q(0), Q(2)), Q(1.5)},
		{"min", Q(3).Min(Q(2)), Q(2)},
		{"sub", Q(1).Sub(Q(0.25)), Q(0.75)},
	}
	for _, tt := range tests {
		if !tt.got.Equal(tt.want) {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if !Q(1e-13).IsNegligible() || !Q(-1e-12).IsNegligible() {
		t.Error("IsNegligible() = false for values within 1e-12")
	}
	if Q(1e-11).IsNegligible() {
		t.Error("Q(1e-11).IsNegligible() = true, want false")
	}
}

func TestBasisConfidence(t *testing.T) {
	if got := Exact.Weakest(Exact); got != Exact {
		t.Errorf("Exact.Weakest(Exact) = %v, want exact", got)
	}
	if got := Exact.Weakest(Estimated); got != Estimated {
		t.Errorf("Exact.Weakest(Estimated) = %v, want estimated", got)
	}
	data, err := json.Marshal(Estimated)
	if err != nil {
		t.Fatalf("json.Marshal(Estimated) error = %v", err)
	}
	if string(data) != `"estimated"` {
		t.Errorf("json.Marshal(Estimated) = %s, want \"estimated\"", data)
	}
	var c BasisConfidence
	if err := json.Unmarshal([]byte(`"exact"`), &c); err != nil || c != Exact {
		t.Errorf("json.Unmarshal(exact) = %v, %v", c, err)
	}
	if err := json.Unmarshal([]byte(`"guessed"`), &c); err == nil {
		t.Error("json.Unmarshal(guessed) error = nil, want an error")
	}
}
