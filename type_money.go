package costbasis

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value in a quote currency.
type Money struct {
	value      decimal.Decimal // as major unit value
	cur        string
	fractional bool // true to persist in full digits
}

// M creates a Money. An empty currency is weak: it adopts the currency of
// whatever it is combined with.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// String returns the string representation of the money value.
//
// Currencies go-money knows about are formatted with their symbol and
// fraction; others (USDT, BTC...) are printed as a plain decimal followed
// by the code.
func (m Money) String() string {
	cur := money.GetCurrency(m.cur)
	if cur == nil || m.fractional {
		s := m.value.String()
		if !m.fractional {
			s = m.value.StringFixed(2)
		}
		if m.cur == "" {
			return s
		}
		return s + " " + m.cur
	}
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.Round(0).IntPart())
}

func (m Money) Currency() string                { return m.cur }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(q Quantity) Money            { return Money{value: m.value.Mul(q.value), cur: m.cur} }
func (m Money) Div(q Quantity) Money            { return Money{value: m.value.Div(q.value), cur: m.cur} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// In makes m a value of currency c.
func (m Money) In(c string) Money {
	m.cur = c
	return m
}

// makes the "" currency totally weak. Two different currencies keep the
// left one: the engine works in a single quote currency per snapshot and
// records only carry the code as metadata.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	return a.cur
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as "-".
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// exact return a copy of money that will be persisted with all the digits.
func (m Money) exact() Money {
	m.fractional = true
	return m
}

// Rounded returns a copy of money displayed and persisted in the currency
// fraction.
func (m Money) Rounded() Money {
	m.fractional = false
	return m
}

func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", m.cur)
	rounded := m.value
	if !m.fractional {
		fraction := 2
		if c := money.GetCurrency(m.cur); c != nil {
			fraction = c.Fraction
		}
		rounded = m.value.Round(int32(fraction))
	}
	w.Append("amount", rounded)
	return w.MarshalJSON()
}
