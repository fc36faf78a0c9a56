package costbasis

import "github.com/shopspring/decimal"

// negligible is the quantity under which a lot is considered fully consumed.
// It absorbs the residue left by repeated proportional reductions.
var negligible = decimal.New(1, -12)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// Quantity is an exact amount of units of an asset.
type Quantity struct {
	value decimal.Decimal
}

// Q creates a Quantity.
func Q[T float64 | int | int64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

func (q Quantity) Equal(p Quantity) bool       { return q.value.Equal(p.value) }
func (q Quantity) LessThan(p Quantity) bool    { return q.value.LessThan(p.value) }
func (q Quantity) GreaterThan(p Quantity) bool { return q.value.GreaterThan(p.value) }
func (q Quantity) Add(p Quantity) Quantity     { return Quantity{value: q.value.Add(p.value)} }
func (q Quantity) Sub(p Quantity) Quantity     { return Quantity{value: q.value.Sub(p.value)} }
func (q Quantity) IsNegative() bool            { return q.value.IsNegative() }
func (q Quantity) IsPositive() bool            { return q.value.IsPositive() }
func (q Quantity) IsZero() bool                { return q.value.IsZero() }
func (q Quantity) Decimal() decimal.Decimal    { return q.value }
func (q Quantity) String() string              { return q.value.String() }

// Min returns the smallest of q and p.
func (q Quantity) Min(p Quantity) Quantity {
	if p.LessThan(q) {
		return p
	}
	return q
}

// Clamp bounds q to the [lo, hi] interval.
func (q Quantity) Clamp(lo, hi Quantity) Quantity {
	if q.LessThan(lo) {
		return lo
	}
	if q.GreaterThan(hi) {
		return hi
	}
	return q
}

// IsNegligible reports whether q is within 1e-12 of zero.
func (q Quantity) IsNegligible() bool {
	return q.value.Abs().LessThanOrEqual(negligible)
}

// MarshalJSON implements the json.Marshaler interface.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return q.value.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (q *Quantity) UnmarshalJSON(decimalBytes []byte) error {
	return q.value.UnmarshalJSON(decimalBytes)
}
