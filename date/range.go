package date

import "fmt"

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// NewRange returns the period of the given kind that contains d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Window returns the range as inclusive epoch milliseconds: from the first
// millisecond of From to the last millisecond of To. A zero boundary is
// returned as 0, meaning unbounded.
func (r Range) Window() (fromMs, toMs int64) {
	if !r.From.IsZero() {
		fromMs = r.From.StartMillis()
	}
	if !r.To.IsZero() {
		toMs = r.To.EndMillis()
	}
	return fromMs, toMs
}

// String describes the range.
func (r Range) String() string {
	switch {
	case r.From.IsZero() && r.To.IsZero():
		return "all time"
	case r.From.IsZero():
		return fmt.Sprintf("until %s", r.To)
	case r.To.IsZero():
		return fmt.Sprintf("since %s", r.From)
	case r.From == r.To:
		return r.From.String()
	default:
		return fmt.Sprintf("%s to %s", r.From, r.To)
	}
}
