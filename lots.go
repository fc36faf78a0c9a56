package costbasis

// lot is a still-open acquisition tranche.
type lot struct {
	Timestamp int64
	Quantity  Quantity
	Cost      Money // Total cost of the lot, fees included.
	Estimated bool  // Cost rests on a best-effort valuation.
}

// lotQueue is a FIFO of lots held by value. Lots are appended at the tail
// and consumed from head; consumed lots are skipped, never shifted.
type lotQueue struct {
	lots []lot
	head int
}

// push appends a new lot at the tail.
func (q *lotQueue) push(l lot) {
	q.lots = append(q.lots, l)
}

// open returns the lots still in the queue, oldest first.
func (q *lotQueue) open() []lot {
	return q.lots[q.head:]
}

// consume removes quantity from the oldest lots first and returns the cost
// of what was removed. It stops early when the queue runs dry: selling more
// than the observed history explains is a valid state.
func (q *lotQueue) consume(quantity Quantity) Money {
	var cost Money
	remaining := quantity
	for remaining.IsPositive() && q.head < len(q.lots) {
		current := &q.lots[q.head]
		take := remaining.Min(current.Quantity)

		var removed Money
		if take.Equal(current.Quantity) {
			removed = current.Cost
		} else {
			removed = current.Cost.Mul(take).Div(current.Quantity)
		}
		current.Quantity = current.Quantity.Sub(take)
		current.Cost = current.Cost.Sub(removed)
		cost = cost.Add(removed)
		remaining = remaining.Sub(take)

		if current.Quantity.IsNegligible() {
			q.lots[q.head] = lot{}
			q.head++
		}
	}
	return cost
}

// quantity is the total quantity of the open lots.
func (q *lotQueue) quantity() Quantity {
	var total Quantity
	for _, l := range q.open() {
		total = total.Add(l.Quantity)
	}
	return total
}

// cost is the total cost of the open lots.
func (q *lotQueue) cost() Money {
	var total Money
	for _, l := range q.open() {
		total = total.Add(l.Cost)
	}
	return total
}

// estimated reports whether any open lot rests on an estimated valuation.
func (q *lotQueue) estimated() bool {
	for _, l := range q.open() {
		if l.Estimated {
			return true
		}
	}
	return false
}
