package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/costbasis"
)

// EventsMarkdown renders the ledger of one asset as a table, in event order.
func EventsMarkdown(symbol string, events []costbasis.LedgerEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s Ledger\n\n", symbol)
	if len(events) == 0 {
		fmt.Fprintln(&b, "No events.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Date | Kind | Quantity | Price | Fee | Source |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|:---|")
	estimated := false
	for _, e := range events {
		price := "-"
		if e.HasPrice() {
			price = e.Price.Rounded().String()
			if e.EstimatedBasis {
				price += "*"
				estimated = true
			}
		}
		fee := "-"
		if !e.FeeUSD.IsZero() {
			fee = e.FeeUSD.Rounded().String()
		}
		source := e.Exchange
		if source == "" {
			source = e.ConnectionID
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n", day(e.Timestamp), e.Kind, e.Qty, price, fee, source)
	}
	if estimated {
		fmt.Fprintln(&b, "\n\\* estimated valuation")
	}
	return b.String()
}
