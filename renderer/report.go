package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/costbasis"
	"github.com/etnz/costbasis/date"
)

// ReportMarkdown renders the portfolio-wide cost basis report: one row per
// asset and the totals.
func ReportMarkdown(window date.Range, snapshots []costbasis.Snapshot, totals costbasis.Totals) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Cost Basis Report (%s)\n\n", window)

	if totals.BasisConfidence == costbasis.Estimated {
		fmt.Fprint(&b, "> [!WARNING]\n> Some assets have an **estimated** basis.\n\n")
	}

	fmt.Fprintln(&b, "| Asset | Balance | Avg Buy Price | Cost Basis | Price | Unrealized | Realized | Fees | Basis |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|:---|")
	for _, s := range snapshots {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			s.Symbol,
			s.CurrentBalance,
			s.AvgBuyPriceCurrent.Rounded(),
			s.CostBasis,
			s.CurrentPrice.Rounded(),
			s.UnrealizedPnL.SignedString(),
			s.RealizedPnL.SignedString(),
			s.TotalFeesUSD,
			s.BasisConfidence,
		)
	}
	fmt.Fprintf(&b, "| **Total** | | | **%s** | | **%s** | **%s** | **%s** | %s |\n",
		totals.CostBasis,
		totals.UnrealizedPnL.SignedString(),
		totals.RealizedPnL.SignedString(),
		totals.FeesUSD,
		totals.BasisConfidence,
	)

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Uncovered Balances\n\n")
		fmt.Fprintln(w, "These quantities have no recorded acquisition and are left out of the totals.")
		fmt.Fprintln(w)
		found := false
		for _, s := range snapshots {
			if s.UncoveredQty.IsPositive() {
				fmt.Fprintf(w, "* %s: %s\n", s.Symbol, s.UncoveredQty)
				found = true
			}
		}
		return found
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Oversold\n\n")
		fmt.Fprintln(w, "More was sold than the history explains for these assets.")
		fmt.Fprintln(w)
		found := false
		for _, s := range snapshots {
			if s.NetPosition.IsNegative() {
				fmt.Fprintf(w, "* %s: net position %s\n", s.Symbol, s.NetPosition)
				found = true
			}
		}
		return found
	})
	return b.String()
}
