package report

import (
	"fmt"
	"strings"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

const (
	rule = "------------------------------------------------------------"
	bar  = "===================="
)

// Text renders the CLI report.
func Text(r *models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n%s COMPLETED TRADES %s\n\n", bar, bar)
	for _, t := range r.Completed {
		fmt.Fprintf(&b, "[%s] — %s\n", t.Code, displayName(t.CompanyName))
		writeLots(&b, t.Lots)
		fmt.Fprintf(&b, "  Sell Date   : %s\n", t.SellDate.Format(DateLayout))
		fmt.Fprintf(&b, "  Avg Cost    : %.2f\n", t.AverageCost)
		fmt.Fprintf(&b, "  Sell Price  : %.2f\n", t.SellPrice)
		fmt.Fprintf(&b, "  P/L (%%)     : %+.2f%%\n", t.PercentGain)
		b.WriteString(rule + "\n")
	}

	fmt.Fprintf(&b, "\n%s OPEN POSITIONS %s\n\n", bar, bar)
	for _, p := range r.Open {
		fmt.Fprintf(&b, "[%s] — %s\n", p.Code, displayName(p.CompanyName))
		writeLots(&b, p.Lots)
		fmt.Fprintf(&b, "  Avg Cost    : %.2f\n", p.AverageCost)
		fmt.Fprintf(&b, "  Close Price : %.2f\n", p.CurrentClose)
		fmt.Fprintf(&b, "  P/L (%%)     : %+.2f%%\n", p.PercentGain)
		b.WriteString(rule + "\n")
	}

	fmt.Fprintf(&b, "\n%s SUMMARY %s\n\n", bar, bar)
	b.WriteString(summaryLine(r.Summary) + "\n")
	return b.String()
}

func writeLots(b *strings.Builder, lots []models.Lot) {
	b.WriteString("  Buy Details:\n")
	for _, l := range lots {
		fmt.Fprintf(b, "    %s → %.2f\n", l.Date.Format(DateLayout), l.Price)
	}
}

func summaryLine(s models.Summary) string {
	if s.Total == 0 {
		return "No trades found."
	}
	return fmt.Sprintf("Win Rate: %.2f%%", s.WinRate)
}
