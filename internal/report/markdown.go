package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

// Markdown renders the report as tables, one per section.
func Markdown(r *models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Trade report\n\n_Generated %s_\n\n", r.GeneratedAt.Format("2006/01/02 15:04"))

	b.WriteString("## Completed trades\n\n")
	if len(r.Completed) == 0 {
		b.WriteString("None.\n\n")
	} else {
		b.WriteString("| Code | Company | Buys | Sell date | Avg cost | Sell price | P/L |\n")
		b.WriteString("|---|---|---|---|--:|--:|--:|\n")
		for _, t := range r.Completed {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %.2f | %.2f | %+.2f%% |\n",
				t.Code, escape(displayName(t.CompanyName)), lotsCell(t.Lots),
				t.SellDate.Format(DateLayout), t.AverageCost, t.SellPrice, t.PercentGain)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Open positions\n\n")
	if len(r.Open) == 0 {
		b.WriteString("None.\n\n")
	} else {
		b.WriteString("| Code | Company | Buys | Avg cost | Close | P/L |\n")
		b.WriteString("|---|---|---|--:|--:|--:|\n")
		for _, p := range r.Open {
			fmt.Fprintf(&b, "| %s | %s | %s | %.2f | %.2f | %+.2f%% |\n",
				p.Code, escape(displayName(p.CompanyName)), lotsCell(p.Lots),
				p.AverageCost, p.CurrentClose, p.PercentGain)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Summary\n\n")
	if r.Summary.Total == 0 {
		b.WriteString("No trades found.\n")
	} else {
		fmt.Fprintf(&b, "- Records: %d\n- Wins: %d\n- **Win rate: %.2f%%**\n- Average P/L: %+.2f%%\n",
			r.Summary.Total, r.Summary.Wins, r.Summary.WinRate, r.Summary.AverageGain)
	}
	return b.String()
}

// Render formats markdown for a terminal. style is a glamour standard style
// name ("dark", "light", "notty", ...); empty picks one from the terminal.
func Render(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	return r.Render(md)
}

func lotsCell(lots []models.Lot) string {
	parts := make([]string, 0, len(lots))
	for _, l := range lots {
		parts = append(parts, fmt.Sprintf("%s @ %.2f", l.Date.Format(DateLayout), l.Price))
	}
	return strings.Join(parts, "<br>")
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
