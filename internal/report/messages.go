package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

// LineTextLimit is the maximum length of one LINE text message.
const LineTextLimit = 5000

// Messages renders a compact chat version of the report split into chunks of
// at most limit runes. Records are never split across chunks unless a single
// record alone exceeds the limit.
func Messages(r *models.Report, limit int) []string {
	if limit <= 0 {
		limit = LineTextLimit
	}

	blocks := []string{fmt.Sprintf("📊 Trade report %s", r.GeneratedAt.Format(DateLayout))}
	if len(r.Completed) > 0 {
		blocks = append(blocks, "✅ Completed")
		for _, t := range r.Completed {
			blocks = append(blocks, fmt.Sprintf("[%s] %s\n%s\nsold %s @ %.2f (avg %.2f) %+.2f%%",
				t.Code, displayName(t.CompanyName), compactLots(t.Lots),
				t.SellDate.Format(DateLayout), t.SellPrice, t.AverageCost, t.PercentGain))
		}
	}
	if len(r.Open) > 0 {
		blocks = append(blocks, "📈 Open")
		for _, p := range r.Open {
			blocks = append(blocks, fmt.Sprintf("[%s] %s\n%s\nclose %.2f (avg %.2f) %+.2f%%",
				p.Code, displayName(p.CompanyName), compactLots(p.Lots),
				p.CurrentClose, p.AverageCost, p.PercentGain))
		}
	}
	blocks = append(blocks, summaryLine(r.Summary))

	var out []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
			curLen = 0
		}
	}
	for _, blk := range blocks {
		for _, piece := range splitRunes(blk, limit) {
			n := utf8.RuneCountInString(piece)
			sep := 0
			if curLen > 0 {
				sep = 2
			}
			if curLen+sep+n > limit {
				flush()
				sep = 0
			}
			if sep > 0 {
				cur.WriteString("\n\n")
			}
			cur.WriteString(piece)
			curLen += sep + n
		}
	}
	flush()
	return out
}

func compactLots(lots []models.Lot) string {
	parts := make([]string, 0, len(lots))
	for _, l := range lots {
		parts = append(parts, fmt.Sprintf("%s→%.2f", l.Date.Format("01/02"), l.Price))
	}
	return "buys " + strings.Join(parts, ", ")
}

// splitRunes cuts s into pieces of at most n runes.
func splitRunes(s string, n int) []string {
	if utf8.RuneCountInString(s) <= n {
		return []string{s}
	}
	var out []string
	rs := []rune(s)
	for len(rs) > n {
		out = append(out, string(rs[:n]))
		rs = rs[n:]
	}
	if len(rs) > 0 {
		out = append(out, string(rs))
	}
	return out
}
