package ingestion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

// ErrInvalidEntry marks user input that cannot become a trade-log row.
var ErrInvalidEntry = errors.New("invalid trade entry")

// ParseEntryText parses the free-text chat form "date, code, action, value",
// e.g. "2025/01/10, 2330, BUY, 600".
func ParseEntryText(text string) (models.TradeLogEntry, error) {
	parts := strings.Split(strings.TrimSpace(text), ",")
	if len(parts) != 4 {
		return models.TradeLogEntry{}, fmt.Errorf("%w: expected 4 comma separated fields (date, code, action, value), got %d", ErrInvalidEntry, len(parts))
	}
	return NewEntry(parts[0], parts[1], parts[2], parts[3])
}

// NewEntry validates the four fields of a new row before it is appended to
// the log. Unlike DecodeTradeLog it rejects unknown actions: new input must
// be something the ledger understands.
func NewEntry(date, code, action, value string) (models.TradeLogEntry, error) {
	date = strings.TrimSpace(date)
	d, err := ParseDate(date)
	if err != nil || !strings.Contains(date, "/") {
		return models.TradeLogEntry{}, fmt.Errorf("%w: invalid date %q, expected YYYY/MM/DD", ErrInvalidEntry, date)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return models.TradeLogEntry{}, fmt.Errorf("%w: empty code", ErrInvalidEntry)
	}
	a := models.ParseAction(action)
	if !a.Known() {
		return models.TradeLogEntry{}, fmt.Errorf("%w: unknown action %q, expected BUY, SELL, REDUCE or KEEP", ErrInvalidEntry, strings.TrimSpace(action))
	}
	return models.TradeLogEntry{
		Date:     d,
		Code:     code,
		Action:   a,
		RawValue: strings.TrimSpace(value),
	}, nil
}
