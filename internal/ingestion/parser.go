package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

// ErrStructure marks a malformed trade log. It is fatal to a run and is
// reported before reconstruction begins.
var ErrStructure = errors.New("malformed trade log")

// DateLayout is the canonical date format written to the log.
const DateLayout = "2006/01/02"

// acceptedDateLayouts are tried in order when reading a log.
var acceptedDateLayouts = []string{DateLayout, "2006-01-02", "2006/1/2", "2006-1-2"}

// Columns is the canonical header, in write order.
var Columns = []string{"date", "code", "action", "value"}

// ParseDate parses a log date in any accepted layout.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range acceptedDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY/MM/DD", s)
}

// normalizeHeader strips BOM, quotes and whitespace and lower-cases a header cell.
func normalizeHeader(h string) string {
	h = strings.ReplaceAll(h, "\ufeff", "")
	h = strings.Trim(strings.TrimSpace(h), `"`)
	return strings.ToLower(strings.TrimSpace(h))
}

// DecodeTradeLog reads a CSV trade log.
//
// It fails (ErrStructure) on:
//   - an empty input or a header missing any of date, code, action, value
//   - a row too short to hold the required columns
//   - an empty code or an unparseable date
//
// It tolerates:
//   - header names in any case, order, or with surrounding whitespace / BOM
//   - extra columns (ignored)
//   - any action text (unknown actions are kept and ignored downstream)
//   - any value text (prices are resolved by the ledger)
//
// Rows are returned in file order; the log is never sorted.
func DecodeTradeLog(ctx context.Context, r io.Reader) ([]models.TradeLogEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // checked explicitly below
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty input, expected header %s", ErrStructure, strings.Join(Columns, ","))
		}
		return nil, fmt.Errorf("%w: read header: %w", ErrStructure, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := index[normalizeHeader(h)]; !dup {
			index[normalizeHeader(h)] = i
		}
	}
	var missing []string
	for _, c := range Columns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", ErrStructure, strings.Join(missing, ", "))
	}
	width := 0
	for _, c := range Columns {
		if index[c] >= width {
			width = index[c] + 1
		}
	}

	var entries []models.TradeLogEntry
	line := 1 // header already read
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec, err := cr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("%w: read line after %d: %w", ErrStructure, line, err)
		}
		line++

		if len(rec) < width {
			return nil, fmt.Errorf("%w: line %d: expected at least %d columns, got %d", ErrStructure, line, width, len(rec))
		}

		d, err := ParseDate(rec[index["date"]])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrStructure, line, err)
		}
		code := strings.TrimSpace(rec[index["code"]])
		if code == "" {
			return nil, fmt.Errorf("%w: line %d: empty code", ErrStructure, line)
		}

		entries = append(entries, models.TradeLogEntry{
			Line:     line,
			Date:     d,
			Code:     code,
			Action:   models.ParseAction(rec[index["action"]]),
			RawValue: strings.TrimSpace(rec[index["value"]]),
		})
	}

	return entries, nil
}

// EncodeTradeLog writes entries as a canonical CSV log (header + rows).
func EncodeTradeLog(w io.Writer, entries []models.TradeLogEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(Record(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Record renders one entry as a CSV record in canonical column order.
func Record(e models.TradeLogEntry) []string {
	return []string{e.Date.Format(DateLayout), e.Code, string(e.Action), e.RawValue}
}
