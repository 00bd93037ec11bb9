// Package quote provides price resolver backends that fetch the last close
// of a Taiwan-listed security.
//
// Every backend satisfies the same contract:
//
//	GetClosePrice(ctx, code) (models.Quote, error)
//
// and tries each configured market suffix (listed ".TW" first, then OTC
// ".TWO") before failing with ErrNoQuote.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

// ErrNoQuote is returned when no market variant produced a close price.
var ErrNoQuote = errors.New("no quote")

// DefaultMarkets are the suffixes tried in order: listed, then OTC.
var DefaultMarkets = []string{"TW", "TWO"}

// Resolver is the capability the ledger consumes.
type Resolver interface {
	GetClosePrice(ctx context.Context, code string) (models.Quote, error)
}

// closeFloat converts a decoded close to float64, reporting false when the
// result is not a finite positive number.
func closeFloat(d decimal.Decimal) (float64, bool) {
	f, _ := d.Float64()
	return f, f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

const userAgent = "Mozilla/5.0 (compatible; tradepulse/1.0)"

// defaultClient returns c, or a client with the given timeout when c is nil.
func defaultClient(c *http.Client, timeout time.Duration) *http.Client {
	if c != nil {
		return c
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// normalizeMarkets upper-cases suffixes and strips leading dots.
func normalizeMarkets(markets []string) []string {
	var out []string
	for _, m := range markets {
		m = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(m), "."))
		if m != "" {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return DefaultMarkets
	}
	return out
}

// jget performs a GET and decodes the JSON body into data.
func jget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(data)
}
