package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

var (
	// ErrUnresolved is returned when a market-price sentinel could not be
	// resolved because the price resolver failed.
	ErrUnresolved = errors.New("price unresolved")

	// ErrUnparseable is returned when a logged value is neither a sentinel
	// nor a positive decimal number.
	ErrUnparseable = errors.New("price unparseable")
)

// PriceResolver returns the last close of a security and the market-qualified
// symbol it was found under.
type PriceResolver interface {
	GetClosePrice(ctx context.Context, code string) (models.Quote, error)
}

// NameResolver maps a security code to a display name.
type NameResolver interface {
	GetCompanyName(ctx context.Context, code string) (string, bool)
}

// marketSentinels are the raw values meaning "use the current market close".
var marketSentinels = map[string]struct{}{
	"null": {},
	"none": {},
	"":     {},
}

// IsMarketSentinel reports whether raw (trimmed, case-insensitive) asks for
// the live close instead of a literal price.
func IsMarketSentinel(raw string) bool {
	_, ok := marketSentinels[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// ResolvePrice turns a logged value into a price.
//
// Behavior:
//   - Sentinel values delegate to prices.GetClosePrice; a resolver failure
//     yields ErrUnresolved.
//   - Anything else must parse as a decimal number; otherwise ErrUnparseable.
//   - Non-positive prices, and values that overflow or underflow float64,
//     are rejected so a lot can never carry a zero or infinite cost.
//
// The rule is the same for every action: KEEP means "open at the market
// close" and a sentinel SELL/REDUCE means "close at the market close".
func ResolvePrice(ctx context.Context, prices PriceResolver, code, raw string) (float64, error) {
	if IsMarketSentinel(raw) {
		q, err := prices.GetClosePrice(ctx, code)
		if err != nil {
			return 0, fmt.Errorf("%w: close for %s: %w", ErrUnresolved, code, err)
		}
		if !usablePrice(q.Price) {
			return 0, fmt.Errorf("%w: close for %s is %v", ErrUnresolved, code, q.Price)
		}
		return q.Price, nil
	}

	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrUnparseable, raw, err)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("%w: %q is not a positive price", ErrUnparseable, raw)
	}
	f, _ := d.Float64()
	if !usablePrice(f) {
		return 0, fmt.Errorf("%w: %q is out of range", ErrUnparseable, raw)
	}
	return f, nil
}

// usablePrice rejects prices that are non-positive or not finite after
// conversion to float64.
func usablePrice(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
