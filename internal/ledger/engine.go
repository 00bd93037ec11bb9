package ledger

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/tradepulse/internal/domain/models"
	"github.com/guttosm/tradepulse/internal/logger"
)

// Result holds the two record sets produced by one reconstruction pass.
//
// Fields:
//   - Completed: one record per SELL/REDUCE that cleared a non-empty position.
//   - Open:      one record per position still holding lots at end of run.
//   - Dropped:   entries skipped because their price did not resolve.
//   - Unvalued:  open positions omitted because their close could not be fetched.
type Result struct {
	Completed []models.CompletedTrade
	Open      []models.OpenPosition
	Dropped   int
	Unvalued  int
}

// Engine reconstructs positions from an ordered trade log.
//
// An Engine holds no per-run state; every call to Reconstruct owns its own
// position map, so one Engine may be reused across runs.
type Engine struct {
	prices       PriceResolver
	names        NameResolver
	eligibleSell func(time.Time) bool
	log          zerolog.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithNameResolver attaches company names to emitted records.
func WithNameResolver(n NameResolver) Option {
	return func(e *Engine) { e.names = n }
}

// WithSellEligibility gates SELL actions on their date. REDUCE is never gated.
// An ineligible SELL is ignored and the position stays open.
func WithSellEligibility(fn func(time.Time) bool) Option {
	return func(e *Engine) {
		if fn != nil {
			e.eligibleSell = fn
		}
	}
}

// WithLogger replaces the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine builds an Engine around an injected price resolver.
func NewEngine(prices PriceResolver, opts ...Option) *Engine {
	e := &Engine{
		prices:       prices,
		eligibleSell: func(time.Time) bool { return true },
		log:          logger.Component("ledger"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// position is the per-code accumulating state of one pass.
type position struct {
	code string
	lots []models.Lot
}

// Reconstruct consumes entries strictly in input order.
//
// State per code is NO_POSITION or OPEN:
//   - BUY/KEEP append a lot at the resolved price (NO_POSITION → OPEN).
//   - SELL/REDUCE on an open position emit a CompletedTrade priced at the
//     resolved value and clear every lot (OPEN → NO_POSITION).
//   - SELL/REDUCE without lots and unknown actions change nothing.
//
// Price failures drop the offending entry and never abort the pass. After the
// log is consumed, every open position is valued against its current close;
// positions whose close cannot be fetched are left out of the output.
func (e *Engine) Reconstruct(ctx context.Context, entries []models.TradeLogEntry) Result {
	var res Result
	positions := make(map[string]*position)
	var order []string

	for _, entry := range entries {
		pos, ok := positions[entry.Code]
		if !ok {
			pos = &position{code: entry.Code}
			positions[entry.Code] = pos
			order = append(order, entry.Code)
		}

		switch {
		case entry.Action.Opens():
			price, err := ResolvePrice(ctx, e.prices, entry.Code, entry.RawValue)
			if err != nil {
				e.drop(&res, entry, err)
				continue
			}
			pos.lots = append(pos.lots, models.Lot{Date: entry.Date, Price: price})

		case entry.Action.Closes():
			if len(pos.lots) == 0 {
				e.log.Debug().Int("line", entry.Line).Str("code", entry.Code).Str("action", string(entry.Action)).Msg("nothing to close")
				continue
			}
			if entry.Action == models.ActionSell && !e.eligibleSell(entry.Date) {
				e.log.Info().Int("line", entry.Line).Str("code", entry.Code).Time("date", entry.Date).Msg("sell outside eligible window")
				continue
			}
			price, err := ResolvePrice(ctx, e.prices, entry.Code, entry.RawValue)
			if err != nil {
				e.drop(&res, entry, err)
				continue
			}
			avg := AverageCost(pos.lots)
			res.Completed = append(res.Completed, models.CompletedTrade{
				Code:        entry.Code,
				CompanyName: e.companyName(ctx, entry.Code),
				Lots:        slices.Clone(pos.lots),
				SellDate:    entry.Date,
				AverageCost: avg,
				SellPrice:   price,
				PercentGain: PercentGain(price, avg),
			})
			pos.lots = nil

		default:
			e.log.Debug().Int("line", entry.Line).Str("code", entry.Code).Str("action", string(entry.Action)).Msg("unknown action ignored")
		}
	}

	for _, code := range order {
		pos := positions[code]
		if len(pos.lots) == 0 {
			continue
		}
		q, err := e.prices.GetClosePrice(ctx, code)
		if err != nil || q.Price <= 0 {
			res.Unvalued++
			e.log.Warn().Err(err).Str("code", code).Int("lots", len(pos.lots)).Msg("open position has no close price")
			continue
		}
		avg := AverageCost(pos.lots)
		res.Open = append(res.Open, models.OpenPosition{
			Code:         code,
			CompanyName:  e.companyName(ctx, code),
			Symbol:       q.Symbol,
			Lots:         slices.Clone(pos.lots),
			AverageCost:  avg,
			CurrentClose: q.Price,
			PercentGain:  PercentGain(q.Price, avg),
		})
	}

	e.log.Debug().
		Int("entries", len(entries)).
		Int("completed", len(res.Completed)).
		Int("open", len(res.Open)).
		Int("dropped", res.Dropped).
		Int("unvalued", res.Unvalued).
		Msg("reconstruction done")

	return res
}

func (e *Engine) drop(res *Result, entry models.TradeLogEntry, err error) {
	res.Dropped++
	e.log.Warn().
		Err(err).
		Int("line", entry.Line).
		Str("code", entry.Code).
		Str("action", string(entry.Action)).
		Str("value", entry.RawValue).
		Msg("entry dropped")
}

func (e *Engine) companyName(ctx context.Context, code string) *string {
	if e.names == nil {
		return nil
	}
	name, ok := e.names.GetCompanyName(ctx, code)
	if !ok || name == "" {
		return nil
	}
	return &name
}

// AverageCost is the unweighted mean of the lot prices. lots must be non-empty.
func AverageCost(lots []models.Lot) float64 {
	var sum float64
	for _, l := range lots {
		sum += l.Price
	}
	return sum / float64(len(lots))
}

// PercentGain is (price - avg) / avg * 100.
func PercentGain(price, avg float64) float64 {
	return (price - avg) / avg * 100
}
