package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/guttosm/tradepulse/internal/domain/models"
	"github.com/guttosm/tradepulse/internal/logger"
)

const finMindBaseURL = "https://api.finmindtrade.com/api/v4/data"

// FinMindConfig configures the FinMind backend.
type FinMindConfig struct {
	BaseURL  string        // defaults to the public v4 data endpoint
	Token    string        // optional API token (raises rate limits)
	Markets  []string      // suffix used for the returned symbol; first entry wins
	Lookback time.Duration // how far back to search for the last close (default 5 days)
	HTTP     *http.Client
	Timeout  time.Duration
	Now      func() time.Time
}

// FinMind resolves closes from the FinMind TaiwanStockPrice dataset.
//
// The dataset covers listed and OTC securities under the bare code, so a
// single request is made per lookup and the symbol is reported with the
// first configured market suffix.
type FinMind struct {
	baseURL  string
	token    string
	market   string
	lookback time.Duration
	client   *http.Client
	now      func() time.Time
	log      zerolog.Logger
}

// NewFinMind builds a FinMind backend.
func NewFinMind(cfg FinMindConfig) *FinMind {
	f := &FinMind{
		baseURL:  cfg.BaseURL,
		token:    cfg.Token,
		market:   normalizeMarkets(cfg.Markets)[0],
		lookback: cfg.Lookback,
		client:   defaultClient(cfg.HTTP, cfg.Timeout),
		now:      cfg.Now,
		log:      logger.Component("quote.finmind"),
	}
	if f.baseURL == "" {
		f.baseURL = finMindBaseURL
	}
	if f.lookback <= 0 {
		f.lookback = 5 * 24 * time.Hour
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

type finMindResponse struct {
	Msg    string `json:"msg"`
	Status int    `json:"status"`
	Data   []struct {
		Date    string          `json:"date"`
		StockID string          `json:"stock_id"`
		Close   decimal.Decimal `json:"close"`
	} `json:"data"`
}

// GetClosePrice returns the most recent close in the lookback window.
func (f *FinMind) GetClosePrice(ctx context.Context, code string) (models.Quote, error) {
	q := url.Values{}
	q.Set("dataset", "TaiwanStockPrice")
	q.Set("data_id", code)
	q.Set("start_date", f.now().Add(-f.lookback).Format("2006-01-02"))
	if f.token != "" {
		q.Set("token", f.token)
	}

	var payload finMindResponse
	if err := jget(ctx, f.client, f.baseURL+"?"+q.Encode(), &payload); err != nil {
		f.log.Debug().Err(err).Str("code", code).Msg("finmind request failed")
		return models.Quote{}, fmt.Errorf("%w: finmind %s: %w", ErrNoQuote, code, err)
	}
	if payload.Status != 0 && payload.Status != http.StatusOK {
		return models.Quote{}, fmt.Errorf("%w: finmind %s: status %d %s", ErrNoQuote, code, payload.Status, payload.Msg)
	}
	if len(payload.Data) == 0 {
		return models.Quote{}, fmt.Errorf("%w: finmind %s: empty dataset", ErrNoQuote, code)
	}

	last := payload.Data[len(payload.Data)-1]
	price, ok := closeFloat(last.Close)
	if !ok {
		return models.Quote{}, fmt.Errorf("%w: finmind %s: close %s on %s", ErrNoQuote, code, last.Close, last.Date)
	}
	return models.Quote{Price: price, Symbol: code + "." + f.market}, nil
}
