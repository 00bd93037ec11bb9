package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/guttosm/tradepulse/internal/domain/models"
	"github.com/guttosm/tradepulse/internal/logger"
)

const yahooBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// YahooConfig configures the Yahoo chart backend.
type YahooConfig struct {
	BaseURL string // defaults to the v8 chart endpoint; symbol is appended
	Markets []string
	HTTP    *http.Client
	Timeout time.Duration
}

// Yahoo resolves closes from the Yahoo Finance chart API, trying each market
// suffix in order (e.g. 2330.TW, then 2330.TWO).
type Yahoo struct {
	baseURL string
	markets []string
	client  *http.Client
	log     zerolog.Logger
}

// NewYahoo builds a Yahoo backend.
func NewYahoo(cfg YahooConfig) *Yahoo {
	y := &Yahoo{
		baseURL: cfg.BaseURL,
		markets: normalizeMarkets(cfg.Markets),
		client:  defaultClient(cfg.HTTP, cfg.Timeout),
		log:     logger.Component("quote.yahoo"),
	}
	if y.baseURL == "" {
		y.baseURL = yahooBaseURL
	}
	return y
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string              `json:"symbol"`
				RegularMarketPrice decimal.NullDecimal `json:"regularMarketPrice"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close []decimal.NullDecimal `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetClosePrice tries every market variant and returns the first close found.
func (y *Yahoo) GetClosePrice(ctx context.Context, code string) (models.Quote, error) {
	var errs []error
	for _, m := range y.markets {
		symbol := code + "." + m
		price, err := y.fetch(ctx, symbol)
		if err == nil {
			return models.Quote{Price: price, Symbol: symbol}, nil
		}
		y.log.Debug().Err(err).Str("symbol", symbol).Msg("yahoo variant failed")
		errs = append(errs, err)
	}
	return models.Quote{}, fmt.Errorf("%w: yahoo %s: %w", ErrNoQuote, code, errors.Join(errs...))
}

func (y *Yahoo) fetch(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("range", "5d")
	q.Set("interval", "1d")

	var payload yahooChartResponse
	if err := jget(ctx, y.client, y.baseURL+url.PathEscape(symbol)+"?"+q.Encode(), &payload); err != nil {
		return 0, err
	}
	if e := payload.Chart.Error; e != nil {
		return 0, fmt.Errorf("%s: %s", e.Code, e.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return 0, fmt.Errorf("%s: empty chart", symbol)
	}

	res := payload.Chart.Result[0]
	if len(res.Indicators.Quote) > 0 {
		closes := res.Indicators.Quote[0].Close
		for i := len(closes) - 1; i >= 0; i-- {
			if !closes[i].Valid {
				continue
			}
			if f, ok := closeFloat(closes[i].Decimal); ok {
				return f, nil
			}
		}
	}
	if p := res.Meta.RegularMarketPrice; p.Valid {
		if f, ok := closeFloat(p.Decimal); ok {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%s: no close in chart", symbol)
}
