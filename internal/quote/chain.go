package quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

// Chain asks each backend in order and returns the first successful quote.
type Chain []Resolver

// GetClosePrice implements Resolver.
func (c Chain) GetClosePrice(ctx context.Context, code string) (models.Quote, error) {
	if len(c) == 0 {
		return models.Quote{}, fmt.Errorf("%w: no backends configured", ErrNoQuote)
	}
	var errs []error
	for _, r := range c {
		q, err := r.GetClosePrice(ctx, code)
		if err == nil {
			return q, nil
		}
		errs = append(errs, err)
	}
	return models.Quote{}, errors.Join(errs...)
}

// Backend names accepted by New.
const (
	BackendFinMind = "finmind"
	BackendYahoo   = "yahoo"
	BackendChain   = "chain"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	FinMind FinMindConfig
	Yahoo   YahooConfig
}

// New builds the resolver named by cfg.Backend. "chain" tries FinMind, then Yahoo.
func New(cfg Config) (Resolver, error) {
	switch cfg.Backend {
	case BackendFinMind:
		return NewFinMind(cfg.FinMind), nil
	case BackendYahoo:
		return NewYahoo(cfg.Yahoo), nil
	case BackendChain, "":
		return Chain{NewFinMind(cfg.FinMind), NewYahoo(cfg.Yahoo)}, nil
	default:
		return nil, fmt.Errorf("unknown price backend %q", cfg.Backend)
	}
}
