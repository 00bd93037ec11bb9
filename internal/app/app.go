package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/guttosm/tradepulse/config"
	"github.com/guttosm/tradepulse/internal/api"
	"github.com/guttosm/tradepulse/internal/company"
	"github.com/guttosm/tradepulse/internal/ledger"
	"github.com/guttosm/tradepulse/internal/logger"
	"github.com/guttosm/tradepulse/internal/notify"
	"github.com/guttosm/tradepulse/internal/quote"
	"github.com/guttosm/tradepulse/internal/service"
	"github.com/guttosm/tradepulse/internal/storage"
)

// Components are the dependencies shared by every run mode.
type Components struct {
	Store   storage.TradeLogStore
	Reports service.ReportService
	Trades  service.TradeService
	Line    *notify.LineClient // nil when LINE_CHANNEL_TOKEN is unset

	closers []func()
}

// Close releases connections opened by Build, last opened first.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// gcsOpener is an indirection for unit testing; defaults to a client using
// application default credentials.
var gcsOpener = func(ctx context.Context) (*gcs.Client, error) {
	return gcs.NewClient(ctx)
}

// Build wires the trade-log store, price and name resolvers, ledger engine
// and services selected by cfg.
func Build(ctx context.Context, cfg config.Config) (*Components, error) {
	c := &Components{}

	store, err := c.openStore(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Store = store

	prices, err := quote.New(quote.Config{
		Backend: cfg.Price.Backend,
		FinMind: quote.FinMindConfig{Token: cfg.Price.FinMindToken, Markets: cfg.Price.Markets, Timeout: cfg.Price.HTTPTimeout},
		Yahoo:   quote.YahooConfig{Markets: cfg.Price.Markets, Timeout: cfg.Price.HTTPTimeout},
	})
	if err != nil {
		c.Close()
		return nil, err
	}

	names, err := c.nameResolver(cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	engine := ledger.NewEngine(prices,
		ledger.WithNameResolver(names),
		ledger.WithSellEligibility(ledger.SellWindow(cfg.Ledger.SellWindowDays, time.Now)),
	)

	c.Reports = service.NewReportService(store, engine)
	c.Trades = service.NewTradeService(store)
	if cfg.Line.ChannelToken != "" {
		c.Line = notify.NewLineClient(cfg.Line.ChannelToken, cfg.Price.HTTPTimeout)
	}
	return c, nil
}

func (c *Components) openStore(ctx context.Context, cfg config.Config) (storage.TradeLogStore, error) {
	switch cfg.Store.Backend {
	case config.StoreFile, "":
		return storage.NewFileStore(cfg.Store.CSVPath), nil
	case config.StoreGCS:
		client, err := gcsOpener(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gcs: %w", err)
		}
		c.closers = append(c.closers, func() { _ = client.Close() })
		return storage.NewGCSStore(client, cfg.Store.GCSBucket, cfg.Store.GCSObject), nil
	case config.StorePostgres:
		// indirection for unit testing
		db, err := postgresOpener(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		c.closers = append(c.closers, func() { _ = db.Close() })
		return storage.NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func (c *Components) nameResolver(cfg config.Config) (*company.Resolver, error) {
	table, err := company.LoadTable(cfg.Names.Path)
	if err != nil {
		return nil, err
	}
	logger.L().Debug().Int("names", len(table)).Str("path", cfg.Names.Path).Msg("company table loaded")

	var remote company.Remote
	var cache company.Cache
	if cfg.Names.RemoteEnabled {
		remote = company.YahooNames{Markets: cfg.Price.Markets, HTTP: &http.Client{Timeout: cfg.Price.HTTPTimeout}}
		if cfg.Redis.Addr != "" {
			rc := company.NewRedisCache(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			c.closers = append(c.closers, func() { _ = rc.Close() })
			cache = rc
		}
	}
	return company.NewResolver(table, remote, cache, cfg.Names.CacheTTL), nil
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the shared components from config.AppConfig.
//   - Creates the HTTP handler layer and the LINE webhook (when credentials are set).
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes backed by the store's Ping.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	comps, err := Build(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}

	handler := api.NewHandler(comps.Reports, comps.Trades)

	var webhook *api.WebhookHandler
	if cfg.Line.ChannelSecret != "" && comps.Line != nil {
		webhook = api.NewWebhookHandler(cfg.Line.ChannelSecret, comps.Trades, comps.Line)
	} else {
		logger.L().Warn().Msg("LINE credentials not set, /callback disabled")
	}

	router := api.NewRouter(handler, webhook, api.WithRateLimit(cfg.Server.RateLimit, cfg.Server.RateWindow))

	healthHandler := api.NewHealthHandler(comps.Store.Ping)
	healthHandler.Register(router)

	return router, comps.Close, nil
}
