package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/tradepulse/internal/domain/models"
	"github.com/guttosm/tradepulse/internal/ledger"
	"github.com/guttosm/tradepulse/internal/logger"
	"github.com/guttosm/tradepulse/internal/report"
	"github.com/guttosm/tradepulse/internal/storage"
)

// ReportService produces a fresh report from the stored trade log.
type ReportService interface {
	Generate(ctx context.Context) (*models.Report, error)
}

type reportService struct {
	store  storage.TradeLogStore
	engine *ledger.Engine
	now    func() time.Time
	log    zerolog.Logger
}

// NewReportService wires a store to a ledger engine.
func NewReportService(store storage.TradeLogStore, engine *ledger.Engine) ReportService {
	return &reportService{store: store, engine: engine, now: time.Now, log: logger.Component("report")}
}

// Generate loads the log, reconstructs positions and summarizes them. A
// malformed log fails the whole run; unresolved prices only drop rows.
func (s *reportService) Generate(ctx context.Context) (*models.Report, error) {
	entries, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trade log: %w", err)
	}

	res := s.engine.Reconstruct(ctx, entries)
	s.log.Info().
		Int("entries", len(entries)).
		Int("completed", len(res.Completed)).
		Int("open", len(res.Open)).
		Int("dropped", res.Dropped).
		Int("unvalued", res.Unvalued).
		Msg("report generated")

	return report.New(res.Completed, res.Open, s.now()), nil
}
