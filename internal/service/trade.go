package service

import (
	"context"
	"fmt"

	"github.com/guttosm/tradepulse/internal/domain/models"
	"github.com/guttosm/tradepulse/internal/ingestion"
	"github.com/guttosm/tradepulse/internal/logger"
	"github.com/guttosm/tradepulse/internal/storage"
)

// TradeService validates and records new trade-log rows.
type TradeService interface {
	// Record validates the four fields and appends the row.
	Record(ctx context.Context, date, code, action, value string) (models.TradeLogEntry, error)
	// RecordText parses "date, code, action, value" and appends the row.
	RecordText(ctx context.Context, text string) (models.TradeLogEntry, error)
}

type tradeService struct {
	store storage.TradeLogStore
}

func NewTradeService(store storage.TradeLogStore) TradeService {
	return &tradeService{store: store}
}

func (s *tradeService) Record(ctx context.Context, date, code, action, value string) (models.TradeLogEntry, error) {
	e, err := ingestion.NewEntry(date, code, action, value)
	if err != nil {
		return models.TradeLogEntry{}, err
	}
	return s.append(ctx, e)
}

func (s *tradeService) RecordText(ctx context.Context, text string) (models.TradeLogEntry, error) {
	e, err := ingestion.ParseEntryText(text)
	if err != nil {
		return models.TradeLogEntry{}, err
	}
	return s.append(ctx, e)
}

func (s *tradeService) append(ctx context.Context, e models.TradeLogEntry) (models.TradeLogEntry, error) {
	if err := s.store.Append(ctx, e); err != nil {
		return models.TradeLogEntry{}, fmt.Errorf("append trade: %w", err)
	}
	logger.L().Info().
		Str("code", e.Code).
		Str("action", string(e.Action)).
		Time("date", e.Date).
		Msg("trade recorded")
	return e, nil
}
