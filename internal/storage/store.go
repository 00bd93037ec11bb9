// Package storage persists the trade log. Every backend returns entries in
// insertion order; nothing here sorts by date.
package storage

import (
	"context"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

// TradeLogStore defines the contract for trade-log persistence.
type TradeLogStore interface {
	// Load returns the whole log in insertion order. An absent log is empty.
	Load(ctx context.Context) ([]models.TradeLogEntry, error)
	// Append adds one entry to the end of the log.
	Append(ctx context.Context, e models.TradeLogEntry) error
	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
}
