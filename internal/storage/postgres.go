package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

// PostgresStore keeps the log in the trade_log table. Insertion order is the
// serial id, never the trade date.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Load returns every row ordered by id.
func (s *PostgresStore) Load(ctx context.Context) ([]models.TradeLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, trade_date, code, action, value
		FROM trade_log
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query trade_log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []models.TradeLogEntry
	for rows.Next() {
		var (
			id     int64
			date   time.Time
			code   string
			action string
			value  sql.NullString
		)
		if err := rows.Scan(&id, &date, &code, &action, &value); err != nil {
			return nil, fmt.Errorf("scan trade_log: %w", err)
		}
		entries = append(entries, models.TradeLogEntry{
			Line:     int(id),
			Date:     date.UTC(),
			Code:     code,
			Action:   models.ParseAction(action),
			RawValue: value.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade_log: %w", err)
	}
	return entries, nil
}

// Append inserts one row.
func (s *PostgresStore) Append(ctx context.Context, e models.TradeLogEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trade_log (trade_date, code, action, value) VALUES ($1, $2, $3, $4)`,
		e.Date, e.Code, string(e.Action), e.RawValue,
	)
	if err != nil {
		return fmt.Errorf("insert trade_log: %w", err)
	}
	return nil
}

// ImportBatch bulk-loads entries in a single transaction using COPY,
// preserving slice order as insertion order.
func (s *PostgresStore) ImportBatch(ctx context.Context, entries []models.TradeLogEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("trade_log", "trade_date", "code", "action", "value"))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Date, e.Code, string(e.Action), e.RawValue); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
