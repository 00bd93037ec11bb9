package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/guttosm/tradepulse/internal/domain/models"
	"github.com/guttosm/tradepulse/internal/ingestion"
)

// FileStore keeps the log as a CSV file on local disk.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by the CSV file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and validates the CSV log. A missing file is an empty log.
func (s *FileStore) Load(ctx context.Context) ([]models.TradeLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read trade log: %w", err)
	}
	return ingestion.DecodeTradeLog(ctx, bytes.NewReader(b))
}

// Append adds one row, writing the header first when the file is new.
func (s *FileStore) Append(_ context.Context, e models.TradeLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	info, statErr := os.Stat(s.path)
	fresh := errors.Is(statErr, fs.ErrNotExist) || (statErr == nil && info.Size() == 0)

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open trade log: %w", err)
	}

	w := csv.NewWriter(f)
	if fresh {
		_ = w.Write(ingestion.Columns)
	} else if err := terminateLastLine(f, info.Size()); err != nil {
		_ = f.Close()
		return fmt.Errorf("append trade log: %w", err)
	}
	_ = w.Write(ingestion.Record(e))
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("append trade log: %w", err)
	}
	return f.Close()
}

// terminateLastLine writes a newline when a hand-edited log does not end
// with one, so the next record starts on its own row.
func terminateLastLine(f *os.File, size int64) error {
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err := f.Write([]byte("\n"))
	return err
}

// Ping verifies the log directory is reachable.
func (s *FileStore) Ping(_ context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}
