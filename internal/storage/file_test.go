package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/guttosm/tradepulse/internal/domain/models"
	"github.com/guttosm/tradepulse/internal/ingestion"
)

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "trades.csv"))
	got, err := s.Load(context.Background())
	if err != nil || len(got) != 0 {
		t.Fatalf("Load = %v, %v; want empty", got, err)
	}
}

func TestFileStore_AppendThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "trades.csv")
	s := NewFileStore(path)
	ctx := context.Background()

	entries := []models.TradeLogEntry{
		{Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), Code: "2330", Action: models.ActionBuy, RawValue: "600"},
		{Date: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), Code: "2330", Action: models.ActionSell, RawValue: "null"},
	}
	for _, e := range entries {
		if err := s.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(raw), "date,code,action,value") != 1 {
		t.Fatalf("expected exactly one header, got:\n%s", raw)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Code != "2330" || got[0].RawValue != "600" || got[1].Action != models.ActionSell {
		t.Fatalf("unexpected entries: %+v", got)
	}
	if got[1].Line != 3 {
		t.Fatalf("line = %d, want 3", got[1].Line)
	}
}

func TestFileStore_AppendWithoutTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	if err := os.WriteFile(path, []byte("date,code,action,value\n2025/01/06,2330,BUY,500"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path)
	ctx := context.Background()

	sell := models.TradeLogEntry{Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), Code: "2330", Action: models.ActionSell, RawValue: "600"}
	if err := s.Append(ctx, sell); err != nil {
		t.Fatalf("Append: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "date,code,action,value\n2025/01/06,2330,BUY,500\n2025/01/10,2330,SELL,600\n"; string(raw) != want {
		t.Fatalf("file = %q, want %q", raw, want)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 || got[0].RawValue != "500" || got[1].Action != models.ActionSell || got[1].RawValue != "600" {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestFileStore_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	if err := os.WriteFile(path, []byte("when,code,action\n2025/01/01,2330,BUY\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewFileStore(path).Load(context.Background())
	if !errors.Is(err, ingestion.ErrStructure) {
		t.Fatalf("err = %v, want ErrStructure", err)
	}
}

func TestFileStore_Ping(t *testing.T) {
	dir := t.TempDir()
	if err := NewFileStore(filepath.Join(dir, "trades.csv")).Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := NewFileStore(filepath.Join(dir, "missing", "trades.csv")).Ping(context.Background()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
