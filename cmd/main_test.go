package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/guttosm/tradepulse/config"
	"github.com/guttosm/tradepulse/internal/ingestion"
)

type dummyHandler struct{}

func (d dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestStartServerAndShutdown(t *testing.T) {
	srv := startServer(dummyHandler{}, "0") // random port
	if srv == nil {
		t.Fatalf("expected server")
	}

	// Give server a moment to start
	time.Sleep(50 * time.Millisecond)

	// Shutdown quickly with short timeout and no-op cleanup
	_, cancel := context.WithCancel(context.Background())
	go func() {
		// trigger gracefulShutdown select by simulating signal via closing after a brief delay
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	// We cannot send OS signals easily here; instead, directly call Shutdown to simulate graceful flow.
	// Verify it doesn't panic and completes.
	shutdownCtx, c := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer c()
	if err := srv.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
		t.Fatalf("shutdown err: %v", err)
	}
}

func TestGracefulShutdown_SignalPath(t *testing.T) {
	// Use a server that responds immediately
	srv := startServer(dummyHandler{}, "0")

	cleaned := make(chan struct{}, 1)
	go func() {
		ctx := context.Background()
		gracefulShutdown(ctx, srv, func() { close(cleaned) })
	}()

	// Give the goroutine time to set up signal notifications
	time.Sleep(50 * time.Millisecond)

	// Send SIGTERM to current process
	p, _ := os.FindProcess(os.Getpid())
	_ = p.Signal(syscall.SIGTERM)

	select {
	case <-cleaned:
		// success
	case <-time.After(2 * time.Second):
		t.Fatalf("cleanup not called after SIGTERM")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func fileConfig(csvPath string) config.Config {
	return config.Config{
		Store: config.StoreConfig{Backend: config.StoreFile, CSVPath: csvPath},
		Price: config.PriceConfig{Backend: "yahoo", Markets: []string{"TW"}, HTTPTimeout: time.Second},
	}
}

func TestRunReport_PrintsCompletedTrade(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "trades.csv")
	writeFile(t, csvPath, "date,code,action,value\n2025/01/10,2330,BUY,500\n2025/01/13,2330,BUY,520\n2025/01/20,2330,SELL,612\n")

	var out bytes.Buffer
	if err := runReport(context.Background(), fileConfig(csvPath), reportOptions{}, &out); err != nil {
		t.Fatalf("runReport: %v", err)
	}
	got := out.String()
	for _, want := range []string{"[2330]", "510.00", "+20.00%", "Win Rate: 100.00%"} {
		if !strings.Contains(got, want) {
			t.Fatalf("report missing %q:\n%s", want, got)
		}
	}
}

func TestRunReport_PushWithoutLine(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "trades.csv")
	err := runReport(context.Background(), fileConfig(csvPath), reportOptions{push: true}, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "LINE_CHANNEL_TOKEN") {
		t.Fatalf("expected LINE configuration error, got %v", err)
	}
}

func TestRunReport_MalformedLog(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "trades.csv")
	writeFile(t, csvPath, "when,ticker\n2025/01/10,2330\n")

	err := runReport(context.Background(), fileConfig(csvPath), reportOptions{}, io.Discard)
	if !errors.Is(err, ingestion.ErrStructure) {
		t.Fatalf("want ErrStructure, got %v", err)
	}
}

func TestRunNames_WritesTable(t *testing.T) {
	dir := t.TempDir()
	listA := filepath.Join(dir, "twse.csv")
	listB := filepath.Join(dir, "tpex.csv")
	writeFile(t, listA, "代號,名稱\n2330,台積電\n0050,元大台灣50\n")
	writeFile(t, listB, "代號,名稱\n6488,環球晶\n")
	out := filepath.Join(dir, "names.json")

	if err := runNames(context.Background(), listA+", "+listB, out, 2); err != nil {
		t.Fatalf("runNames: %v", err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read table: %v", err)
	}
	for _, want := range []string{"台積電", "環球晶"} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("table missing %q: %s", want, raw)
		}
	}
}

func TestRunNames_RequiresLists(t *testing.T) {
	if err := runNames(context.Background(), " , ", "names.json", 0); err == nil {
		t.Fatalf("expected error for empty --lists")
	}
}

func TestRunImport_MissingFile(t *testing.T) {
	err := runImport(context.Background(), config.Config{}, filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want ErrNotExist, got %v", err)
	}
}

func TestSplitFlagList(t *testing.T) {
	got := splitFlagList(" a.csv,,b.csv ,")
	if len(got) != 2 || got[0] != "a.csv" || got[1] != "b.csv" {
		t.Fatalf("splitFlagList = %v", got)
	}
}
