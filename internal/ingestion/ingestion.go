package ingestion

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/tradepulse/internal/logger"
)

const (
	stockListCodeHeader = "代號"
	stockListNameHeader = "名稱"
	maxParallelFiles    = 4
)

// stockCodePattern accepts plain 4-digit exchange codes only.
var stockCodePattern = regexp.MustCompile(`^\d{4}$`)

// BuildCompanyTable parses exchange stock-list exports into a code → name table.
//
//   - files: StockList CSV exports (listed and OTC markets).
//   - parallel: how many files to parse concurrently (0 = min(NumCPU, 4)).
//
// Behavior:
//   - Validates that every file exists before parsing anything.
//   - Parses files concurrently; the first failure cancels the rest.
//   - Merges results in argument order, so later files win on duplicate codes.
func BuildCompanyTable(ctx context.Context, files []string, parallel int) (map[string]string, error) {
	var missing []string
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, f)
			} else {
				return nil, fmt.Errorf("stat failed for %s: %w", f, err)
			}
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing stock list files: %s", strings.Join(missing, ", "))
	}

	maxParallel := maxParallelFiles
	if parallel > 0 {
		if parallel < maxParallel {
			maxParallel = parallel
		}
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}

	log := logger.Component("ingestion")
	log.Info().Int("files", len(files)).Int("max_parallel", maxParallel).Msg("company table build start")

	tables := make([]map[string]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, file := range files {
		g.Go(func() error {
			start := time.Now()
			base := filepath.Base(file)
			t, err := parseStockListFile(gctx, file)
			if err != nil {
				log.Error().Str("file", base).Err(err).Msg("stock list failed")
				return fmt.Errorf("file %s: %w", file, err)
			}
			tables[i] = t
			log.Info().Int("idx", i+1).Int("total", len(files)).Str("file", base).Int("companies", len(t)).Dur("elapsed", time.Since(start)).Msg("stock list done")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]string)
	for _, t := range tables {
		for code, name := range t {
			merged[code] = name
		}
	}
	return merged, nil
}

func parseStockListFile(ctx context.Context, path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseStockList(ctx, f)
}

// ParseStockList reads one stock-list export. The header must contain the
// 代號 (code) and 名稱 (name) columns; rows with non 4-digit codes are skipped.
func ParseStockList(ctx context.Context, r io.Reader) (map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	codeIdx, nameIdx := -1, -1
	for i, h := range header {
		switch cleanCell(h) {
		case stockListCodeHeader:
			codeIdx = i
		case stockListNameHeader:
			nameIdx = i
		}
	}
	if codeIdx < 0 || nameIdx < 0 {
		return nil, fmt.Errorf("%w: stock list header needs %s and %s, got %v", ErrStructure, stockListCodeHeader, stockListNameHeader, header)
	}

	out := make(map[string]string)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec, err := cr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if len(rec) <= max(codeIdx, nameIdx) {
			continue
		}
		code := cleanCode(rec[codeIdx])
		if !stockCodePattern.MatchString(code) {
			continue
		}
		out[code] = cleanCell(rec[nameIdx])
	}
	return out, nil
}

// cleanCell removes BOM, whitespace and stray double quotes.
func cleanCell(s string) string {
	s = strings.ReplaceAll(s, "\ufeff", "")
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
}

// cleanCode unwraps spreadsheet-protected codes such as ="0050".
func cleanCode(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return cleanCell(s)
}

// WriteCompanyTable writes the table as indented JSON, the format the local
// name resolver loads.
func WriteCompanyTable(path string, table map[string]string) error {
	b, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
