package ingestion

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

func TestDecodeTradeLog_TableDriven(t *testing.T) {
	cases := []struct {
		name     string
		content  string
		wantErr  bool
		wantRows int
	}{
		{name: "canonical", content: "date,code,action,value\n2025/01/10,2330,BUY,600\n2025/01/11,2330,SELL,null\n", wantRows: 2},
		{name: "header case and spaces", content: " Date , CODE,Action ,Value\n2025/01/10,2330,buy,600\n", wantRows: 1},
		{name: "bom and reordered columns", content: "\ufeffvalue,action,code,date,note\n600,BUY,2330,2025-01-10,first\n", wantRows: 1},
		{name: "header only", content: "date,code,action,value\n", wantRows: 0},
		{name: "empty input", content: "", wantErr: true},
		{name: "missing value column", content: "date,code,action\n2025/01/10,2330,BUY\n", wantErr: true},
		{name: "short row", content: "date,code,action,value\n2025/01/10,2330\n", wantErr: true},
		{name: "bad date", content: "date,code,action,value\n10/01/2025,2330,BUY,600\n", wantErr: true},
		{name: "empty code", content: "date,code,action,value\n2025/01/10, ,BUY,600\n", wantErr: true},
		{name: "unknown action tolerated", content: "date,code,action,value\n2025/01/10,2330,HOLD,600\n", wantRows: 1},
		{name: "empty value tolerated", content: "date,code,action,value\n2025/01/10,2330,KEEP,\n", wantRows: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := DecodeTradeLog(context.Background(), strings.NewReader(tc.content))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				if !errors.Is(err, ErrStructure) {
					t.Fatalf("expected ErrStructure, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if len(entries) != tc.wantRows {
				t.Fatalf("rows: want %d got %d", tc.wantRows, len(entries))
			}
		})
	}
}

func TestDecodeTradeLog_Fields(t *testing.T) {
	content := "date,code,action,value\n2025/01/10, 0050 ,buy, 600 \n2025-01-12,2330,sell,NULL\n"
	entries, err := DecodeTradeLog(context.Background(), strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []models.TradeLogEntry{
		{Line: 2, Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), Code: "0050", Action: models.ActionBuy, RawValue: "600"},
		{Line: 3, Date: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), Code: "2330", Action: models.ActionSell, RawValue: "NULL"},
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entry %d: want %+v got %+v", i, want[i], entries[i])
		}
	}
}

func TestDecodeTradeLog_ContextCanceled(t *testing.T) {
	var b strings.Builder
	b.WriteString("date,code,action,value\n")
	for i := 0; i < 1000; i++ {
		b.WriteString("2025/01/10,2330,BUY,600\n")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := DecodeTradeLog(ctx, strings.NewReader(b.String())); err == nil {
		t.Fatalf("expected context canceled error")
	}
}

func TestEncodeTradeLog_RoundTrip(t *testing.T) {
	in := []models.TradeLogEntry{
		{Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), Code: "2330", Action: models.ActionBuy, RawValue: "600"},
		{Date: time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC), Code: "2330", Action: models.ActionKeep, RawValue: ""},
	}
	var buf bytes.Buffer
	if err := EncodeTradeLog(&buf, in); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "date,code,action,value\n2025/01/10,2330,BUY,600\n") {
		t.Fatalf("unexpected csv: %q", buf.String())
	}
	out, err := DecodeTradeLog(context.Background(), &buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[1].Action != models.ActionKeep || out[1].RawValue != "" {
		t.Fatalf("unexpected decode: %+v", out)
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2025/01/10", "2025-01-10", "2025/1/10", " 2025/01/10 "} {
		d, err := ParseDate(s)
		if err != nil || d.Day() != 10 || d.Month() != time.January {
			t.Fatalf("ParseDate(%q) = %v, %v", s, d, err)
		}
	}
	if _, err := ParseDate("2025.01.10"); err == nil {
		t.Fatalf("expected error for dotted date")
	}
}
