package log

import (
	"bytes"
	"context"
	"errors"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("%q expected %v, got %v", in, want, got)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, JSON: true, Output: &buf}).WithComponent(ComponentStore)

	fields := NewFields().WithExpense("1", 1250, "Food", "2024-05-01", false).WithOperation(OpAdd)
	logger.Info("Expense added", fields.ToSlice()...)
	logger.Debug("dropped below level")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected a single JSON record, got %q: %v", buf.String(), err)
	}
	if rec[FieldComponent] != ComponentStore || rec[FieldExpenseID] != "1" || rec[FieldOperation] != OpAdd {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestLoggerContextVariants(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, JSON: true, Output: &buf}).WithComponent(ComponentConsole)
	ctx := context.Background()

	logger.InfoContext(ctx, "one")
	logger.WarnContext(ctx, "two", NewFields().WithError(errors.New("boom")).ToSlice()...)
	logger.ErrorContext(ctx, "three")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 3 {
		t.Fatalf("expected 3 records, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal(lines[1], &rec); err != nil {
		t.Fatalf("bad record %q: %v", lines[1], err)
	}
	if rec[FieldComponent] != ComponentConsole || rec[FieldError] != "boom" || rec["level"] != "WARN" {
		t.Fatalf("unexpected record: %v", rec)
	}
}
