package logger

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestInitWithFileWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	InitWithFile("info", true, FileOptions{Path: path, MaxSizeMB: 1})
	defer Init("info", false)

	Info("faucet claimed", "player_id", 7)

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), `"player_id":7`) {
		t.Fatalf("log file missing entry: %s", b)
	}
}

func TestWithContextFallsBackToDefault(t *testing.T) {
	Init("info", false)
	if WithContext(context.Background()) != Get() {
		t.Fatalf("expected default logger")
	}
	scoped := Get().With("request_id", "abc")
	ctx := ContextWith(context.Background(), scoped)
	if WithContext(ctx) != scoped {
		t.Fatalf("expected scoped logger")
	}
}
