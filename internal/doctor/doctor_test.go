package doctor

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"contentboard/internal/config"
	"contentboard/internal/library"
	"contentboard/internal/logging"
)

func TestCheckDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.Default()
	cfg.Library.Path = filepath.Join(t.TempDir(), "library.yaml")

	r, err := Check(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Theme != "default" || r.Builtins != 2 {
		t.Fatalf("unexpected report: %+v", r)
	}
}

func TestCheckReportsBrokenLibrary(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "library.yaml")
	lib, err := library.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := lib.Put("good", `{ main: function() return "ok" end }`); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := lib.Put("bad", `{ main: `); err != nil {
		t.Fatalf("put: %v", err)
	}
	cfg := config.Default()
	cfg.Library.Path = path

	r, err := Check(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "bad") {
		t.Fatalf("expected broken entry error, got %v", err)
	}
	if r.LibraryEntries != 1 {
		t.Fatalf("expected one loaded entry, got %d", r.LibraryEntries)
	}
}

func TestCheckMissingTheme(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.Default()
	cfg.Theme.Active = "nope"
	cfg.Library.Enabled = false
	if _, err := Check(context.Background(), cfg); err == nil {
		t.Fatalf("expected theme error")
	}
}

func TestCheckLogsThroughContext(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "library.yaml")
	lib, err := library.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := lib.Put("bad", `{ main: `); err != nil {
		t.Fatalf("put: %v", err)
	}
	cfg := config.Default()
	cfg.Library.Path = path

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.New(&buf, slog.LevelDebug))
	if _, err := Check(ctx, cfg); err == nil {
		t.Fatal("expected broken entry error")
	}
	if !strings.Contains(buf.String(), "skipping library entry") || !strings.Contains(buf.String(), "name=bad") {
		t.Fatalf("expected skipped entry in log, got %q", buf.String())
	}

	if err := lib.Put("bad", `{ main: function() return "ok" end }`); err != nil {
		t.Fatalf("put: %v", err)
	}
	buf.Reset()
	if _, err := Check(ctx, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "doctor ok") {
		t.Fatalf("expected debug line, got %q", buf.String())
	}
}
