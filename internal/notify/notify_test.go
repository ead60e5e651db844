package notify

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"contentboard/internal/logging"
	"contentboard/internal/script"
)

func TestLatestExpires(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewCenter(WithClock(func() time.Time { return now }), WithTTL(time.Second))
	if _, ok := c.Latest(now); ok {
		t.Fatal("expected no toast")
	}
	c.Warn("History", "no previous location")
	toast, ok := c.Latest(now.Add(500 * time.Millisecond))
	if !ok || toast.Level != LevelWarn || toast.Text() != "History: no previous location" {
		t.Fatalf("unexpected toast %+v ok=%v", toast, ok)
	}
	if _, ok := c.Latest(now.Add(2 * time.Second)); ok {
		t.Fatal("toast should have expired")
	}
}

func TestQueueIsBounded(t *testing.T) {
	c := NewCenter()
	for i := 0; i < defaultCapacity+5; i++ {
		c.Success("", fmt.Sprint(i))
	}
	all := c.toasts
	if len(all) != defaultCapacity || all[0].Message != "5" {
		t.Fatalf("unexpected queue: len=%d first=%q", len(all), all[0].Message)
	}
}

func TestToastsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	c := NewCenter(WithLogger(logging.New(&buf, slog.LevelDebug)))
	c.Error("Save", "boom")
	if !strings.Contains(buf.String(), "level=ERROR") || !strings.Contains(buf.String(), "message=boom") {
		t.Fatalf("unexpected log %q", buf.String())
	}
}

func TestBindingFromLua(t *testing.T) {
	c := NewCenter()
	env := script.NewEnv()
	env.Set("notify", c.Binding())
	if err := script.New(`function() notify.success("Board", "drawn") notify.warn("careful") end`).Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	all := c.toasts
	if len(all) != 2 || all[0].Text() != "Board: drawn" || all[1].Message != "careful" {
		t.Fatalf("unexpected toasts %+v", all)
	}
}
