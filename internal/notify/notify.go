// Package notify collects user-facing notifications for the status line and
// mirrors them to the log.
package notify

import (
	"log/slog"
	"time"

	"contentboard/internal/logging"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

type Toast struct {
	Level   Level
	Title   string
	Message string
	At      time.Time
}

func (t Toast) Text() string {
	if t.Title == "" {
		return t.Message
	}
	return t.Title + ": " + t.Message
}

const (
	DefaultTTL      = 5 * time.Second
	defaultCapacity = 20
)

// Center keeps the most recent toasts. It is used from the TUI update loop
// only and is not safe for concurrent use.
type Center struct {
	toasts []Toast
	ttl    time.Duration
	cap    int
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Center)

func WithTTL(ttl time.Duration) Option {
	return func(c *Center) { c.ttl = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Center) { c.logger = logger }
}

func NewCenter(opts ...Option) *Center {
	c := &Center{ttl: DefaultTTL, cap: defaultCapacity, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDiscard(c.logger)
	return c
}

func (c *Center) Warn(title, message string)    { c.push(LevelWarn, title, message) }
func (c *Center) Error(title, message string)   { c.push(LevelError, title, message) }
func (c *Center) Success(title, message string) { c.push(LevelSuccess, title, message) }

func (c *Center) push(level Level, title, message string) {
	t := Toast{Level: level, Title: title, Message: message, At: c.now()}
	c.toasts = append(c.toasts, t)
	if len(c.toasts) > c.cap {
		c.toasts = c.toasts[len(c.toasts)-c.cap:]
	}
	attrs := []any{"title", title, "message", message}
	switch level {
	case LevelError:
		c.logger.Error("notification", attrs...)
	case LevelWarn:
		c.logger.Warn("notification", attrs...)
	default:
		c.logger.Info("notification", attrs...)
	}
}

// Latest returns the newest toast that has not expired at now.
func (c *Center) Latest(now time.Time) (Toast, bool) {
	if len(c.toasts) == 0 {
		return Toast{}, false
	}
	t := c.toasts[len(c.toasts)-1]
	if c.ttl > 0 && now.Sub(t.At) > c.ttl {
		return Toast{}, false
	}
	return t, true
}

// Binding is the `notify` table given to content scripts.
func (c *Center) Binding() map[string]any {
	mk := func(level Level) func(args []any) ([]any, error) {
		return func(args []any) ([]any, error) {
			var title, message string
			switch len(args) {
			case 0:
			case 1:
				message, _ = args[0].(string)
			default:
				title, _ = args[0].(string)
				message, _ = args[1].(string)
			}
			c.push(level, title, message)
			return nil, nil
		}
	}
	return map[string]any{
		"warn":    mk(LevelWarn),
		"error":   mk(LevelError),
		"success": mk(LevelSuccess),
	}
}
