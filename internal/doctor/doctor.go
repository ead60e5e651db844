// Package doctor checks that the local installation can start: config,
// theme, built-in contents and the content library.
package doctor

import (
	"context"
	"fmt"
	"strings"

	"contentboard/internal/builtin"
	"contentboard/internal/config"
	"contentboard/internal/content"
	"contentboard/internal/library"
	"contentboard/internal/logging"
	"contentboard/internal/script"
	"contentboard/internal/theme"
)

type Report struct {
	Theme          string
	Builtins       int
	LibraryPath    string
	LibraryEntries int
}

func Check(ctx context.Context, cfg config.Config) (Report, error) {
	logger := logging.FromContext(ctx)
	var r Report

	_, id, err := theme.LoadActivePaletteHex(cfg)
	if err != nil {
		return r, fmt.Errorf("theme %q: %w", cfg.Theme.Active, err)
	}
	r.Theme = id

	reg := content.NewRegistry()
	env := script.NewEnv()
	if err := builtin.Seed(reg, env); err != nil {
		return r, err
	}
	r.Builtins = reg.Len()

	if !cfg.Library.Enabled {
		return r, nil
	}
	path, err := cfg.LibraryPath()
	if err != nil {
		return r, err
	}
	r.LibraryPath = path
	lib, err := library.Open(path)
	if err != nil {
		return r, fmt.Errorf("library %s: %w", path, err)
	}
	loaded, skipped := lib.RegisterAll(reg, env, logger)
	r.LibraryEntries = loaded
	if len(skipped) > 0 {
		return r, fmt.Errorf("library %s: broken entries: %s", path, strings.Join(skipped, ", "))
	}
	logger.Debug("doctor ok", "theme", r.Theme, "library", path, "entries", loaded)
	return r, nil
}
