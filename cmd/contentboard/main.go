package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"contentboard/internal/authoring"
	"contentboard/internal/builtin"
	configpkg "contentboard/internal/config"
	"contentboard/internal/content"
	"contentboard/internal/doctor"
	"contentboard/internal/library"
	"contentboard/internal/logging"
	"contentboard/internal/script"
	themepkg "contentboard/internal/theme"
	"contentboard/internal/tui"
	"contentboard/internal/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Println(version.Value)
		return
	}

	cfg, err := configpkg.Load()
	if err != nil {
		fatal(err)
	}
	logger, closeLog := openLogger(cfg, os.Stderr)
	defer closeLog()
	ctx := logging.WithLogger(context.Background(), logger)

	if len(os.Args) < 2 {
		if err := runApp(ctx, cfg); err != nil {
			fatal(err)
		}
		return
	}

	switch os.Args[1] {
	case "doctor":
		err = runDoctor(ctx, cfg, os.Stdout)
	case "contents":
		err = runContents(ctx, os.Args[2:], os.Stdout)
	case "export":
		err = runExport(ctx, os.Args[2:], os.Stdout)
	case "theme":
		err = runTheme(os.Args[2:], os.Stdout)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("command failed", "command", os.Args[1], "err", err)
		fatal(err)
	}
}

func runApp(ctx context.Context, cfg configpkg.Config) error {
	logger := logging.FromContext(ctx)

	var lib *library.Library
	if cfg.Library.Enabled {
		var err error
		lib, err = openLibrary(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: content library unavailable, saves last for this session: %v\n", err)
			logger.Warn("library unavailable", "err", err)
			lib = nil
		}
	}

	logger.Info("starting", "version", version.Value, "cache", cfg.Cache.Enabled, "library", lib != nil)
	return tui.RunApp(tui.Options{
		Version:      version.Value,
		Theme:        resolveUITheme(cfg, os.Stderr),
		CacheEnabled: cfg.Cache.Enabled,
		Library:      lib,
		BoardWidth:   cfg.Board.Width,
		BoardHeight:  cfg.Board.Height,
		Logger:       logger,
	})
}

// openLogger writes to the configured log file. The terminal belongs to the
// TUI, so a log file that cannot be opened means no logging at all.
func openLogger(cfg configpkg.Config, w io.Writer) (*slog.Logger, func()) {
	path, err := cfg.LogPath()
	if err == nil {
		logger, closer, openErr := logging.Open(path, cfg.Log.Level)
		if openErr == nil {
			return logger, func() { _ = closer.Close() }
		}
		err = openErr
	}
	fmt.Fprintf(w, "warning: logging disabled: %v\n", err)
	return logging.Discard(), func() {}
}

func openLibrary(cfg configpkg.Config) (*library.Library, error) {
	path, err := cfg.LibraryPath()
	if err != nil {
		return nil, err
	}
	return library.Open(path)
}

func usage() {
	fmt.Println("contentboard")
	fmt.Println("Runs interactive TUI when no command is provided.")
	fmt.Println("contentboard <command>")
	fmt.Println("Commands: contents, export, theme, doctor, version")
}

func runDoctor(ctx context.Context, cfg configpkg.Config, out io.Writer) error {
	r, err := doctor.Check(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "theme: %s\n", r.Theme)
	fmt.Fprintf(out, "built-in contents: %d\n", r.Builtins)
	if r.LibraryPath != "" {
		fmt.Fprintf(out, "library: %s (%d entries)\n", r.LibraryPath, r.LibraryEntries)
	} else {
		fmt.Fprintln(out, "library: disabled")
	}
	fmt.Fprintln(out, "doctor: ok")
	return nil
}

// loadRegistry seeds the built-ins and, when enabled, the saved library into
// a fresh registry for the non-interactive commands.
func loadRegistry(ctx context.Context, cfg configpkg.Config, w io.Writer) (*content.Registry, *script.Env, error) {
	reg := content.NewRegistry()
	env := script.NewEnv()
	if err := builtin.Seed(reg, env); err != nil {
		return nil, nil, err
	}
	if !cfg.Library.Enabled {
		return reg, env, nil
	}
	lib, err := openLibrary(cfg)
	if err != nil {
		return nil, nil, err
	}
	if _, skipped := lib.RegisterAll(reg, env, logging.FromContext(ctx)); len(skipped) > 0 {
		fmt.Fprintf(w, "warning: skipped broken library entries: %s\n", strings.Join(skipped, ", "))
	}
	return reg, env, nil
}

func runContents(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("contents", flag.ContinueOnError)
	userOnly := fs.Bool("user", false, "Only list saved contents, with their save time")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := configpkg.Load()
	if err != nil {
		return err
	}
	if *userOnly {
		return listSaved(cfg, out)
	}
	reg, _, err := loadRegistry(ctx, cfg, os.Stderr)
	if err != nil {
		return err
	}
	for _, name := range reg.Names() {
		if content.IsReserved(name) {
			fmt.Fprintf(out, "%s (built-in)\n", name)
			continue
		}
		fmt.Fprintln(out, name)
	}
	return nil
}

func listSaved(cfg configpkg.Config, out io.Writer) error {
	if !cfg.Library.Enabled {
		return errors.New("content library is disabled (library.enabled=false)")
	}
	lib, err := openLibrary(cfg)
	if err != nil {
		return err
	}
	for _, e := range lib.Entries() {
		if content.IsReserved(e.Name) {
			continue
		}
		fmt.Fprintf(out, "%s\tsaved %s\n", e.Name, e.SavedAt.Local().Format(time.DateTime))
	}
	return nil
}

func runExport(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	outPath := fs.String("o", "", "Write to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: contentboard export [-o file] <name>")
	}
	name := strings.TrimSpace(fs.Arg(0))
	cfg, err := configpkg.Load()
	if err != nil {
		return err
	}
	reg, env, err := loadRegistry(ctx, cfg, os.Stderr)
	if err != nil {
		return err
	}
	if !reg.Has(name) {
		return fmt.Errorf("content does not exist: %s", name)
	}
	text, err := authoring.New(reg, env, nil, nil, authoring.Options{Logger: logging.FromContext(ctx)}).Load(name)
	if err != nil {
		return err
	}
	if *outPath == "" {
		_, err = fmt.Fprintln(out, text)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(*outPath, []byte(text+"\n"), 0o644)
}

func resolveUITheme(cfg configpkg.Config, w io.Writer) tui.UITheme {
	palette, _, err := themepkg.LoadActivePaletteHex(cfg)
	if err != nil {
		fmt.Fprintf(w, "warning: loading theme %q failed, using default: %v\n", cfg.Theme.Active, err)
		palette = themepkg.DefaultPaletteHex()
	}
	resolved := themepkg.ResolveForTerminal(palette, themepkg.DetectTrueColor())
	return tui.UIThemeFromResolved(resolved)
}

func runTheme(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("theme subcommand required: list, current, apply, install, uninstall")
	}
	switch args[0] {
	case "list":
		cfg, err := configpkg.Load()
		if err != nil {
			return err
		}
		ids, err := themepkg.ListLocalThemeIDs()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "local themes (active: %s):\n", cfg.Theme.Active)
		fmt.Fprintln(out, "- default")
		for _, id := range ids {
			prefix := "-"
			if id == cfg.Theme.Active {
				prefix = "*"
			}
			fmt.Fprintf(out, "%s %s\n", prefix, id)
		}
		return nil
	case "current":
		cfg, err := configpkg.Load()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "active theme: %s\n", cfg.Theme.Active)
		return nil
	case "apply":
		if len(args) < 2 {
			return errors.New("usage: contentboard theme apply <theme-id|default>")
		}
		id := strings.TrimSpace(args[1])
		if id == "" {
			return errors.New("theme id is required")
		}
		msg, err := themeApply(id)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, msg)
		return nil
	case "install":
		if len(args) < 2 {
			return errors.New("usage: contentboard theme install <file.json>")
		}
		msg, err := themeInstall(strings.TrimSpace(args[1]))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, msg)
		return nil
	case "uninstall":
		if len(args) < 2 {
			return errors.New("usage: contentboard theme uninstall <theme-id>")
		}
		id := strings.TrimSpace(args[1])
		if id == "" {
			return errors.New("theme id is required")
		}
		msg, err := themeUninstall(id)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, msg)
		return nil
	default:
		return fmt.Errorf("unknown theme subcommand: %s", args[0])
	}
}

// themeApply validates the theme before writing it to the config file.
// Environment overrides are left out of the saved file.
func themeApply(id string) (string, error) {
	cfg, err := configpkg.LoadFile()
	if err != nil {
		return "", err
	}
	if id != themepkg.DefaultID {
		if _, err := themepkg.ReadInstalled(id); err != nil {
			return "", err
		}
	}
	cfg.Theme.Active = id
	if err := configpkg.Save(cfg); err != nil {
		return "", err
	}
	return fmt.Sprintf("applied theme: %s", id), nil
}

func themeInstall(src string) (string, error) {
	tf, err := themepkg.InstallFile(src)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("installed theme: %s (apply with: contentboard theme apply %s)", tf.ID, tf.ID), nil
}

func themeUninstall(id string) (string, error) {
	if id == themepkg.DefaultID {
		return "", errors.New("cannot uninstall built-in theme: default")
	}
	cfg, err := configpkg.LoadFile()
	if err != nil {
		return "", err
	}
	if err := themepkg.RemoveLocalTheme(id); err != nil {
		return "", err
	}
	if cfg.Theme.Active != id {
		return fmt.Sprintf("uninstalled theme: %s", id), nil
	}
	cfg.Theme.Active = "default"
	if err := configpkg.Save(cfg); err != nil {
		return "", err
	}
	return fmt.Sprintf("uninstalled theme: %s (active theme reset to default)", id), nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
