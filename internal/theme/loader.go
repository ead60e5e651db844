package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"contentboard/internal/config"
)

const (
	DefaultID = "default"
	fileExt   = ".json"
)

var themeIDRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ErrNotInstalled is returned for a theme id with no file in the themes
// directory.
var ErrNotInstalled = errors.New("theme not installed")

func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("theme id is required")
	}
	if id == DefaultID {
		return fmt.Errorf("theme id %q is reserved for the built-in theme", id)
	}
	if !themeIDRe.MatchString(id) {
		return fmt.Errorf("invalid theme id %q", id)
	}
	return nil
}

func themePath(id string) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}
	dir, err := config.ThemesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, id+fileExt), nil
}

// ReadInstalled parses the installed theme id and checks that the file
// carries the same id.
func ReadInstalled(id string) (ThemeFile, error) {
	path, err := themePath(id)
	if err != nil {
		return ThemeFile{}, err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ThemeFile{}, fmt.Errorf("%w: %s", ErrNotInstalled, id)
	}
	if err != nil {
		return ThemeFile{}, err
	}
	tf, err := ParseThemeFile(b)
	if err != nil {
		return ThemeFile{}, fmt.Errorf("invalid installed theme %s: %w", id, err)
	}
	if tf.ID != id {
		return ThemeFile{}, fmt.Errorf("theme id mismatch: expected %q got %q", id, tf.ID)
	}
	return tf, nil
}

// LoadActivePaletteHex returns the configured palette. On any failure it
// returns the default palette together with the error.
func LoadActivePaletteHex(cfg config.Config) (PaletteHex, string, error) {
	id := cfg.Theme.Active
	if id == "" || id == DefaultID {
		return DefaultPaletteHex(), DefaultID, nil
	}
	tf, err := ReadInstalled(id)
	if err != nil {
		return DefaultPaletteHex(), DefaultID, err
	}
	return tf.Colors, tf.ID, nil
}

// SaveThemeFile writes theme into the themes directory with its variables
// already resolved.
func SaveThemeFile(theme ThemeFile) error {
	if err := theme.Colors.Validate(); err != nil {
		return err
	}
	path, err := themePath(theme.ID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := json.MarshalIndent(theme, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// InstallFile copies a theme file from src into the themes directory,
// replacing an installed theme with the same id.
func InstallFile(src string) (ThemeFile, error) {
	b, err := os.ReadFile(src)
	if err != nil {
		return ThemeFile{}, err
	}
	tf, err := ParseThemeFile(b)
	if err != nil {
		return ThemeFile{}, fmt.Errorf("%s: %w", src, err)
	}
	if err := SaveThemeFile(tf); err != nil {
		return ThemeFile{}, err
	}
	return tf, nil
}

func ListLocalThemeIDs() ([]string, error) {
	dir, err := config.ThemesDir()
	if err != nil {
		return nil, err
	}
	ents, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	ids := []string{}
	for _, ent := range ents {
		if ent.IsDir() {
			continue
		}
		if id, ok := strings.CutSuffix(ent.Name(), fileExt); ok && themeIDRe.MatchString(id) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func RemoveLocalTheme(id string) error {
	path, err := themePath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotInstalled, id)
		}
		return err
	}
	return nil
}
