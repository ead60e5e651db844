// Package library stores user-saved contents in a YAML file so they survive
// restarts.
package library

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"contentboard/internal/codec"
	"contentboard/internal/content"
	"contentboard/internal/script"
)

const (
	CurrentVersion = 1
	FileName       = "library.yaml"
)

type Entry struct {
	Name    string    `yaml:"name"`
	SavedAt time.Time `yaml:"saved_at"`
	Source  string    `yaml:"source"`
}

type File struct {
	Version  int     `yaml:"version"`
	Contents []Entry `yaml:"contents"`
}

type Library struct {
	path string
	file File
	now  func() time.Time
}

// Open reads the library at path. A missing file is an empty library.
func Open(path string) (*Library, error) {
	l := &Library{path: path, file: File{Version: CurrentVersion}, now: time.Now}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, &l.file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if l.file.Version <= 0 {
		l.file.Version = CurrentVersion
	}
	if l.file.Version > CurrentVersion {
		return nil, fmt.Errorf("%s: unsupported library version %d", path, l.file.Version)
	}
	return l, nil
}

func (l *Library) Path() string { return l.path }

func (l *Library) Entries() []Entry {
	return append([]Entry(nil), l.file.Contents...)
}

func (l *Library) Get(name string) (Entry, bool) {
	for _, e := range l.file.Contents {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Put stores source under name, replacing an earlier entry, and writes the
// file. The library is unchanged when the write fails.
func (l *Library) Put(name, source string) error {
	entry := Entry{Name: name, SavedAt: l.now().UTC().Truncate(time.Second), Source: source}
	next := make([]Entry, 0, len(l.file.Contents)+1)
	replaced := false
	for _, e := range l.file.Contents {
		if e.Name == name {
			e = entry
			replaced = true
		}
		next = append(next, e)
	}
	if !replaced {
		next = append(next, entry)
	}
	file := l.file
	file.Contents = next
	if err := l.write(file); err != nil {
		return err
	}
	l.file = file
	return nil
}

func (l *Library) write(file File) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(file)
	if err != nil {
		return err
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, l.path)
}

// RegisterAll deserializes every entry into reg. Entries that fail to parse
// or use a reserved name are skipped and returned by name.
func (l *Library) RegisterAll(reg *content.Registry, env *script.Env, logger *slog.Logger) (loaded int, skipped []string) {
	for _, e := range l.file.Contents {
		if err := register(reg, env, e); err != nil {
			if logger != nil {
				logger.Warn("skipping library entry", "name", e.Name, "err", err)
			}
			skipped = append(skipped, e.Name)
			continue
		}
		loaded++
	}
	return loaded, skipped
}

func register(reg *content.Registry, env *script.Env, e Entry) error {
	if _, err := content.ValidateName(e.Name); err != nil {
		return err
	}
	v, err := codec.Deserialize(e.Source)
	if err != nil {
		return err
	}
	def, err := content.FromValue(v, env)
	if err != nil {
		return err
	}
	return reg.Register(e.Name, def)
}
