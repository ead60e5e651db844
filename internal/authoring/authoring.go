// Package authoring saves user-written content definitions and loads them
// back as editable text.
package authoring

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"contentboard/internal/codec"
	"contentboard/internal/content"
	"contentboard/internal/logging"
	"contentboard/internal/script"
)

type Notifier interface {
	Warn(title, message string)
	Error(title, message string)
	Success(title, message string)
}

// Store persists saved sources. library.Library implements it.
type Store interface {
	Put(name, source string) error
}

type ModalCloser interface {
	Close() bool
}

// Bindable is a widget that exposes a Lua table, such as widget.Canvas.
type Bindable interface {
	Binding() map[string]any
}

type Options struct {
	// Store is optional; without it saves last for the session only.
	Store  Store
	Logger *slog.Logger
}

type Service struct {
	registry *content.Registry
	env      *script.Env
	notifier Notifier
	modal    ModalCloser
	store    Store
	logger   *slog.Logger
}

func New(registry *content.Registry, env *script.Env, notifier Notifier, modal ModalCloser, opts Options) *Service {
	return &Service{
		registry: registry,
		env:      env,
		notifier: notifier,
		modal:    modal,
		store:    opts.Store,
		logger:   logging.OrDiscard(opts.Logger),
	}
}

// Save parses text as a content definition and registers it under name.
// Nothing is registered unless the name, the text and the definition are
// all valid. Every failure is also notified.
func (s *Service) Save(name, text string) error {
	name, err := content.ValidateName(name)
	if err != nil {
		s.notifier.Error("Save", err.Error())
		return err
	}
	v, err := codec.Deserialize(text)
	if err != nil {
		s.notifier.Error("Save", err.Error())
		return fmt.Errorf("parse %q: %w", name, err)
	}
	def, err := content.FromValue(v, s.env)
	if err != nil {
		s.notifier.Error("Save", err.Error())
		return fmt.Errorf("definition %q: %w", name, err)
	}
	if err := s.registry.Register(name, def); err != nil {
		s.notifier.Error("Save", err.Error())
		return err
	}
	if s.store != nil {
		if err := s.store.Put(name, strings.TrimSpace(text)); err != nil {
			s.logger.Warn("library write failed", "name", name, "err", err)
			s.notifier.Warn("Library", "content saved for this session only: "+err.Error())
		}
	}
	s.logger.Info("content saved", "name", name)
	s.notifier.Success("Save", "content saved: "+name)
	if s.modal != nil {
		s.modal.Close()
	}
	return nil
}

// Load returns the serialized definition of name, or "" when there is none.
func (s *Service) Load(name string) (string, error) {
	def, ok := s.registry.Get(name)
	if !ok {
		return "", nil
	}
	v, err := content.ToValue(def)
	if err != nil {
		return "", fmt.Errorf("load %q: %w", name, err)
	}
	return codec.Serialize(v)
}

// RunOnCanvas runs a board script body as function(canvas) <body> end.
func (s *Service) RunOnCanvas(body string, canvas Bindable) error {
	if strings.TrimSpace(body) == "" {
		return errors.New("board script is empty")
	}
	fn := script.New("function(canvas)\n" + body + "\nend")
	if err := fn.Execute(s.env, canvas.Binding()); err != nil {
		s.logger.Debug("board script failed", "err", err)
		return err
	}
	return nil
}
