// Package location switches the content shown in the shell and keeps the
// navigation history.
package location

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/agnivade/levenshtein"

	"contentboard/internal/content"
	"contentboard/internal/logging"
)

const maxSuggestionDistance = 3

type NotFoundError struct {
	Name       string
	Suggestion string
}

func (e *NotFoundError) Error() string {
	return "content does not exist: " + e.Name
}

// Message is the user-facing warning text, including a suggestion when one
// is close enough.
func (e *NotFoundError) Message() string {
	if e.Suggestion == "" {
		return e.Error()
	}
	return fmt.Sprintf("%s (did you mean %q?)", e.Error(), e.Suggestion)
}

type Options struct {
	// DisableCache makes every navigation re-run the producers.
	DisableCache bool
	Logger       *slog.Logger
}

type Engine struct {
	registry *content.Registry
	state    *NavigationState
	sink     Sink
	notifier Notifier
	cache    bool
	logger   *slog.Logger
}

func NewEngine(registry *content.Registry, state *NavigationState, sink Sink, notifier Notifier, opts Options) *Engine {
	if state == nil {
		state = NewState()
	}
	if state.cache == nil {
		state.cache = map[string]CachedView{}
	}
	return &Engine{
		registry: registry,
		state:    state,
		sink:     sink,
		notifier: notifier,
		cache:    !opts.DisableCache,
		logger:   logging.OrDiscard(opts.Logger),
	}
}

// Locate makes name the current content. It reports whether anything was
// rendered. Unknown names produce a warning and no error.
func (e *Engine) Locate(name string) (bool, error) {
	if cur, ok := e.state.cursor(); ok && cur == name {
		return false, nil
	}
	view, fromCache, err := e.Resolve(name)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			e.warn("Not found", nf.Message())
			return false, nil
		}
		return false, err
	}
	e.snapshot()
	e.mount(view)
	e.state.history = append(e.state.history, name)
	e.state.hook = view.Hook
	e.logger.Debug("located", "name", name, "cached", fromCache, "depth", len(e.state.history))
	return true, e.runHook(name, view.Hook)
}

// Back returns to the previous history entry.
func (e *Engine) Back() (bool, error) {
	e.snapshot()
	if len(e.state.history) < 2 {
		e.warn("History", "no previous location")
		return false, nil
	}
	target := e.state.history[len(e.state.history)-2]
	view, fromCache, err := e.Resolve(target)
	if err != nil {
		return false, err
	}
	e.state.history = e.state.history[:len(e.state.history)-1]
	e.mount(view)
	e.state.hook = view.Hook
	e.logger.Debug("back", "name", target, "cached", fromCache, "depth", len(e.state.history))
	return true, e.runHook(target, view.Hook)
}

// Resolve produces the view for name without touching any state. A cached
// view wins over the registry definition.
func (e *Engine) Resolve(name string) (CachedView, bool, error) {
	if e.cache {
		if view, ok := e.state.cache[name]; ok {
			return view, true, nil
		}
	}
	def, ok := e.registry.Get(name)
	if !ok {
		return CachedView{}, false, &NotFoundError{Name: name, Suggestion: e.suggest(name)}
	}
	mainBody, err := produce(def.Main)
	if err != nil {
		return CachedView{}, false, fmt.Errorf("content %q main panel: %w", name, err)
	}
	sideBody, err := produce(def.Side)
	if err != nil {
		return CachedView{}, false, fmt.Errorf("content %q side panel: %w", name, err)
	}
	return CachedView{Main: mainBody, Side: sideBody, Hook: def.Script}, false, nil
}

func (e *Engine) History() []string {
	out := make([]string, len(e.state.history))
	copy(out, e.state.history)
	return out
}

func (e *Engine) Cursor() (string, bool) {
	return e.state.cursor()
}

func (e *Engine) Cached(name string) bool {
	_, ok := e.state.cache[name]
	return ok
}

func (e *Engine) snapshot() {
	if !e.cache {
		return
	}
	cur, ok := e.state.cursor()
	if !ok {
		return
	}
	e.state.cache[cur] = CachedView{
		Main: e.sink.Snapshot(RegionMain),
		Side: e.sink.Snapshot(RegionSide),
		Hook: e.state.hook,
	}
}

func (e *Engine) mount(view CachedView) {
	e.sink.Mount(RegionMain, view.Main)
	e.sink.Mount(RegionSide, view.Side)
}

func (e *Engine) runHook(name string, hook content.Hook) error {
	if hook == nil {
		return nil
	}
	if err := hook.Run(); err != nil {
		e.logger.Warn("content hook failed", "name", name, "err", err)
		return fmt.Errorf("content %q script: %w", name, err)
	}
	return nil
}

func (e *Engine) warn(title, message string) {
	e.logger.Info("navigation refused", "reason", message)
	if e.notifier != nil {
		e.notifier.Warn(title, message)
	}
}

func (e *Engine) suggest(name string) string {
	best, bestDist := "", maxSuggestionDistance+1
	for _, candidate := range e.registry.Names() {
		d := levenshtein.ComputeDistance(name, candidate)
		if d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

func produce(p content.Producer) (string, error) {
	if p == nil {
		return "", nil
	}
	return p.Produce()
}
