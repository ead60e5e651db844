package location

import "contentboard/internal/content"

type Region string

const (
	RegionMain Region = "main"
	RegionSide Region = "side"
)

// Sink is where panels are drawn. Mount clears the region before drawing.
type Sink interface {
	Mount(region Region, body string)
	Snapshot(region Region) string
}

type Notifier interface {
	Warn(title, message string)
}

// CachedView is the rendered state of a content captured when it stopped
// being current.
type CachedView struct {
	Main string
	Side string
	Hook content.Hook
}

// NavigationState is the mutable part of the engine. The last history entry
// is the cursor; adjacent entries are never equal.
type NavigationState struct {
	history []string
	cache   map[string]CachedView
	hook    content.Hook
}

func NewState() *NavigationState {
	return &NavigationState{cache: map[string]CachedView{}}
}

func (s *NavigationState) cursor() (string, bool) {
	if len(s.history) == 0 {
		return "", false
	}
	return s.history[len(s.history)-1], true
}
