package widget

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// NewContentOption is always the first selector entry. Choosing it clears the
// editor for a new definition.
const NewContentOption = "New Content"

type Selector struct {
	options []string
	cursor  int
}

func NewSelector(names []string) *Selector {
	s := &Selector{}
	s.SetOptions(names)
	return s
}

// SetOptions replaces the content names, keeping the current selection when
// it is still present.
func (s *Selector) SetOptions(names []string) {
	current := s.Selected()
	s.options = append([]string{NewContentOption}, names...)
	s.cursor = 0
	for i, o := range s.options {
		if o == current {
			s.cursor = i
			break
		}
	}
}

// Move shifts the cursor by delta, clamped, and reports whether it moved.
func (s *Selector) Move(delta int) bool {
	next := s.cursor + delta
	if next < 0 {
		next = 0
	}
	if next > len(s.options)-1 {
		next = len(s.options) - 1
	}
	moved := next != s.cursor
	s.cursor = next
	return moved
}

func (s *Selector) Select(name string) bool {
	for i, o := range s.options {
		if o == name {
			s.cursor = i
			return true
		}
	}
	return false
}

func (s *Selector) Selected() string {
	if s.cursor < 0 || s.cursor >= len(s.options) {
		return ""
	}
	return s.options[s.cursor]
}

// IsNew reports whether the "New Content" entry is selected.
func (s *Selector) IsNew() bool { return s.cursor == 0 }

func (s *Selector) View(width, height int, selected lipgloss.Style) string {
	start := 0
	if height > 0 && s.cursor >= height {
		start = s.cursor - height + 1
	}
	lines := make([]string, 0, len(s.options))
	for i := start; i < len(s.options); i++ {
		if height > 0 && len(lines) >= height {
			break
		}
		prefix := "  "
		if i == s.cursor {
			prefix = "> "
		}
		line := prefix + s.options[i]
		if width > 0 && lipgloss.Width(line) > width {
			line = string([]rune(line)[:max(width-1, 0)]) + "~"
		}
		if i == s.cursor {
			line = selected.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
