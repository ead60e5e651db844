// Package shell holds the two content regions and the modal slot, and draws
// them into a terminal frame.
package shell

import (
	"fmt"
	"slices"
	"strings"

	"contentboard/internal/location"
	"contentboard/internal/script"
)

type region struct {
	body    string
	widgets []string
}

// Shell is the render sink for the location engine. Widgets are attached to
// a region by name and drawn by the TUI in place of the region body.
type Shell struct {
	regions map[location.Region]*region
	Modal   *Modal
}

func New() *Shell {
	return &Shell{
		regions: map[location.Region]*region{
			location.RegionMain: {},
			location.RegionSide: {},
		},
		Modal: &Modal{},
	}
}

func ParseRegion(s string) (location.Region, error) {
	switch r := location.Region(strings.ToLower(strings.TrimSpace(s))); r {
	case location.RegionMain, location.RegionSide:
		return r, nil
	default:
		return "", fmt.Errorf("unknown region %q", s)
	}
}

// Mount clears the region, dropping attached widgets, and draws body.
func (s *Shell) Mount(r location.Region, body string) {
	s.regions[r] = &region{body: body}
}

func (s *Shell) Snapshot(r location.Region) string {
	if reg, ok := s.regions[r]; ok {
		return reg.body
	}
	return ""
}

func (s *Shell) Append(r location.Region, text string) {
	reg := s.get(r)
	if reg.body != "" && !strings.HasSuffix(reg.body, "\n") {
		reg.body += "\n"
	}
	reg.body += text
}

func (s *Shell) Set(r location.Region, text string) {
	s.get(r).body = text
}

// Attach records widget in the region. Attaching the same widget twice is
// a no-op.
func (s *Shell) Attach(r location.Region, widget string) {
	reg := s.get(r)
	if slices.Contains(reg.widgets, widget) {
		return
	}
	reg.widgets = append(reg.widgets, widget)
}

func (s *Shell) Widgets(r location.Region) []string {
	return slices.Clone(s.get(r).widgets)
}

// HasWidget reports whether widget is attached to any region.
func (s *Shell) HasWidget(widget string) bool {
	for _, reg := range s.regions {
		if slices.Contains(reg.widgets, widget) {
			return true
		}
	}
	return false
}

func (s *Shell) get(r location.Region) *region {
	reg, ok := s.regions[r]
	if !ok {
		reg = &region{}
		s.regions[r] = reg
	}
	return reg
}

// Binding is the `shell` table given to content scripts. known lists the
// widget names a script may attach.
func (s *Shell) Binding(known []string) map[string]any {
	regionArg := func(args []any, fn string) (location.Region, error) {
		if len(args) == 0 {
			return "", fmt.Errorf("shell.%s: region is required", fn)
		}
		name, _ := args[0].(string)
		return ParseRegion(name)
	}
	textArg := func(args []any) string {
		if len(args) < 2 || args[1] == nil {
			return ""
		}
		return fmt.Sprint(args[1])
	}
	return map[string]any{
		"attach": script.Func(func(args []any) ([]any, error) {
			r, err := regionArg(args, "attach")
			if err != nil {
				return nil, err
			}
			widget := textArg(args)
			if !slices.Contains(known, widget) {
				return nil, fmt.Errorf("shell.attach: unknown widget %q", widget)
			}
			s.Attach(r, widget)
			return nil, nil
		}),
		"append": script.Func(func(args []any) ([]any, error) {
			r, err := regionArg(args, "append")
			if err != nil {
				return nil, err
			}
			s.Append(r, textArg(args))
			return nil, nil
		}),
		"set": script.Func(func(args []any) ([]any, error) {
			r, err := regionArg(args, "set")
			if err != nil {
				return nil, err
			}
			s.Set(r, textArg(args))
			return nil, nil
		}),
		"text": script.Func(func(args []any) ([]any, error) {
			r, err := regionArg(args, "text")
			if err != nil {
				return nil, err
			}
			return []any{s.Snapshot(r)}, nil
		}),
	}
}
