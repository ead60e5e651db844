package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	glamourGutter  = 2
	maxRenderCache = 128
)

type renderKey struct {
	width int
	body  string
}

// markdown renders panel bodies with glamour. Renderers are kept per wrap
// width and results per (width, body); failures fall back to the raw body and
// are not cached.
type markdown struct {
	renderers map[int]*glamour.TermRenderer
	entries   map[renderKey]string
	style     string
}

func newMarkdown(style string) *markdown {
	return &markdown{
		renderers: map[int]*glamour.TermRenderer{},
		entries:   map[renderKey]string{},
		style:     style,
	}
}

func (md *markdown) Render(body string, width int) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	k := renderKey{width: width, body: body}
	if out, ok := md.entries[k]; ok {
		return out
	}
	r, err := md.renderer(width)
	if err != nil {
		return body
	}
	out, err := r.Render(body)
	if err != nil {
		return body
	}
	out = strings.Trim(out, "\n")
	if len(md.entries) >= maxRenderCache {
		md.entries = map[renderKey]string{}
	}
	md.entries[k] = out
	return out
}

func (md *markdown) Len() int { return len(md.entries) }

func (md *markdown) renderer(width int) (*glamour.TermRenderer, error) {
	if r, ok := md.renderers[width]; ok {
		return r, nil
	}
	wrap := width - glamourGutter
	if wrap < 10 {
		wrap = 10
	}
	styleOpt := glamour.WithAutoStyle()
	if md.style != "" {
		styleOpt = glamour.WithStandardStyle(md.style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wrap))
	if err != nil {
		return nil, err
	}
	md.renderers[width] = r
	return r, nil
}
