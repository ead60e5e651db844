package theme

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

type Hex string

type PaletteHex struct {
	PaneBorderActive   Hex `json:"pane_border_active"`
	PaneBorderInactive Hex `json:"pane_border_inactive"`
	PopupBorder        Hex `json:"popup_border"`
	PopupOuterBorder   Hex `json:"popup_outer_border"`
	Danger             Hex `json:"danger"`
	DangerText         Hex `json:"danger_text"`
	Warning            Hex `json:"warning"`
	Success            Hex `json:"success"`
	SuccessText        Hex `json:"success_text"`
	TextPrimary        Hex `json:"text_primary"`
	TextMuted          Hex `json:"text_muted"`
	SelectionBg        Hex `json:"selection_bg"`
	SelectionFg        Hex `json:"selection_fg"`
	HeaderText         Hex `json:"header_text"`
	HelpText           Hex `json:"help_text"`
	StatusText         Hex `json:"status_text"`
	CanvasInk          Hex `json:"canvas_ink"`
	CanvasBlank        Hex `json:"canvas_blank"`
}

type ThemeFile struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Version int        `json:"version"`
	Colors  PaletteHex `json:"colors"`
}

type PaletteResolved struct {
	PaneBorderActive   string
	PaneBorderInactive string
	PopupBorder        string
	PopupOuterBorder   string
	Danger             string
	DangerText         string
	Warning            string
	Success            string
	SuccessText        string
	TextPrimary        string
	TextMuted          string
	SelectionBg        string
	SelectionFg        string
	HeaderText         string
	HelpText           string
	StatusText         string
	CanvasInk          string
	CanvasBlank        string
}

type colorField struct {
	key string
	val *Hex
}

func (p *PaletteHex) fields() []colorField {
	return []colorField{
		{"pane_border_active", &p.PaneBorderActive},
		{"pane_border_inactive", &p.PaneBorderInactive},
		{"popup_border", &p.PopupBorder},
		{"popup_outer_border", &p.PopupOuterBorder},
		{"danger", &p.Danger},
		{"danger_text", &p.DangerText},
		{"warning", &p.Warning},
		{"success", &p.Success},
		{"success_text", &p.SuccessText},
		{"text_primary", &p.TextPrimary},
		{"text_muted", &p.TextMuted},
		{"selection_bg", &p.SelectionBg},
		{"selection_fg", &p.SelectionFg},
		{"header_text", &p.HeaderText},
		{"help_text", &p.HelpText},
		{"status_text", &p.StatusText},
		{"canvas_ink", &p.CanvasInk},
		{"canvas_blank", &p.CanvasBlank},
	}
}

var (
	hexRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	varRe = regexp.MustCompile(`^var\(--([A-Za-z0-9_-]+)\)$`)
)

func (p PaletteHex) Validate() error {
	for _, f := range p.fields() {
		if !hexRe.MatchString(string(*f.val)) {
			return fmt.Errorf("invalid hex color for %s: %q", f.key, string(*f.val))
		}
	}
	return nil
}

type rawThemeFile struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Version int               `json:"version"`
	Vars    map[string]string `json:"vars"`
	Colors  map[string]string `json:"colors"`
}

// ParseThemeFile reads a theme. Colors missing from the file keep their
// default; values may be hex or var(--name) references into "vars".
func ParseThemeFile(b []byte) (ThemeFile, error) {
	var raw rawThemeFile
	if err := json.Unmarshal(b, &raw); err != nil {
		return ThemeFile{}, err
	}
	if raw.ID == "" {
		return ThemeFile{}, fmt.Errorf("theme id is required")
	}
	t := ThemeFile{ID: raw.ID, Name: raw.Name, Version: raw.Version, Colors: DefaultPaletteHex()}
	if t.Version == 0 {
		t.Version = 1
	}
	byKey := map[string]*Hex{}
	for _, f := range t.Colors.fields() {
		byKey[f.key] = f.val
	}
	keys := make([]string, 0, len(raw.Colors))
	for k := range raw.Colors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		dst, ok := byKey[key]
		if !ok {
			return ThemeFile{}, fmt.Errorf("unknown color key %q", key)
		}
		val, err := resolveValue(raw.Colors[key], raw.Vars, nil)
		if err != nil {
			return ThemeFile{}, fmt.Errorf("color %s: %w", key, err)
		}
		*dst = Hex(val)
	}
	if err := t.Colors.Validate(); err != nil {
		return ThemeFile{}, err
	}
	return t, nil
}

func resolveValue(val string, vars map[string]string, seen []string) (string, error) {
	val = strings.TrimSpace(val)
	if !strings.HasPrefix(val, "var(") {
		return val, nil
	}
	m := varRe.FindStringSubmatch(val)
	if m == nil {
		return "", fmt.Errorf("invalid variable reference %q", val)
	}
	name := m[1]
	for _, s := range seen {
		if s == name {
			return "", fmt.Errorf("circular variable reference: %s -> %s", strings.Join(seen, " -> "), name)
		}
	}
	next, ok := vars[name]
	if !ok {
		return "", fmt.Errorf("unknown color variable %q", name)
	}
	return resolveValue(next, vars, append(seen, name))
}

func DefaultPaletteHex() PaletteHex {
	return PaletteHex{
		PaneBorderActive:   "#fff67d",
		PaneBorderInactive: "#585858",
		PopupBorder:        "#fff67d",
		PopupOuterBorder:   "#000000",
		Danger:             "#d70000",
		DangerText:         "#d70000",
		Warning:            "#e5a50a",
		Success:            "#5faf5f",
		SuccessText:        "#87d787",
		TextPrimary:        "#ddd7c1",
		TextMuted:          "#9e9987",
		SelectionBg:        "#fff67d",
		SelectionFg:        "#000000",
		HeaderText:         "#efe8ca",
		HelpText:           "#d8cfaa",
		StatusText:         "#fff67d",
		CanvasInk:          "#f7e4a3",
		CanvasBlank:        "#4e4e4e",
	}
}
