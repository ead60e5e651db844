package tui

import (
	"contentboard/internal/theme"
)

type UITheme struct {
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

func defaultUITheme() UITheme {
	resolved := theme.ResolveForTerminal(theme.DefaultPaletteHex(), theme.DetectTrueColor())
	return UIThemeFromResolved(resolved)
}

func UIThemeFromResolved(r theme.PaletteResolved) UITheme {
	return UITheme{
		PaneBorderActive:   r.PaneBorderActive,
		PaneBorderInactive: r.PaneBorderInactive,
		PopupBorder:        r.PopupBorder,
		PopupOuterBorder:   r.PopupOuterBorder,
		Danger:             r.Danger,
		DangerText:         r.DangerText,
		Warning:            r.Warning,
		Success:            r.Success,
		SuccessText:        r.SuccessText,
		TextPrimary:        r.TextPrimary,
		TextMuted:          r.TextMuted,
		SelectionBg:        r.SelectionBg,
		SelectionFg:        r.SelectionFg,
		HeaderText:         r.HeaderText,
		HelpText:           r.HelpText,
		StatusText:         r.StatusText,
		CanvasInk:          r.CanvasInk,
		CanvasBlank:        r.CanvasBlank,
	}
}

func (t UITheme) withDefaults() UITheme {
	d := defaultUITheme()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&t.PaneBorderActive, d.PaneBorderActive)
	fill(&t.PaneBorderInactive, d.PaneBorderInactive)
	fill(&t.PopupBorder, d.PopupBorder)
	fill(&t.PopupOuterBorder, d.PopupOuterBorder)
	fill(&t.Danger, d.Danger)
	fill(&t.DangerText, d.DangerText)
	fill(&t.Warning, d.Warning)
	fill(&t.Success, d.Success)
	fill(&t.SuccessText, d.SuccessText)
	fill(&t.TextPrimary, d.TextPrimary)
	fill(&t.TextMuted, d.TextMuted)
	fill(&t.SelectionBg, d.SelectionBg)
	fill(&t.SelectionFg, d.SelectionFg)
	fill(&t.HeaderText, d.HeaderText)
	fill(&t.HelpText, d.HelpText)
	fill(&t.StatusText, d.StatusText)
	fill(&t.CanvasInk, d.CanvasInk)
	fill(&t.CanvasBlank, d.CanvasBlank)
	return t
}
