package shell

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const (
	minFrameWidth  = 60
	minMainWidth   = 36
	minSideWidth   = 20
	minPanelWidth  = 6
	minBodyHeight  = 4
	minPanelHeight = 2
	columnGap      = 1
)

// Layout is the size of the main and side panels for a frame. Stacked
// frames put the side panel below main at full width.
type Layout struct {
	Stacked    bool
	MainWidth  int
	SideWidth  int
	MainHeight int
	SideHeight int
	BodyHeight int
}

// ComputeLayout gives main two thirds of the frame: two thirds of the width
// side by side, or two thirds of the height when the terminal is narrower
// than minFrameWidth or taller than it is wide. chrome is the number of rows
// used above and below the panels.
func ComputeLayout(width, height, chrome int) Layout {
	bodyHeight := max(height-chrome, minBodyHeight)
	if width < minFrameWidth || height > width {
		w := max(width, minPanelWidth)
		mainHeight := max(bodyHeight*2/3, minPanelHeight)
		sideHeight := max(bodyHeight-mainHeight, minPanelHeight)
		return Layout{
			Stacked:    true,
			MainWidth:  w,
			SideWidth:  w,
			MainHeight: mainHeight,
			SideHeight: sideHeight,
			BodyHeight: mainHeight + sideHeight,
		}
	}
	contentWidth := width - columnGap
	mainWidth := max(contentWidth*2/3, minMainWidth)
	sideWidth := contentWidth - mainWidth
	if sideWidth < minSideWidth {
		sideWidth = minSideWidth
		mainWidth = contentWidth - sideWidth
	}
	return Layout{
		MainWidth:  mainWidth,
		SideWidth:  sideWidth,
		MainHeight: bodyHeight,
		SideHeight: bodyHeight,
		BodyHeight: bodyHeight,
	}
}

// InnerWidth is the text width inside a bordered, padded panel.
func InnerWidth(totalWidth int) int {
	w := totalWidth - 4
	if w < 1 {
		return 1
	}
	return w
}

func InnerHeight(totalHeight int) int {
	h := totalHeight - 2
	if h < 1 {
		return 1
	}
	return h
}

// FitLines pads or cuts lines to exactly maxLines, marking a cut with "~".
func FitLines(lines []string, maxLines int) []string {
	if maxLines <= 0 {
		return []string{}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	if len(lines) > maxLines {
		if maxLines == 1 {
			return []string{Truncate(lines[0], 20)}
		}
		out := append([]string(nil), lines[:maxLines-1]...)
		out = append(out, "~")
		return out
	}
	out := append([]string(nil), lines...)
	for len(out) < maxLines {
		out = append(out, "")
	}
	return out
}

// Truncate cuts s to max cells, ANSI aware, marking the cut with "~".
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= max {
		return s
	}
	return ansi.Truncate(s, max, "~")
}

func WrapLines(lines []string, width int) []string {
	if width <= 0 {
		return []string{}
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, wrapLine(line, width)...)
	}
	return out
}

func wrapLine(s string, width int) []string {
	s = strings.TrimRight(s, " \t")
	if strings.TrimSpace(s) == "" {
		return []string{""}
	}
	wrapped := ansi.Hardwrap(ansi.Wordwrap(s, width, " "), width, true)
	return strings.Split(wrapped, "\n")
}
