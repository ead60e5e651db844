package shell

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Overlay dims base and draws box centered on top of it.
func Overlay(base, box string, width, height int) string {
	return overlayCentered(applyBackdrop(base, width, height), box, width, height)
}

func overlayCentered(base, overlay string, width, height int) string {
	baseLines := frameLines(base, width, height)
	overLines := strings.Split(overlay, "\n")

	overW := 0
	for _, l := range overLines {
		if w := ansi.StringWidth(l); w > overW {
			overW = w
		}
	}
	startY := (len(baseLines) - len(overLines)) / 2
	if startY < 0 {
		startY = 0
	}
	startX := (width - overW) / 2
	if startX < 0 {
		startX = 0
	}
	for y := 0; y < len(overLines) && startY+y < len(baseLines); y++ {
		row := baseLines[startY+y]
		lineWidth := ansi.StringWidth(overLines[y])
		left := ansi.Truncate(row, startX, "")
		right := ansi.TruncateLeft(row, startX+lineWidth, "")
		baseLines[startY+y] = left + overLines[y] + right
	}
	return strings.Join(baseLines, "\n")
}

func applyBackdrop(base string, width, height int) string {
	lines := frameLines(ansi.Strip(base), width, height)
	for i := range lines {
		lines[i] = strings.Map(softenRune, lines[i])
	}
	return strings.Join(lines, "\n")
}

// frameLines strips styling and pads or cuts base to a width x height grid.
func frameLines(base string, width, height int) []string {
	lines := strings.Split(ansi.Strip(base), "\n")
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = max(len(lines), 1)
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]
	for i := range lines {
		w := ansi.StringWidth(lines[i])
		switch {
		case w < width:
			lines[i] += strings.Repeat(" ", width-w)
		case w > width:
			lines[i] = ansi.Truncate(lines[i], width, "")
		}
	}
	return lines
}

func softenRune(r rune) rune {
	switch r {
	case '│', '┃':
		return '┆'
	case '─', '━':
		return '┄'
	case '┬', '┴', '┼':
		return '┼'
	case '├':
		return '┝'
	case '┤':
		return '┥'
	case '┌', '╭':
		return '┍'
	case '┐', '╮':
		return '┑'
	case '└', '╰':
		return '┕'
	case '┘', '╯':
		return '┙'
	default:
		return r
	}
}
