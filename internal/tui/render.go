package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"contentboard/internal/builtin"
	"contentboard/internal/location"
	"contentboard/internal/notify"
	"contentboard/internal/shell"
)

const chromeRows = 3

func (m appModel) View() string {
	if m.quitting {
		return "Exited.\n"
	}
	if m.width <= 0 {
		m.width = 140
	}
	if m.height <= 0 {
		m.height = 36
	}

	header := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.HeaderText)).Bold(true).
		Render(shell.Truncate(m.headerLine(), m.width))
	var helpLine string
	if m.shell.Modal.IsOpen() {
		helpLine = m.help.View(modalKeys{m.keys})
	} else {
		helpLine = m.help.View(m.keys)
	}
	status := m.statusLine()

	layout := shell.ComputeLayout(m.width, m.height, chromeRows)
	mainPanel := m.renderRegion(location.RegionMain, layout.MainWidth, layout.MainHeight, m.focus == focusMain)
	sidePanel := m.renderRegion(location.RegionSide, layout.SideWidth, layout.SideHeight, m.focus == focusSide)
	var body string
	if layout.Stacked {
		body = lipgloss.JoinVertical(lipgloss.Left, mainPanel, sidePanel)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, mainPanel, " ", sidePanel)
	}

	view := strings.Join([]string{header, body, status, helpLine}, "\n")
	if m.shell.Modal.IsOpen() {
		view = shell.Overlay(view, m.renderModal(), m.width, m.height)
	}
	return view + "\n"
}

func (m appModel) headerLine() string {
	cur, ok := m.engine.Cursor()
	if !ok {
		cur = "-"
	}
	return fmt.Sprintf("contentboard %s | %s | history: %s",
		formatVersionLabel(m.appVersion), cur, strings.Join(m.engine.History(), " > "))
}

func (m appModel) statusLine() string {
	if t, ok := m.notes.Latest(m.now()); ok {
		color := m.theme.SuccessText
		switch t.Level {
		case notify.LevelWarn:
			color = m.theme.Warning
		case notify.LevelError:
			color = m.theme.DangerText
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(shell.Truncate(t.Text(), m.width))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusText)).Render(shell.Truncate("Status: "+m.status, m.width))
}

// renderRegion draws the region body as markdown followed by its widgets.
func (m appModel) renderRegion(r location.Region, width, height int, active bool) string {
	innerW := shell.InnerWidth(width)
	innerH := shell.InnerHeight(height)

	var lines []string
	if body := m.md.Render(m.shell.Snapshot(r), innerW); body != "" {
		lines = append(lines, strings.Split(body, "\n")...)
	}
	for _, w := range m.shell.Widgets(r) {
		remaining := innerH - len(lines)
		if remaining < 2 {
			break
		}
		lines = append(lines, strings.Split(m.renderWidget(w, innerW, remaining), "\n")...)
	}
	for i := range lines {
		lines[i] = shell.Truncate(lines[i], innerW)
	}
	lines = shell.FitLines(lines, innerH)

	border := m.theme.PaneBorderInactive
	if active {
		border = m.theme.PaneBorderActive
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

func (m appModel) renderWidget(name string, width, height int) string {
	switch name {
	case builtin.WidgetCanvas:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.CanvasInk)).
			Render(m.canvas.Render(width, height))
	case builtin.WidgetEditor:
		m.editor.SetSize(width, height)
		return m.editor.View()
	case builtin.WidgetBoardEditor:
		m.boardEditor.SetSize(width, height)
		return m.boardEditor.View()
	case builtin.WidgetSelector:
		selected := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.SelectionFg)).
			Background(lipgloss.Color(m.theme.SelectionBg))
		return m.selector.View(width, height, selected)
	default:
		return ""
	}
}

func (m appModel) renderModal() string {
	width := m.width - 6
	if width > 72 {
		width = 72
	}
	if width < 36 {
		width = 36
	}
	c := m.shell.Modal.Content()
	title := c.Title
	if title == "" {
		title = "Message"
	}
	var lines []string
	switch c.Kind {
	case shell.ModalSaveContent:
		lines = append(lines, "Content name (names starting with system_ are reserved):", "", m.input.View())
	case shell.ModalLocate:
		lines = append(lines, "Content name:", "", m.input.View())
		if names := m.registry.Names(); len(names) > 0 {
			lines = append(lines, "", "Available: "+strings.Join(names, ", "))
		}
	default:
		lines = append(lines, c.Body, "", "Enter/Esc close")
	}
	lines = shell.FitLines(shell.WrapLines(lines, shell.InnerWidth(width)), 10)

	inner := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(m.theme.PopupBorder)).
		Padding(0, 1).
		Width(width).
		Render(title + "\n" + strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(lipgloss.Color(m.theme.PopupOuterBorder)).
		Padding(0, 1).
		Render(inner)
}

func formatVersionLabel(v string) string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return "vdev"
	}
	if strings.HasPrefix(trimmed, "v") {
		return trimmed
	}
	return "v" + trimmed
}
