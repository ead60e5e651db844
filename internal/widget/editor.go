package widget

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	editorCharLimit = 200_000
	tabSize         = 2
)

// Editor is a multi-line code editor used for content definitions and board
// scripts.
type Editor struct {
	ta textarea.Model
}

func NewEditor(placeholder string) *Editor {
	ta := textarea.New()
	ta.CharLimit = editorCharLimit
	ta.Prompt = ""
	ta.ShowLineNumbers = true
	ta.Placeholder = placeholder
	ta.SetWidth(60)
	ta.SetHeight(10)
	return &Editor{ta: ta}
}

func (e *Editor) SetValue(s string) { e.ta.SetValue(s) }
func (e *Editor) Value() string     { return e.ta.Value() }
func (e *Editor) Blur()             { e.ta.Blur() }

func (e *Editor) Focus() tea.Cmd { return e.ta.Focus() }

func (e *Editor) SetSize(width, height int) {
	e.ta.SetWidth(max(width, 10))
	e.ta.SetHeight(max(height, 2))
}

// Update feeds a message to the editor. Tab inserts spaces instead of moving
// focus.
func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyTab {
		if e.ta.Focused() {
			e.ta.InsertString(strings.Repeat(" ", tabSize))
		}
		return nil
	}
	var cmd tea.Cmd
	e.ta, cmd = e.ta.Update(msg)
	return cmd
}

func (e *Editor) View() string { return e.ta.View() }
