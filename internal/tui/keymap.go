package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit   key.Binding
	Back   key.Binding
	Locate key.Binding
	Board  key.Binding
	Editor key.Binding
	Demo   key.Binding
	Focus  key.Binding
	Save   key.Binding
	Run    key.Binding
	Open   key.Binding
	Up     key.Binding
	Down   key.Binding
	Close  key.Binding
	Submit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Back:   key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "back")),
		Locate: key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "go to")),
		Board:  key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "board")),
		Editor: key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "editor")),
		Demo:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "demo modal")),
		Focus:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "focus")),
		Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Run:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "run board")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Board, k.Editor, k.Back, k.Locate, k.Focus, k.Save, k.Run, k.Demo, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Board, k.Editor, k.Back, k.Locate},
		{k.Focus, k.Up, k.Down, k.Open},
		{k.Save, k.Run, k.Demo, k.Quit},
	}
}

// modalKeys is the help shown while a modal owns the keyboard.
type modalKeys struct{ keyMap }

func (k modalKeys) ShortHelp() []key.Binding { return []key.Binding{k.Submit, k.Close} }

func (k modalKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
