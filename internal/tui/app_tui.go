package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"contentboard/internal/authoring"
	"contentboard/internal/builtin"
	"contentboard/internal/codec"
	"contentboard/internal/content"
	"contentboard/internal/library"
	"contentboard/internal/location"
	"contentboard/internal/logging"
	"contentboard/internal/notify"
	"contentboard/internal/script"
	"contentboard/internal/shell"
	"contentboard/internal/widget"
)

type Options struct {
	Version string
	Theme   UITheme
	// MarkdownStyle is a glamour standard style name; empty picks one from
	// the terminal background.
	MarkdownStyle string
	CacheEnabled  bool
	// Library is optional. Without it saved contents last for the session.
	Library     *library.Library
	BoardWidth  int
	BoardHeight int
	Logger      *slog.Logger
}

type focusRegion int

const (
	focusMain focusRegion = iota
	focusSide
)

type toastTickMsg struct{}

type appModel struct {
	width  int
	height int
	theme  UITheme
	keys   keyMap
	help   help.Model

	registry  *content.Registry
	shell     *shell.Shell
	engine    *location.Engine
	notes     *notify.Center
	authoring *authoring.Service
	md        *markdown

	canvas      *widget.Canvas
	editor      *widget.Editor
	boardEditor *widget.Editor
	selector    *widget.Selector
	input       textinput.Model

	focus      focusRegion
	status     string
	appVersion string
	quitting   bool
	logger     *slog.Logger
	now        func() time.Time
}

func RunApp(opts Options) error {
	m, err := newAppModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func newAppModel(opts Options) (appModel, error) {
	logger := logging.OrDiscard(opts.Logger)
	registry := content.NewRegistry()
	sh := shell.New()
	notes := notify.NewCenter(notify.WithLogger(logger))
	canvas := widget.NewCanvas(opts.BoardWidth, opts.BoardHeight)

	env := script.NewEnv()
	env.Set("shell", sh.Binding(builtin.Widgets()))
	env.Set("notify", notes.Binding())
	env.Set("board", map[string]any{"width": canvas.Width(), "height": canvas.Height()})

	if err := builtin.Seed(registry, env); err != nil {
		return appModel{}, err
	}
	var store authoring.Store
	if opts.Library != nil {
		store = opts.Library
		loaded, skipped := opts.Library.RegisterAll(registry, env, logger)
		logger.Info("library loaded", "path", opts.Library.Path(), "loaded", loaded, "skipped", len(skipped))
		if len(skipped) > 0 {
			notes.Warn("Library", "skipped broken entries: "+strings.Join(skipped, ", "))
		}
	}

	input := textinput.New()
	input.CharLimit = 128
	input.Prompt = "> "

	m := appModel{
		theme:       opts.Theme.withDefaults(),
		keys:        defaultKeyMap(),
		help:        help.New(),
		registry:    registry,
		shell:       sh,
		notes:       notes,
		md:          newMarkdown(opts.MarkdownStyle),
		canvas:      canvas,
		editor:      widget.NewEditor("{ main: function() return \"# Hello\" end }"),
		boardEditor: widget.NewEditor("canvas.rect(0, 0, 10, 5, \"#\")"),
		selector:    widget.NewSelector(registry.Names()),
		input:       input,
		status:      "Ready",
		appVersion:  opts.Version,
		logger:      logger,
		now:         time.Now,
	}
	m.engine = location.NewEngine(registry, location.NewState(), sh, notes, location.Options{
		DisableCache: !opts.CacheEnabled,
		Logger:       logger,
	})
	m.authoring = authoring.New(registry, env, notes, sh.Modal, authoring.Options{Store: store, Logger: logger})

	m.locate(content.Board)
	return m, nil
}

func toastTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return toastTickMsg{} })
}

func (m appModel) Init() tea.Cmd {
	return toastTickCmd()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case toastTickMsg:
		return m, toastTickCmd()
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.shell.Modal.IsOpen() {
			return m.updateModal(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Board):
			return m, m.locate(content.Board)
		case key.Matches(msg, m.keys.Editor):
			return m, m.locate(content.Editor)
		case key.Matches(msg, m.keys.Back):
			return m, m.back()
		case key.Matches(msg, m.keys.Locate):
			return m, m.openModal(shell.ModalContent{Kind: shell.ModalLocate, Title: "Go to content"})
		case key.Matches(msg, m.keys.Demo):
			return m, m.openModal(shell.ModalContent{Kind: shell.ModalMessage, Title: "Demo", Body: "Sample Modal"})
		case key.Matches(msg, m.keys.Focus):
			return m, m.cycleFocus()
		case key.Matches(msg, m.keys.Save) && m.shell.HasWidget(builtin.WidgetEditor):
			return m, m.openSaveModal()
		case key.Matches(msg, m.keys.Run) && m.shell.HasWidget(builtin.WidgetCanvas):
			m.runBoard()
			return m, nil
		}
		return m.updateFocused(msg)
	}
	return m, nil
}

// updateFocused routes a key to the widget of the focused region.
func (m appModel) updateFocused(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focusedWidget() {
	case builtin.WidgetEditor:
		return m, m.editor.Update(msg)
	case builtin.WidgetBoardEditor:
		return m, m.boardEditor.Update(msg)
	case builtin.WidgetSelector:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.selector.Move(-1) {
				m.loadSelection()
			}
		case key.Matches(msg, m.keys.Down):
			if m.selector.Move(1) {
				m.loadSelection()
			}
		case key.Matches(msg, m.keys.Open):
			if !m.selector.IsNew() {
				return m, m.locate(m.selector.Selected())
			}
		}
	}
	return m, nil
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.shell.Modal.Content()
	if key.Matches(msg, m.keys.Close) {
		m.closeModal()
		return m, m.syncFocus()
	}
	if key.Matches(msg, m.keys.Submit) {
		switch c.Kind {
		case shell.ModalSaveContent:
			return m, m.submitSave()
		case shell.ModalLocate:
			name := strings.TrimSpace(m.input.Value())
			m.closeModal()
			if name == "" {
				return m, m.syncFocus()
			}
			return m, m.locate(name)
		default:
			m.closeModal()
			return m, m.syncFocus()
		}
	}
	if c.Kind == shell.ModalSaveContent || c.Kind == shell.ModalLocate {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) openModal(c shell.ModalContent) tea.Cmd {
	if !m.shell.Modal.Open(c) {
		return nil
	}
	m.editor.Blur()
	m.boardEditor.Blur()
	if c.Kind == shell.ModalSaveContent || c.Kind == shell.ModalLocate {
		m.input.SetValue(c.Value)
		m.input.CursorEnd()
		return m.input.Focus()
	}
	return nil
}

func (m *appModel) closeModal() {
	m.shell.Modal.Close()
	m.input.Blur()
	m.input.SetValue("")
}

func (m *appModel) openSaveModal() tea.Cmd {
	prefill := ""
	if !m.selector.IsNew() && !content.IsReserved(m.selector.Selected()) {
		prefill = m.selector.Selected()
	}
	return m.openModal(shell.ModalContent{Kind: shell.ModalSaveContent, Title: "Save content", Value: prefill})
}

func (m *appModel) submitSave() tea.Cmd {
	name := m.input.Value()
	if err := m.authoring.Save(name, m.editor.Value()); err != nil {
		m.status = "Save failed"
		return nil
	}
	name = strings.TrimSpace(name)
	m.selector.SetOptions(m.registry.Names())
	m.selector.Select(name)
	m.input.Blur()
	m.input.SetValue("")
	m.status = "Saved " + name
	return m.syncFocus()
}

func (m *appModel) locate(name string) tea.Cmd {
	ok, err := m.engine.Locate(name)
	return m.afterNavigation(ok, err)
}

func (m *appModel) back() tea.Cmd {
	ok, err := m.engine.Back()
	return m.afterNavigation(ok, err)
}

func (m *appModel) afterNavigation(ok bool, err error) tea.Cmd {
	if err != nil {
		m.report(err)
	}
	if !ok {
		return nil
	}
	if cur, ok := m.engine.Cursor(); ok {
		m.status = "At " + cur
	}
	if m.shell.HasWidget(builtin.WidgetSelector) {
		m.selector.SetOptions(m.registry.Names())
		m.loadSelection()
	}
	return m.syncFocus()
}

// report turns an error from a content operation into a toast.
func (m *appModel) report(err error) {
	var (
		verr *content.ValidationError
		serr *codec.SyntaxError
		xerr *script.ScriptError
		nerr *location.NotFoundError
	)
	switch {
	case errors.As(err, &nerr):
		m.notes.Warn("Not found", nerr.Message())
	case errors.As(err, &verr):
		m.notes.Error("Invalid", err.Error())
	case errors.As(err, &serr):
		m.notes.Error("Syntax", err.Error())
	case errors.As(err, &xerr):
		m.notes.Error("Script", err.Error())
	default:
		m.notes.Error("Error", err.Error())
	}
}

func (m *appModel) loadSelection() {
	if m.selector.IsNew() {
		m.editor.SetValue("")
		return
	}
	text, err := m.authoring.Load(m.selector.Selected())
	if err != nil {
		m.report(err)
		return
	}
	m.editor.SetValue(text)
}

func (m *appModel) runBoard() {
	if err := m.authoring.RunOnCanvas(m.boardEditor.Value(), m.canvas); err != nil {
		m.report(fmt.Errorf("board script: %w", err))
		return
	}
	m.notes.Success("Board", "script finished")
}

func (m appModel) focusedWidget() string {
	r := location.RegionMain
	if m.focus == focusSide {
		r = location.RegionSide
	}
	for _, w := range m.shell.Widgets(r) {
		if isInteractive(w) {
			return w
		}
	}
	return ""
}

func isInteractive(w string) bool {
	switch w {
	case builtin.WidgetEditor, builtin.WidgetBoardEditor, builtin.WidgetSelector:
		return true
	default:
		return false
	}
}

func (m *appModel) cycleFocus() tea.Cmd {
	if m.focus == focusMain {
		m.focus = focusSide
	} else {
		m.focus = focusMain
	}
	return m.syncFocus()
}

// syncFocus moves focus to a region with an interactive widget when the
// current one has none, then focuses that widget's input.
func (m *appModel) syncFocus() tea.Cmd {
	if m.focusedWidget() == "" {
		if m.focus == focusMain {
			m.focus = focusSide
		} else {
			m.focus = focusMain
		}
	}
	m.editor.Blur()
	m.boardEditor.Blur()
	switch m.focusedWidget() {
	case builtin.WidgetEditor:
		return m.editor.Focus()
	case builtin.WidgetBoardEditor:
		return m.boardEditor.Focus()
	}
	return nil
}
