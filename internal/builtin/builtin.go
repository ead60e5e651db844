// Package builtin seeds the reserved contents shipped with the application.
// They are written in the same definition format users save, so they can be
// opened in the editor like any other content.
package builtin

import (
	"embed"
	"fmt"

	"contentboard/internal/codec"
	"contentboard/internal/content"
	"contentboard/internal/script"
)

//go:embed contents/*.content
var files embed.FS

// Widget names content scripts can attach with shell.attach.
const (
	WidgetCanvas      = "canvas"
	WidgetBoardEditor = "board_editor"
	WidgetEditor      = "editor"
	WidgetSelector    = "selector"
)

func Widgets() []string {
	return []string{WidgetCanvas, WidgetBoardEditor, WidgetEditor, WidgetSelector}
}

// Names lists the built-in contents in seeding order.
func Names() []string {
	return []string{content.Board, content.Editor}
}

func Source(name string) (string, error) {
	b, err := files.ReadFile("contents/" + name + ".content")
	if err != nil {
		return "", fmt.Errorf("builtin %q: %w", name, err)
	}
	return string(b), nil
}

// Seed registers every built-in content into reg, bound to env.
func Seed(reg *content.Registry, env *script.Env) error {
	for _, name := range Names() {
		src, err := Source(name)
		if err != nil {
			return err
		}
		v, err := codec.Deserialize(src)
		if err != nil {
			return fmt.Errorf("builtin %q: %w", name, err)
		}
		def, err := content.FromValue(v, env)
		if err != nil {
			return fmt.Errorf("builtin %q: %w", name, err)
		}
		if err := reg.Seed(name, def); err != nil {
			return err
		}
	}
	return nil
}
