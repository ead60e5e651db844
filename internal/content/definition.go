package content

import (
	"fmt"

	"contentboard/internal/codec"
	"contentboard/internal/script"
)

// Producer renders the body of one panel.
type Producer interface {
	Produce() (string, error)
}

// Hook runs once after both panels of a content are mounted.
type Hook interface {
	Run() error
}

type ProducerFunc func() (string, error)

func (f ProducerFunc) Produce() (string, error) { return f() }

type HookFunc func() error

func (f HookFunc) Run() error { return f() }

// Static is a producer with a fixed body.
type Static string

func (s Static) Produce() (string, error) { return string(s), nil }

// Definition is a named pair of panel producers plus an optional hook.
// A nil Main or Side renders an empty panel.
type Definition struct {
	Main   Producer
	Side   Producer
	Script Hook
}

const (
	FieldMain   = "main"
	FieldSide   = "side"
	FieldScript = "script"
)

// scripted is implemented by producers and hooks that can be written back
// out as source, script.Bound in practice.
type scripted interface {
	Script() script.Script
}

// FromValue converts a deserialized mapping into a Definition whose callables
// run in env. Every field is optional; unknown keys are rejected.
func FromValue(v any, env *script.Env) (Definition, error) {
	m, ok := v.(codec.Map)
	if !ok {
		return Definition{}, &ValidationError{Field: "definition", Reason: fmt.Sprintf("expected a mapping, got %s", describe(v))}
	}
	var def Definition
	for _, e := range m {
		if e.Value == nil {
			continue
		}
		s, ok := e.Value.(script.Script)
		switch e.Key {
		case FieldMain, FieldSide, FieldScript:
			if !ok {
				return Definition{}, &ValidationError{Field: e.Key, Reason: fmt.Sprintf("expected a function, got %s", describe(e.Value))}
			}
		default:
			return Definition{}, &ValidationError{Field: e.Key, Reason: "unknown field"}
		}
		bound := script.Bind(env, s)
		switch e.Key {
		case FieldMain:
			def.Main = bound
		case FieldSide:
			def.Side = bound
		case FieldScript:
			def.Script = bound
		}
	}
	return def, nil
}

// ToValue is the inverse of FromValue. Definitions built from Go functions
// cannot be written out and return ErrNotSerializable.
func ToValue(def Definition) (codec.Map, error) {
	out := codec.Map{}
	fields := []struct {
		key string
		val any
	}{
		{FieldMain, def.Main},
		{FieldSide, def.Side},
		{FieldScript, def.Script},
	}
	for _, f := range fields {
		if f.val == nil {
			continue
		}
		s, ok := f.val.(scripted)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %T", ErrNotSerializable, f.key, f.val)
		}
		out = append(out, codec.Entry{Key: f.key, Value: s.Script()})
	}
	return out, nil
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int64, float64:
		return "number"
	case []any:
		return "sequence"
	case codec.Map:
		return "mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}
