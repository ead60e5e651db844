package script

import (
	"errors"
	"strings"
	"testing"
)

func TestCallReturnsValues(t *testing.T) {
	s := New(`function(a, b) return a + b, "ok" end`)
	got, err := s.Call(nil, int64(2), int64(3))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if len(got) != 2 || got[0] != int64(5) || got[1] != "ok" {
		t.Fatalf("unexpected results: %#v", got)
	}
}

func TestCompileRejectsBadSyntax(t *testing.T) {
	err := New(`function( return end`).Compile()
	var se *ScriptError
	if !errors.As(err, &se) || se.Phase != PhaseCompile {
		t.Fatalf("expected compile error, got %v", err)
	}
}

func TestCallRejectsNonFunction(t *testing.T) {
	_, err := New(`42`).Call(nil)
	var se *ScriptError
	if !errors.As(err, &se) || se.Phase != PhaseRuntime {
		t.Fatalf("expected runtime error, got %v", err)
	}
	if !strings.Contains(se.Message, ErrNotFunction.Error()) {
		t.Fatalf("unexpected message: %q", se.Message)
	}
}

func TestRuntimeErrorIsReported(t *testing.T) {
	_, err := New(`function() error("boom") end`).Call(nil)
	var se *ScriptError
	if !errors.As(err, &se) || se.Phase != PhaseRuntime {
		t.Fatalf("expected runtime error, got %v", err)
	}
	if !strings.Contains(se.Message, "boom") {
		t.Fatalf("expected message to carry lua error, got %q", se.Message)
	}
}

func TestEnvBindingsAreCallable(t *testing.T) {
	var seen []any
	env := NewEnv()
	env.Set("host", map[string]any{
		"record": Func(func(args []any) ([]any, error) {
			seen = append(seen, args...)
			return []any{int64(len(args))}, nil
		}),
	})
	got, err := New(`function() return host.record("a", 1, true) end`).Call(env)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if len(got) != 1 || got[0] != int64(3) {
		t.Fatalf("unexpected results: %#v", got)
	}
	if len(seen) != 3 || seen[0] != "a" || seen[1] != int64(1) || seen[2] != true {
		t.Fatalf("binding saw %#v", seen)
	}
}

func TestBindingErrorBecomesScriptError(t *testing.T) {
	env := NewEnv().With(map[string]any{
		"fail": Func(func([]any) ([]any, error) { return nil, errors.New("nope") }),
	})
	err := New(`function() fail() end`).Execute(env)
	var se *ScriptError
	if !errors.As(err, &se) || !strings.Contains(se.Message, "nope") {
		t.Fatalf("expected binding error to surface, got %v", err)
	}
}

func TestBindingPanicIsRecovered(t *testing.T) {
	env := NewEnv().With(map[string]any{
		"explode": Func(func([]any) ([]any, error) { panic("kaboom") }),
	})
	err := New(`function() explode() end`).Execute(env)
	if err == nil || !strings.Contains(err.Error(), "kaboom") {
		t.Fatalf("expected recovered panic, got %v", err)
	}
}

func TestCallsDoNotShareGlobals(t *testing.T) {
	if err := New(`function() leaked = 1 end`).Execute(nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	got, err := New(`function() return leaked end`).Call(nil)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if len(got) != 1 || got[0] != nil {
		t.Fatalf("expected fresh scope, got %#v", got)
	}
}

func TestTablesConvertToGo(t *testing.T) {
	got, err := New(`function() return {1, 2, 3}, {name = "x"} end`).Call(nil)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	list, ok := got[0].([]any)
	if !ok || len(list) != 3 || list[2] != int64(3) {
		t.Fatalf("unexpected list: %#v", got[0])
	}
	m, ok := got[1].(map[string]any)
	if !ok || m["name"] != "x" {
		t.Fatalf("unexpected map: %#v", got[1])
	}
}

func TestBoundProduce(t *testing.T) {
	b := Bind(nil, New(`function() return "<p>Hi</p>" end`))
	got, err := b.Produce()
	if err != nil {
		t.Fatalf("produce: %v", err)
	}
	if got != "<p>Hi</p>" {
		t.Fatalf("unexpected panel: %q", got)
	}

	empty := Bind(nil, New(`function() end`))
	got, err = empty.Produce()
	if err != nil || got != "" {
		t.Fatalf("expected empty panel, got %q err=%v", got, err)
	}

	bad := Bind(nil, New(`function() return {x = 1} end`))
	if _, err := bad.Produce(); err == nil {
		t.Fatalf("expected error for table result")
	}
}
