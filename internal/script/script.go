// Package script is the only place user-authored code is evaluated.
//
// A Script is an inert value holding Lua source for one function literal.
// Every Call or Execute compiles the source into a fresh Lua state, so
// scripts never share globals with each other or with earlier runs.
package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Shopify/go-lua"
)

const chunkName = "=script"

type Phase string

const (
	PhaseCompile Phase = "compile"
	PhaseRuntime Phase = "runtime"
)

type Script struct {
	Source string
}

type ScriptError struct {
	Phase   Phase
	Message string
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s error: %s", e.Phase, e.Message)
}

var ErrNotFunction = errors.New("source does not evaluate to a function")

func New(source string) Script {
	return Script{Source: strings.TrimSpace(source)}
}

func (s Script) String() string {
	return s.Source
}

func (s Script) IsZero() bool {
	return strings.TrimSpace(s.Source) == ""
}

// Compile checks that the source parses as a Lua expression. It does not run it.
func (s Script) Compile() error {
	l := lua.NewState()
	return load(l, s)
}

// Execute runs the function and discards its results.
func (s Script) Execute(env *Env, args ...any) error {
	_, err := s.Call(env, args...)
	return err
}

// Call evaluates the source to a function value and calls it with args.
func (s Script) Call(env *Env, args ...any) ([]any, error) {
	l := lua.NewState()
	lua.OpenLibraries(l)
	env.install(l)

	if err := load(l, s); err != nil {
		return nil, err
	}
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return nil, runtimeError(l, err)
	}
	if !l.IsFunction(-1) {
		l.Pop(1)
		return nil, &ScriptError{Phase: PhaseRuntime, Message: ErrNotFunction.Error()}
	}
	base := l.Top() - 1
	for _, arg := range args {
		if err := push(l, arg); err != nil {
			l.SetTop(base)
			return nil, &ScriptError{Phase: PhaseRuntime, Message: err.Error()}
		}
	}
	if err := l.ProtectedCall(len(args), lua.MultipleReturns, 0); err != nil {
		return nil, runtimeError(l, err)
	}
	n := l.Top() - base
	results := make([]any, 0, n)
	for i := 1; i <= n; i++ {
		results = append(results, toGo(l, base+i))
	}
	l.SetTop(base)
	return results, nil
}

func load(l *lua.State, s Script) error {
	if s.IsZero() {
		return &ScriptError{Phase: PhaseCompile, Message: "empty source"}
	}
	if err := lua.LoadBuffer(l, "return "+s.Source, chunkName, ""); err != nil {
		return &ScriptError{Phase: PhaseCompile, Message: stackMessage(l, err)}
	}
	return nil
}

func runtimeError(l *lua.State, err error) error {
	return &ScriptError{Phase: PhaseRuntime, Message: stackMessage(l, err)}
}

func stackMessage(l *lua.State, err error) string {
	msg := ""
	if l.Top() > 0 {
		if s, ok := l.ToString(-1); ok {
			msg = s
		}
		l.Pop(1)
	}
	if strings.TrimSpace(msg) == "" {
		msg = err.Error()
	}
	return msg
}
