package script

import (
	"fmt"
	"math"
	"sort"

	"github.com/Shopify/go-lua"
)

// Func is a Go binding callable from Lua. Arguments and results use the
// same value model as Call.
type Func func(args []any) ([]any, error)

// Env is the set of globals installed into every Lua state created for a call.
// Values may be Func, map[string]any (installed as a table), []any or primitives.
type Env struct {
	globals map[string]any
}

func NewEnv() *Env {
	return &Env{globals: map[string]any{}}
}

func (e *Env) Set(name string, value any) {
	if e.globals == nil {
		e.globals = map[string]any{}
	}
	e.globals[name] = value
}

func (e *Env) Get(name string) (any, bool) {
	if e == nil {
		return nil, false
	}
	v, ok := e.globals[name]
	return v, ok
}

func (e *Env) Names() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.globals))
	for name := range e.globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// With returns a copy of e with extra globals layered on top.
func (e *Env) With(extra map[string]any) *Env {
	out := NewEnv()
	if e != nil {
		for k, v := range e.globals {
			out.globals[k] = v
		}
	}
	for k, v := range extra {
		out.globals[k] = v
	}
	return out
}

func (e *Env) install(l *lua.State) {
	for _, name := range e.Names() {
		if err := push(l, e.globals[name]); err != nil {
			l.PushNil()
		}
		l.SetGlobal(name)
	}
}

func push(l *lua.State, v any) error {
	switch val := v.(type) {
	case nil:
		l.PushNil()
	case bool:
		l.PushBoolean(val)
	case string:
		l.PushString(val)
	case int:
		l.PushInteger(val)
	case int64:
		l.PushInteger(int(val))
	case int32:
		l.PushInteger(int(val))
	case float64:
		l.PushNumber(val)
	case float32:
		l.PushNumber(float64(val))
	case Func:
		l.PushGoFunction(wrap(val))
	case func(args []any) ([]any, error):
		l.PushGoFunction(wrap(val))
	case []any:
		l.NewTable()
		for i, item := range val {
			if err := push(l, item); err != nil {
				l.Pop(1)
				return err
			}
			l.RawSetInt(-2, i+1)
		}
	case []string:
		l.NewTable()
		for i, item := range val {
			l.PushString(item)
			l.RawSetInt(-2, i+1)
		}
	case map[string]any:
		l.NewTable()
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := push(l, val[k]); err != nil {
				l.Pop(1)
				return err
			}
			l.SetField(-2, k)
		}
	default:
		return fmt.Errorf("cannot pass %T to lua", v)
	}
	return nil
}

func wrap(f Func) lua.Function {
	return func(l *lua.State) int {
		args := make([]any, l.Top())
		for i := range args {
			args[i] = toGo(l, i+1)
		}
		results, err := invoke(f, args)
		if err != nil {
			lua.Errorf(l, "%s", err.Error())
			return 0
		}
		for _, r := range results {
			if err := push(l, r); err != nil {
				l.PushNil()
			}
		}
		return len(results)
	}
}

func invoke(f Func, args []any) (results []any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("binding panic: %v", r)
		}
	}()
	return f(args)
}

func toGo(l *lua.State, index int) any {
	switch l.TypeOf(index) {
	case lua.TypeString:
		s, _ := l.ToString(index)
		return s
	case lua.TypeNumber:
		n, _ := l.ToNumber(index)
		return normalizeNumber(n)
	case lua.TypeBoolean:
		return l.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(l, index)
	default:
		return nil
	}
}

func normalizeNumber(n float64) any {
	if math.Mod(n, 1) == 0 && math.Abs(n) < 1<<53 {
		return int64(n)
	}
	return n
}

func tableToGo(l *lua.State, index int) any {
	index = l.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	l.PushNil()
	for l.Next(index) {
		if isArray {
			if l.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := l.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		l.Pop(1)
	}
	if isArray && count > 0 && maxIndex == count {
		out := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			l.RawGetInt(index, i)
			out = append(out, toGo(l, -1))
			l.Pop(1)
		}
		return out
	}
	out := map[string]any{}
	l.PushNil()
	for l.Next(index) {
		if l.TypeOf(-2) == lua.TypeString {
			key, _ := l.ToString(-2)
			out[key] = toGo(l, -1)
		}
		l.Pop(1)
	}
	return out
}
