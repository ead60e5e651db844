package script

import "fmt"

// Bound ties a Script to the Env it runs in. It satisfies the content
// producer and hook interfaces without the content package importing lua.
type Bound struct {
	script Script
	env    *Env
}

func Bind(env *Env, s Script) *Bound {
	return &Bound{script: s, env: env}
}

func (b *Bound) Script() Script {
	return b.script
}

// Produce calls the script and returns its first result as panel text.
// A nil or missing result is an empty panel.
func (b *Bound) Produce() (string, error) {
	results, err := b.script.Call(b.env)
	if err != nil {
		return "", err
	}
	if len(results) == 0 || results[0] == nil {
		return "", nil
	}
	switch v := results[0].(type) {
	case string:
		return v, nil
	case int64, float64, bool:
		return fmt.Sprint(v), nil
	case []any:
		return joinLines(v), nil
	default:
		return "", &ScriptError{Phase: PhaseRuntime, Message: fmt.Sprintf("producer returned %T, want string", v)}
	}
}

func (b *Bound) Run() error {
	return b.script.Execute(b.env)
}

func joinLines(items []any) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += "\n"
		}
		out += fmt.Sprint(item)
	}
	return out
}
