package content

import (
	"errors"
	"strings"
	"testing"

	"contentboard/internal/codec"
	"contentboard/internal/script"
)

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("  greet ", Definition{Main: Static("<p>Hi</p>")}); err != nil {
		t.Fatalf("register: %v", err)
	}
	def, ok := r.Get("greet")
	if !ok {
		t.Fatalf("expected greet to be registered, names=%v", r.Names())
	}
	body, err := def.Main.Produce()
	if err != nil || body != "<p>Hi</p>" {
		t.Fatalf("unexpected body %q err=%v", body, err)
	}
	if !r.Has("greet") || r.Len() != 1 {
		t.Fatalf("unexpected registry state: %v", r.Names())
	}
}

func TestRegisterRejectsBlankAndReserved(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"", "   ", "system_x", " system_board"} {
		err := r.Register(name, Definition{})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("name %q: expected validation error, got %v", name, err)
		}
	}
	if r.Len() != 0 {
		t.Fatalf("registry mutated: %v", r.Names())
	}
}

func TestSeedAllowsReservedNames(t *testing.T) {
	r := NewRegistry()
	if err := r.Seed(Board, Definition{}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := r.Seed(" ", Definition{}); err == nil {
		t.Fatal("expected blank seed name to fail")
	}
	if !r.Has(Board) {
		t.Fatal("expected board to be seeded")
	}
}

func TestNamesKeepInsertionOrderOnOverwrite(t *testing.T) {
	r := NewRegistry()
	for _, n := range []string{"b", "a", "c"} {
		if err := r.Register(n, Definition{Main: Static(n)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.Register("a", Definition{Main: Static("a2")}); err != nil {
		t.Fatal(err)
	}
	names := r.Names()
	if strings.Join(names, ",") != "b,a,c" {
		t.Fatalf("unexpected order: %v", names)
	}
	names[0] = "mutated"
	if r.Names()[0] != "b" {
		t.Fatal("Names must return a copy")
	}
	def, _ := r.Get("a")
	if body, _ := def.Main.Produce(); body != "a2" {
		t.Fatalf("expected last write to win, got %q", body)
	}
}

func TestFromValueAndBack(t *testing.T) {
	v, err := codec.Deserialize(`{
  main: function() return "<p>" .. name .. "</p>" end,
  side: null,
  script: function() end
}`)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	env := script.NewEnv()
	env.Set("name", "Ada")
	def, err := FromValue(v, env)
	if err != nil {
		t.Fatalf("from value: %v", err)
	}
	if def.Side != nil {
		t.Fatalf("expected nil side, got %#v", def.Side)
	}
	body, err := def.Main.Produce()
	if err != nil || body != "<p>Ada</p>" {
		t.Fatalf("unexpected main %q err=%v", body, err)
	}
	if err := def.Script.Run(); err != nil {
		t.Fatalf("hook: %v", err)
	}

	out, err := ToValue(def)
	if err != nil {
		t.Fatalf("to value: %v", err)
	}
	if strings.Join(out.Keys(), ",") != "main,script" {
		t.Fatalf("unexpected keys: %v", out.Keys())
	}
	main, _ := out.Get("main")
	if main.(script.Script).Source != `function() return "<p>" .. name .. "</p>" end` {
		t.Fatalf("source not preserved: %q", main)
	}
}

func TestFromValueRejectsMalformed(t *testing.T) {
	cases := map[string]any{
		"not a mapping": []any{"x"},
		"string field":  codec.Map{{Key: "main", Value: "<p>x</p>"}},
		"unknown key":   codec.Map{{Key: "footer", Value: script.New("function() end")}},
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromValue(v, script.NewEnv())
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestToValueRejectsGoFunctions(t *testing.T) {
	_, err := ToValue(Definition{Main: ProducerFunc(func() (string, error) { return "", nil })})
	if !errors.Is(err, ErrNotSerializable) {
		t.Fatalf("expected ErrNotSerializable, got %v", err)
	}
	out, err := ToValue(Definition{})
	if err != nil || out.Len() != 0 {
		t.Fatalf("empty definition should serialize to an empty map, got %v err=%v", out, err)
	}
}
