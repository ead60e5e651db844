package authoring

import (
	"errors"
	"strings"
	"testing"

	"contentboard/internal/codec"
	"contentboard/internal/content"
	"contentboard/internal/script"
	"contentboard/internal/shell"
	"contentboard/internal/widget"
)

type recorder struct {
	errors, warns, successes []string
}

func (r *recorder) Warn(_, m string)    { r.warns = append(r.warns, m) }
func (r *recorder) Error(_, m string)   { r.errors = append(r.errors, m) }
func (r *recorder) Success(_, m string) { r.successes = append(r.successes, m) }

type memStore struct {
	saved map[string]string
	err   error
}

func (m *memStore) Put(name, source string) error {
	if m.err != nil {
		return m.err
	}
	if m.saved == nil {
		m.saved = map[string]string{}
	}
	m.saved[name] = source
	return nil
}

func newService(t *testing.T, store Store) (*Service, *content.Registry, *recorder, *shell.Modal) {
	t.Helper()
	reg := content.NewRegistry()
	rec := &recorder{}
	modal := &shell.Modal{}
	return New(reg, script.NewEnv(), rec, modal, Options{Store: store}), reg, rec, modal
}

const greet = `{
  main: function() return "<p>Hi</p>" end
}`

func TestSaveRegistersAndClosesModal(t *testing.T) {
	store := &memStore{}
	svc, reg, rec, modal := newService(t, store)
	modal.Open(shell.ModalContent{Kind: shell.ModalSaveContent})

	if err := svc.Save("  greet ", greet); err != nil {
		t.Fatalf("save: %v", err)
	}
	def, ok := reg.Get("greet")
	if !ok {
		t.Fatal("expected greet to be registered")
	}
	if body, _ := def.Main.Produce(); body != "<p>Hi</p>" {
		t.Fatalf("unexpected body %q", body)
	}
	if modal.IsOpen() {
		t.Fatal("modal should be closed after save")
	}
	if len(rec.successes) != 1 || rec.successes[0] != "content saved: greet" {
		t.Fatalf("unexpected success toasts %v", rec.successes)
	}
	if store.saved["greet"] != greet {
		t.Fatalf("unexpected stored source %q", store.saved["greet"])
	}
}

func TestSaveRejectsReservedAndBlankNames(t *testing.T) {
	for _, name := range []string{"system_foo", "   "} {
		svc, reg, rec, modal := newService(t, nil)
		modal.Open(shell.ModalContent{Kind: shell.ModalSaveContent})
		err := svc.Save(name, greet)
		var verr *content.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%q: expected validation error, got %v", name, err)
		}
		if reg.Len() != 0 || len(rec.errors) != 1 || !modal.IsOpen() {
			t.Fatalf("%q: state changed: len=%d errors=%v open=%v", name, reg.Len(), rec.errors, modal.IsOpen())
		}
	}
}

func TestSaveSyntaxErrorLeavesRegistryUnchanged(t *testing.T) {
	svc, reg, rec, _ := newService(t, nil)
	err := svc.Save("broken", "{ main: function() return 1 ")
	var serr *codec.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("expected syntax error, got %v", err)
	}
	if reg.Has("broken") || len(rec.errors) != 1 {
		t.Fatalf("unexpected state: names=%v errors=%v", reg.Names(), rec.errors)
	}
}

func TestSaveKeepsContentWhenStoreFails(t *testing.T) {
	svc, reg, rec, _ := newService(t, &memStore{err: errors.New("disk full")})
	if err := svc.Save("greet", greet); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !reg.Has("greet") || len(rec.warns) != 1 || !strings.Contains(rec.warns[0], "disk full") {
		t.Fatalf("unexpected state: warns=%v", rec.warns)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	svc, _, _, _ := newService(t, nil)
	if err := svc.Save("greet", greet); err != nil {
		t.Fatal(err)
	}
	text, err := svc.Load("greet")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if text != greet {
		t.Fatalf("unexpected text:\n%s", text)
	}
	if text, err := svc.Load("missing"); text != "" || err != nil {
		t.Fatalf("expected empty load, got %q err=%v", text, err)
	}
}

func TestRunOnCanvas(t *testing.T) {
	svc, _, _, _ := newService(t, nil)
	c := widget.NewCanvas(3, 1)
	if err := svc.RunOnCanvas(`canvas.text(0, 0, "abc")`, c); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := c.Render(0, 0); got != "abc" {
		t.Fatalf("unexpected canvas %q", got)
	}
	var serr *script.ScriptError
	if err := svc.RunOnCanvas(`error("nope")`, c); !errors.As(err, &serr) {
		t.Fatalf("expected script error, got %v", err)
	}
	if err := svc.RunOnCanvas("  ", c); err == nil {
		t.Fatal("expected empty script error")
	}
	if got := c.Render(0, 0); got != "abc" {
		t.Fatalf("failed run changed canvas: %q", got)
	}
}
