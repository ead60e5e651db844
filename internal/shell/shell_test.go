package shell

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"contentboard/internal/location"
	"contentboard/internal/script"
)

func TestMountClearsWidgets(t *testing.T) {
	s := New()
	s.Mount(location.RegionMain, "hello")
	s.Attach(location.RegionMain, "canvas")
	s.Attach(location.RegionMain, "canvas")
	if got := s.Widgets(location.RegionMain); len(got) != 1 || got[0] != "canvas" {
		t.Fatalf("unexpected widgets %v", got)
	}
	s.Mount(location.RegionMain, "again")
	if len(s.Widgets(location.RegionMain)) != 0 || s.HasWidget("canvas") {
		t.Fatal("mount must clear attached widgets")
	}
	if s.Snapshot(location.RegionMain) != "again" {
		t.Fatalf("unexpected body %q", s.Snapshot(location.RegionMain))
	}
}

func TestSnapshotSeesMutations(t *testing.T) {
	s := New()
	s.Mount(location.RegionSide, "line 1")
	s.Append(location.RegionSide, "line 2")
	if got := s.Snapshot(location.RegionSide); got != "line 1\nline 2" {
		t.Fatalf("unexpected snapshot %q", got)
	}
	s.Set(location.RegionSide, "replaced")
	if got := s.Snapshot(location.RegionSide); got != "replaced" {
		t.Fatalf("unexpected snapshot %q", got)
	}
}

func TestBindingFromLua(t *testing.T) {
	s := New()
	s.Mount(location.RegionMain, "# Title")
	env := script.NewEnv()
	env.Set("shell", s.Binding([]string{"canvas"}))

	hook := script.New(`function()
  shell.attach("main", "canvas")
  shell.append("main", "drawn: " .. shell.text("main"))
end`)
	if err := hook.Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !s.HasWidget("canvas") {
		t.Fatal("expected canvas to be attached")
	}
	if got := s.Snapshot(location.RegionMain); got != "# Title\ndrawn: # Title" {
		t.Fatalf("unexpected body %q", got)
	}

	bad := script.New(`function() shell.attach("main", "nope") end`)
	if err := bad.Execute(env); err == nil || !strings.Contains(err.Error(), "unknown widget") {
		t.Fatalf("expected unknown widget error, got %v", err)
	}
	badRegion := script.New(`function() shell.set("footer", "x") end`)
	if err := badRegion.Execute(env); err == nil {
		t.Fatal("expected unknown region error")
	}
}

func TestModalIsExclusive(t *testing.T) {
	m := &Modal{}
	x := ModalContent{Kind: ModalMessage, Title: "X"}
	y := ModalContent{Kind: ModalMessage, Title: "Y"}
	if !m.Open(x) {
		t.Fatal("first open should succeed")
	}
	if m.Open(y) {
		t.Fatal("second open must be refused")
	}
	if m.Content().Title != "X" {
		t.Fatalf("content replaced: %+v", m.Content())
	}
	if !m.Close() || m.Close() {
		t.Fatal("close should succeed once")
	}
	if m.IsOpen() || m.Content().Title != "X" {
		t.Fatal("content stays mounted after close")
	}
	if !m.Open(y) || m.Content().Title != "Y" {
		t.Fatal("reopen should replace content")
	}
}

func TestComputeLayout(t *testing.T) {
	cases := []struct {
		width, height int
		main, side    int
	}{
		{width: 121, height: 40, main: 80, side: 40},
		{width: 60, height: 30, main: 39, side: 20},
	}
	for _, c := range cases {
		l := ComputeLayout(c.width, c.height, 4)
		if l.Stacked || l.MainWidth != c.main || l.SideWidth != c.side {
			t.Fatalf("ComputeLayout(%d) = %+v", c.width, l)
		}
		if l.MainWidth+columnGap+l.SideWidth > c.width {
			t.Fatalf("columns overflow a %d-column terminal: %+v", c.width, l)
		}
	}
	if l := ComputeLayout(100, 5, 4); l.BodyHeight != minBodyHeight {
		t.Fatalf("expected minimum body height, got %d", l.BodyHeight)
	}
}

func TestComputeLayoutStacksOnNarrowTerminals(t *testing.T) {
	cases := []struct{ width, height int }{
		{width: 40, height: 60},
		{width: 40, height: 20},
		{width: 80, height: 100},
	}
	for _, c := range cases {
		l := ComputeLayout(c.width, c.height, 3)
		if !l.Stacked {
			t.Fatalf("ComputeLayout(%d, %d) should stack: %+v", c.width, c.height, l)
		}
		if l.MainWidth != c.width || l.SideWidth != c.width {
			t.Fatalf("stacked panels should use the full width: %+v", l)
		}
		if l.MainHeight+l.SideHeight > c.height-3 {
			t.Fatalf("panels overflow %d rows: %+v", c.height, l)
		}
		if l.MainHeight < l.SideHeight {
			t.Fatalf("main should get the larger share: %+v", l)
		}
	}
	l := ComputeLayout(40, 60, 3)
	if l.MainHeight != 38 || l.SideHeight != 19 {
		t.Fatalf("unexpected split %+v", l)
	}
}

func TestOverlayCentersBox(t *testing.T) {
	base := strings.Repeat("│"+strings.Repeat(".", 18)+"│\n", 5)
	out := Overlay(base, "BOX", 20, 5)
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[2], "BOX") {
		t.Fatalf("expected box on the middle row, got %q", lines[2])
	}
	if !strings.HasPrefix(lines[0], "┆") {
		t.Fatalf("expected softened border, got %q", lines[0])
	}
	for i, l := range lines {
		if w := ansi.StringWidth(l); w != 20 {
			t.Fatalf("line %d width %d", i, w)
		}
	}
}

func TestFitLinesAndTruncate(t *testing.T) {
	got := FitLines([]string{"a", "b", "c"}, 2)
	if strings.Join(got, ",") != "a,~" {
		t.Fatalf("unexpected fit %v", got)
	}
	if got := FitLines([]string{"a"}, 3); len(got) != 3 {
		t.Fatalf("expected padding, got %v", got)
	}
	if got := Truncate("abcdef", 4); got != "abc~" {
		t.Fatalf("unexpected truncate %q", got)
	}
}
