package overlay

import (
	"errors"
	"testing"

	"github.com/dshills/linelight/internal/host"
	"github.com/dshills/linelight/internal/renderer/core"
	"github.com/dshills/linelight/internal/renderer/visual"
)

func band(w float64) *visual.Drawable {
	return visual.NewDrawable(w, 1, core.SolidBrush(core.ColorGray))
}

// lines is a fake layout: one unit-tall line per entry.
type lines struct {
	spans []host.Span
	top   float64
	valid map[int]bool
}

func (ls *lines) resolve(pos host.Position) (host.Line, bool) {
	for i, s := range ls.spans {
		if pos >= s.Start && pos <= s.End {
			if ls.valid != nil && !ls.valid[i] {
				return host.Line{}, false
			}
			top := float64(i) - ls.top
			return host.Line{Span: s, Number: i, Top: top, Bottom: top + 1, Right: float64(s.Len())}, true
		}
	}
	return host.Line{}, false
}

func TestNewLayer(t *testing.T) {
	l := NewLayer("CurrentLine")
	if l.Name() != "CurrentLine" {
		t.Errorf("Name() = %q", l.Name())
	}
	if l.Count() != 0 {
		t.Errorf("Count() = %d, want 0", l.Count())
	}
}

func TestLayerAddRemove(t *testing.T) {
	l := NewLayer("test")

	id, err := l.Add(TextRelative, host.Span{Start: 0, End: 5}, "a", band(10), core.NewRect(0, 0, 10, 1), nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if l.Count() != 1 {
		t.Errorf("Count() = %d, want 1", l.Count())
	}

	if !l.Remove(id) {
		t.Error("Remove should return true for existing adornment")
	}
	if l.Remove(id) {
		t.Error("Remove should return false for removed adornment")
	}
	if l.Count() != 0 {
		t.Errorf("Count() = %d, want 0 after remove", l.Count())
	}

	if _, err := l.Add(TextRelative, host.Span{}, "a", nil, core.Rect{}, nil); !errors.Is(err, ErrNilVisual) {
		t.Errorf("expected ErrNilVisual, got %v", err)
	}
}

func TestLayerRemoveByTag(t *testing.T) {
	l := NewLayer("test")
	for _, tag := range []string{"a", "b", "a", "c", "a"} {
		if _, err := l.Add(ViewportRelative, host.Span{}, tag, band(1), core.NewRect(0, 0, 1, 1), nil); err != nil {
			t.Fatal(err)
		}
	}

	before := l.Version()
	if n := l.RemoveByTag("a"); n != 3 {
		t.Errorf("RemoveByTag(a) = %d, want 3", n)
	}
	if l.Version() == before {
		t.Error("Version should change after removal")
	}
	if l.Count() != 2 {
		t.Errorf("Count() = %d, want 2", l.Count())
	}

	v := l.Version()
	if n := l.RemoveByTag("missing"); n != 0 {
		t.Errorf("RemoveByTag(missing) = %d, want 0", n)
	}
	if l.Version() != v {
		t.Error("no-op removal should not bump Version")
	}

	got := l.Adornments()
	if got[0].Tag != "b" || got[1].Tag != "c" {
		t.Errorf("remaining order = %q,%q; want b,c", got[0].Tag, got[1].Tag)
	}

	l.Clear()
	if l.Count() != 0 {
		t.Error("Clear should remove everything")
	}
	if s := l.Stats(); s.Adds != 5 || s.Removes != 5 {
		t.Errorf("Stats() = %+v, want 5 adds and 5 removes", s)
	}
}

func TestLayerRelayoutFollowsLine(t *testing.T) {
	ls := &lines{spans: []host.Span{{Start: 0, End: 9}, {Start: 10, End: 19}, {Start: 20, End: 29}}}
	l := NewLayer("test")

	line, _ := ls.resolve(12)
	bounds := core.NewRect(0, line.Top, 50, line.Bottom)
	if _, err := l.Add(TextRelative, line.Span, "hl", band(50), bounds, ls.resolve); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Add(ViewportRelative, host.Span{}, "fixed", band(5), core.NewRect(0, 0, 5, 1), nil); err != nil {
		t.Fatal(err)
	}

	// Scroll down one line: everything moves up by one unit.
	ls.top = 1
	l.Relayout(ls.resolve)

	got := l.ByTag("hl")
	if len(got) != 1 {
		t.Fatalf("ByTag(hl) len = %d, want 1", len(got))
	}
	if got[0].Bounds != core.NewRect(0, 0, 50, 1) {
		t.Errorf("Bounds after scroll = %v, want top 0", got[0].Bounds)
	}
	if fixed := l.ByTag("fixed"); fixed[0].Bounds != core.NewRect(0, 0, 5, 1) {
		t.Errorf("viewport-relative adornment moved to %v", fixed[0].Bounds)
	}
	if l.Stats().Moves != 1 {
		t.Errorf("Moves = %d, want 1", l.Stats().Moves)
	}

	// Same layout again is a no-op.
	v := l.Version()
	l.Relayout(ls.resolve)
	if l.Version() != v {
		t.Error("unchanged layout should not bump Version")
	}
}

func TestLayerRelayoutDropsUnformattedLines(t *testing.T) {
	ls := &lines{spans: []host.Span{{Start: 0, End: 9}, {Start: 10, End: 19}}}
	l := NewLayer("test")

	if _, err := l.Add(TextRelative, host.Span{Start: 10, End: 19}, "hl", band(5), core.NewRect(0, 1, 5, 2), ls.resolve); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Add(OwnerControlled, host.Span{Start: 10, End: 19}, "owned", band(5), core.NewRect(0, 1, 5, 2), ls.resolve); err != nil {
		t.Fatal(err)
	}

	ls.valid = map[int]bool{0: true}
	l.Relayout(ls.resolve)

	if len(l.ByTag("hl")) != 0 {
		t.Error("text-relative adornment on a line that left the layout should be removed")
	}
	if len(l.ByTag("owned")) != 1 {
		t.Error("owner-controlled adornment must survive relayout")
	}
}

func TestLayerTrackEdit(t *testing.T) {
	l := NewLayer("test")
	add := func(tag string, b Behavior, span host.Span) {
		t.Helper()
		if _, err := l.Add(b, span, tag, band(5), core.NewRect(0, 0, 5, 1), nil); err != nil {
			t.Fatal(err)
		}
	}
	add("before", TextRelative, host.Span{Start: 0, End: 4})
	add("after", TextRelative, host.Span{Start: 10, End: 19})
	add("inside", TextRelative, host.Span{Start: 6, End: 8})
	add("owned", OwnerControlled, host.Span{Start: 10, End: 19})

	// Replace [5,9) with a single position.
	l.TrackEdit(5, 4, 1)

	want := map[string]host.Span{
		"before": {Start: 0, End: 4},
		"after":  {Start: 7, End: 16},
		"inside": {Start: 5, End: 5},
		"owned":  {Start: 10, End: 19},
	}
	for tag, span := range want {
		if got := l.ByTag(tag)[0].Span; got != span {
			t.Errorf("%s span = %v, want %v", tag, got, span)
		}
	}

	// An insertion right at an adornment's start pushes it along.
	l.TrackEdit(7, 0, 3)
	if got := l.ByTag("after")[0].Span; got != (host.Span{Start: 10, End: 19}) {
		t.Errorf("after span = %v, want [10,19)", got)
	}
}

func TestAdapterSwapKeepsSingleTaggedAdornment(t *testing.T) {
	ls := &lines{spans: []host.Span{{Start: 0, End: 9}, {Start: 10, End: 19}}}
	l := NewLayer("test")
	a := NewAdapter(l, ls.resolve)

	if a.Present("hl") {
		t.Error("Present should be false on empty layer")
	}

	for i := 0; i < 4; i++ {
		line, _ := ls.resolve(host.Position(i * 10 % 20))
		if err := a.Swap("hl", line.Span, core.NewRect(0, line.Top, 98, line.Bottom), band(98)); err != nil {
			t.Fatalf("Swap failed: %v", err)
		}
		if n := len(l.ByTag("hl")); n != 1 {
			t.Fatalf("after swap %d: %d tagged adornments, want 1", i, n)
		}
	}
	if !a.Present("hl") {
		t.Error("Present should be true after Swap")
	}

	// Other tags are untouched.
	if _, err := l.Add(ViewportRelative, host.Span{}, "other", band(1), core.NewRect(0, 0, 1, 1), nil); err != nil {
		t.Fatal(err)
	}
	a.Clear("hl")
	if a.Present("hl") {
		t.Error("Clear should remove tagged adornment")
	}
	if l.Count() != 1 {
		t.Errorf("Count() = %d, want 1 (other tag kept)", l.Count())
	}
	if a.Layer() != l {
		t.Error("Layer() should return wrapped layer")
	}
}

func TestBehaviorString(t *testing.T) {
	tests := map[Behavior]string{
		TextRelative:     "text-relative",
		ViewportRelative: "viewport-relative",
		OwnerControlled:  "owner-controlled",
		Behavior(99):     "unknown",
	}
	for b, want := range tests {
		if got := b.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", b, got, want)
		}
	}
}
