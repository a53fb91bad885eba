package theme

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/linelight/internal/event"
	"github.com/dshills/linelight/internal/host"
	"github.com/dshills/linelight/internal/renderer/core"
)

func newRecordingFormatMap(t *testing.T, theme *Theme) (*FormatMap, *[]host.FormatMapChanged) {
	t.Helper()

	bus := event.NewBus()
	if err := bus.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	var got []host.FormatMapChanged
	_, err := event.SubscribePayload(bus, host.TopicFormatMapChanged, func(_ context.Context, c host.FormatMapChanged) error {
		got = append(got, c)
		return nil
	})
	if err != nil {
		t.Fatalf("SubscribePayload() failed: %v", err)
	}
	return NewFormatMap(theme, event.NewPublisher(bus, "test")), &got
}

func TestFormatMapBrushes(t *testing.T) {
	m := NewFormatMap(LightTheme(), nil)

	b, ok := m.Brush(CategoryCurrentLine)
	if !ok {
		t.Fatal("CurrentLine category missing")
	}
	if !b.Equals(core.NewBrush(core.ColorBlue, 0x20)) {
		t.Errorf("CurrentLine brush = %v, want #0000FF@32", b)
	}

	if _, ok := m.Brush("Nope"); ok {
		t.Error("unknown category should not resolve")
	}

	want := []string{CategoryCaret, CategoryCurrentLine, CategorySelection, CategoryText}
	if diff := cmp.Diff(want, m.Categories()); diff != "" {
		t.Errorf("Categories() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatMapNilTheme(t *testing.T) {
	m := NewFormatMap(nil, nil)
	if m.Theme().Name != "Default Dark" {
		t.Errorf("nil theme should fall back to default, got %q", m.Theme().Name)
	}
	if err := m.SetTheme(context.Background(), nil); !errors.Is(err, ErrNilTheme) {
		t.Errorf("SetTheme(nil) = %v, want ErrNilTheme", err)
	}
}

func TestFormatMapSetThemeAnnouncesAll(t *testing.T) {
	m, got := newRecordingFormatMap(t, DefaultTheme())

	if err := m.SetTheme(context.Background(), LightTheme()); err != nil {
		t.Fatalf("SetTheme() failed: %v", err)
	}
	if len(*got) != 1 {
		t.Fatalf("expected 1 change event, got %d", len(*got))
	}
	if cats := (*got)[0].Categories; len(cats) != 0 {
		t.Errorf("theme switch should announce every category, got %v", cats)
	}

	b, _ := m.Brush(CategoryCurrentLine)
	if !b.Equals(LightTheme().LineHighlightBrush()) {
		t.Errorf("brush after SetTheme = %v", b)
	}
}

func TestFormatMapSet(t *testing.T) {
	m, got := newRecordingFormatMap(t, DefaultTheme())
	ctx := context.Background()
	red := core.NewBrush(core.ColorRed, 64)

	if err := m.Set(ctx, CategoryCurrentLine, red); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := m.Set(ctx, CategoryCurrentLine, red); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	want := []host.FormatMapChanged{{Categories: []string{CategoryCurrentLine}}}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	// Overrides survive a theme switch.
	if err := m.SetTheme(ctx, MonokaiTheme()); err != nil {
		t.Fatalf("SetTheme() failed: %v", err)
	}
	if b, _ := m.Brush(CategoryCurrentLine); !b.Equals(red) {
		t.Errorf("override lost after SetTheme: %v", b)
	}

	if err := m.Reset(ctx, CategoryCurrentLine); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if b, _ := m.Brush(CategoryCurrentLine); !b.Equals(MonokaiTheme().LineHighlightBrush()) {
		t.Errorf("Reset should restore theme brush, got %v", b)
	}
	if len(*got) != 3 {
		t.Errorf("expected 3 events, got %d", len(*got))
	}

	if err := m.Reset(ctx, CategoryCurrentLine); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if len(*got) != 3 {
		t.Error("resetting a category without override should announce nothing")
	}
}
