package host

import "testing"

func TestSpan(t *testing.T) {
	s := NewSpan(9, 2)
	if s.Start != 2 || s.End != 9 {
		t.Errorf("NewSpan should order bounds, got %v", s)
	}
	if s.Len() != 7 {
		t.Errorf("Len() = %d, want 7", s.Len())
	}
	if !s.Contains(2) || s.Contains(9) {
		t.Error("Contains should be half-open")
	}
	if s.String() != "[2,9)" {
		t.Errorf("String() = %q", s.String())
	}
}

func TestLineContainsPosition(t *testing.T) {
	tests := []struct {
		name string
		line Line
		pos  Position
		want bool
	}{
		{"start", Line{Span: Span{10, 20}, BreakLen: 1}, 10, true},
		{"end of text", Line{Span: Span{10, 20}, BreakLen: 1}, 20, true},
		{"next line", Line{Span: Span{10, 20}, BreakLen: 1}, 21, false},
		{"before", Line{Span: Span{10, 20}, BreakLen: 1}, 9, false},
		{"crlf second byte", Line{Span: Span{10, 20}, BreakLen: 2}, 21, true},
		{"crlf next line", Line{Span: Span{10, 20}, BreakLen: 2}, 22, false},
		{"last line end", Line{Span: Span{10, 20}}, 20, true},
		{"empty line", Line{Span: Span{5, 5}, BreakLen: 1}, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.line.ContainsPosition(tt.pos); got != tt.want {
				t.Errorf("ContainsPosition(%d) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestViewportAndSelection(t *testing.T) {
	vp := Viewport{Left: 15, Width: 100}
	if vp.Right() != 115 {
		t.Errorf("Right() = %g, want 115", vp.Right())
	}

	sel := Selection{Start: 12, End: 4}
	if sel.IsEmpty() {
		t.Error("selection should not be empty")
	}
	if sel.Span() != (Span{4, 12}) {
		t.Errorf("Span() = %v", sel.Span())
	}
	if !(Selection{Start: 3, End: 3}).IsEmpty() {
		t.Error("collapsed selection should be empty")
	}
}
