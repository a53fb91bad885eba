package topic

import "testing"

func TestTopicMatches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"view.layout.changed", "view.layout.changed", true},
		{"view.layout.changed", "view.layout", false},
		{"view.changed", "view.*", true},
		{"view.layout.changed", "view.*", false},
		{"view.layout.changed", "view.**", true},
		{"view", "view.**", true},
		{"view.viewport.width.changed", "view.viewport.*.changed", true},
		{"view.viewport.left.changed", "view.viewport.*.changed", true},
		{"view.viewport.changed", "view.viewport.*.changed", false},
		{"anything.at.all", "**", true},
		{"view.caret.moved", "*.caret.*", true},
		{"view.caret.moved", "*.selection.*", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.topic)+"~"+string(tt.pattern), func(t *testing.T) {
			if got := tt.topic.Matches(tt.pattern); got != tt.want {
				t.Errorf("%q.Matches(%q) = %v, want %v", tt.topic, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestTopicIsValid(t *testing.T) {
	valid := []Topic{"view", "view.layout.changed", "view.*"}
	for _, tp := range valid {
		if !tp.IsValid() {
			t.Errorf("%q should be valid", tp)
		}
	}

	invalid := []Topic{"", ".view", "view.", "view..changed"}
	for _, tp := range invalid {
		if tp.IsValid() {
			t.Errorf("%q should be invalid", tp)
		}
	}
}

func TestTopicHelpers(t *testing.T) {
	if got := Topic("view").Child("caret").Child("moved"); got != "view.caret.moved" {
		t.Errorf("Child() = %q", got)
	}
	if got := Topic("").Child("view"); got != "view" {
		t.Errorf("Child() on empty = %q", got)
	}
	if got := Join("view", "formatmap", "changed"); got != "view.formatmap.changed" {
		t.Errorf("Join() = %q", got)
	}
	if n := len(Topic("a.b.c").Segments()); n != 3 {
		t.Errorf("Segments() len = %d, want 3", n)
	}
	if Topic("").Segments() != nil {
		t.Error("empty topic should have nil segments")
	}
}
