package checksum

import "testing"

func TestJoin_TrailingNewline(t *testing.T) {
	if got := Join([]string{"a", "", "b"}); got != "a\n\nb\n" {
		t.Errorf("Join = %q", got)
	}
	if got := Join(nil); got != "" {
		t.Errorf("Join(nil) = %q, want empty", got)
	}
}

func TestLines_MatchesSumOfJoined(t *testing.T) {
	lines := []string{"# diary", "- [ ] task"}
	if Lines(lines) != Sum([]byte("# diary\n- [ ] task\n")) {
		t.Error("Lines digest differs from Sum of joined content")
	}
	if Lines(lines) == Lines([]string{"# diary"}) {
		t.Error("different content produced the same digest")
	}
}
