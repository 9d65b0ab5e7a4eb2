package parser

import (
	"reflect"
	"testing"
	"time"

	"github.com/starford/todobuddy/internal/models"
)

func noteWith(path string, lines ...string) *models.Note {
	n := models.NewNote(path, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), nil, nil)
	n.SetLines(lines)
	return n
}

func TestTags_WikiThenHash(t *testing.T) {
	s := NewScanner("", 0)
	got := s.Tags("see [[Garden]] and #compost, also #Garden")
	want := []string{"Garden", "compost"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}
}

func TestTags_HashAtLineStart(t *testing.T) {
	got := NewScanner("", 0).Tags("#inbox call the bank")
	if len(got) != 1 || got[0] != "inbox" {
		t.Errorf("tags = %v, want [inbox]", got)
	}
}

func TestTags_HashExclusions(t *testing.T) {
	cases := []string{
		"http://example.com/page#section",
		"[link](#anchor)",
		"word#notatag",
		"issue (#12)",
		"[[#heading-link]]x",
		"#1st starts with a digit",
	}
	s := NewScanner("", 0)
	for _, line := range cases {
		for _, tag := range s.Tags(line) {
			if tag != "#heading-link" {
				t.Errorf("line %q: unexpected tag %q", line, tag)
			}
		}
	}
}

func TestTags_IdentifierStopsAtPunctuation(t *testing.T) {
	got := NewScanner("", 0).Tags("ask about #budget: numbers, #q3.review and #bob's")
	want := []string{"budget", "q3", "bob"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}
}

func TestTags_FilterIsCaseInsensitivePrefix(t *testing.T) {
	s := NewScanner("garden", 0)
	if got := s.Tags("[[GARDEN plans, unclosed"); !reflect.DeepEqual(got, []string{"GARDEN"}) {
		t.Errorf("wiki prefix tags = %v", got)
	}
	if got := s.Tags("water the #Garden today"); !reflect.DeepEqual(got, []string{"Garden"}) {
		t.Errorf("hash tags = %v", got)
	}
	if got := s.Tags("#other [[else]]"); len(got) != 0 {
		t.Errorf("filtered scanner returned %v", got)
	}
}

func TestScan_DescendantsFlattenedToLevelOne(t *testing.T) {
	n := noteWith("notes.md",
		"- plan [[garden]]",
		"\t- dig beds",
		"",
		"\t\t- buy shovel",
		"    - water",
		"- next topic",
		"\t- not included",
	)
	got := NewScanner("", 4).Scan(n)
	want := []Occurrence{
		{Tag: "garden", Slug: "notes", Line: 1, Level: 0, Text: "- plan [[garden]]"},
		{Tag: "garden", Slug: "notes", Line: 2, Level: 1, Text: "- dig beds"},
		{Tag: "garden", Slug: "notes", Line: 4, Level: 1, Text: "- buy shovel"},
		{Tag: "garden", Slug: "notes", Line: 5, Level: 1, Text: "- water"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("occurrences =\n%+v\nwant\n%+v", got, want)
	}
}

func TestScan_WhitespaceOnlyLinesDoNotTerminate(t *testing.T) {
	n := noteWith("n.md", "#a", "   ", "\t", "  child")
	got := NewScanner("", 4).Scan(n)
	if len(got) != 2 || got[1].Text != "child" {
		t.Errorf("occurrences = %+v", got)
	}
}

func TestScan_DoneLinesSkippedButWindowContinues(t *testing.T) {
	n := noteWith("n.md",
		"  - [ ] project #work",
		"      - [x] finished step #work",
		"      - open step",
		"  - sibling",
	)
	got := NewScanner("", 4).Scan(n)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	if got[0].Text != "- [ ] project #work" || got[1].Text != "- open step" {
		t.Errorf("occurrences = %+v", got)
	}
}

func TestScan_DoneOwnerNotScanned(t *testing.T) {
	n := noteWith("n.md", "- [x] shipped #release", "- [/] later #release", "DONE old #release")
	if got := NewScanner("", 4).Scan(n); len(got) != 0 {
		t.Errorf("expected nothing, got %+v", got)
	}
}

func TestScan_SelfReferenceSuppressed(t *testing.T) {
	n := noteWith("garden.md", "- see [[Garden]] and #compost", "\t- child")
	got := NewScanner("", 4).Scan(n)
	for _, o := range got {
		if o.Tag == "Garden" {
			t.Errorf("self reference recorded: %+v", o)
		}
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2 (compost owner + child)", len(got))
	}
}

func TestScan_DoesNotMutateNote(t *testing.T) {
	lines := []string{"\t#a", "\t\tchild"}
	n := noteWith("n.md", lines...)
	_ = NewScanner("", 4).Scan(n)
	if !reflect.DeepEqual(n.Lines(), []string{"\t#a", "\t\tchild"}) {
		t.Errorf("note mutated: %q", n.Lines())
	}
}
