package parser

import (
	"reflect"
	"testing"
)

func TestParseFrontmatter_SplitsOnFirstColon(t *testing.T) {
	lines := []string{"---", "title: Notes: day one", "created: 2024-05-01", "no pair here", "---", "", "body"}
	fm, end := ParseFrontmatter(lines)
	if end != 4 {
		t.Fatalf("end = %d, want 4", end)
	}
	if v, _ := fm.Get("title"); v != "Notes: day one" {
		t.Errorf("title = %q", v)
	}
	if fm.Len() != 2 {
		t.Errorf("len = %d, want 2", fm.Len())
	}
}

func TestParseFrontmatter_Absent(t *testing.T) {
	fm, end := ParseFrontmatter([]string{"# heading", "---", "x: y", "---"})
	if end != -1 || fm.Len() != 0 {
		t.Errorf("expected empty frontmatter, got end=%d len=%d", end, fm.Len())
	}
}

func TestParseFrontmatter_Unterminated(t *testing.T) {
	fm, end := ParseFrontmatter([]string{"---", "x: y", "body"})
	if end != -1 || fm.Len() != 0 {
		t.Errorf("expected empty frontmatter, got end=%d len=%d", end, fm.Len())
	}
}

func TestStripFrontmatter_DropsOneBlankLine(t *testing.T) {
	got := StripFrontmatter([]string{"---", "a: b", "---", "", "", "body"})
	if !reflect.DeepEqual(got, []string{"", "body"}) {
		t.Errorf("got %q", got)
	}
	if got := StripFrontmatter([]string{"body"}); !reflect.DeepEqual(got, []string{"body"}) {
		t.Errorf("got %q", got)
	}
}

func TestBody(t *testing.T) {
	got := Body([]string{"---", "a: b", "---", "", "body"})
	if !reflect.DeepEqual(got, []string{"", "body"}) {
		t.Errorf("got %q", got)
	}
}

func TestRenderFrontmatter_KeepsInsertionOrder(t *testing.T) {
	fm := NewFrontmatter()
	fm.Set("zeta", "1")
	fm.Set("alpha", "2")
	got := RenderFrontmatter(fm)
	want := []string{"---", "zeta: 1", "alpha: 2", "---", ""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}
