package preprocess

import "testing"

func TestExpandTabsBasic(t *testing.T) {
	cursor := 0
	got := ExpandTabs("a\tb", 4, &cursor)
	want := "a   b"
	if got != want {
		t.Errorf("ExpandTabs = %q, want %q", got, want)
	}
	if cursor != 5 {
		t.Errorf("cursor = %d, want 5", cursor)
	}
}

func TestExpandTabsZeroWidthDisabled(t *testing.T) {
	cursor := 0
	line := "a\tb"
	got := ExpandTabs(line, 0, &cursor)
	if got != line {
		t.Errorf("ExpandTabs with tabWidth=0 = %q, want unchanged %q", got, line)
	}
}

func TestExpandTabsAnsiZeroWidth(t *testing.T) {
	cursor := 0
	line := "\x1b[31mred\x1b[0m\ttext"
	got := ExpandTabs(line, 4, &cursor)
	want := "\x1b[31mred\x1b[0m text"
	if got != want {
		t.Errorf("ExpandTabs = %q, want %q", got, want)
	}
}

func TestExpandTabsMinimumOneSpace(t *testing.T) {
	cursor := 3
	got := ExpandTabs("\t", 4, &cursor)
	if got != " " {
		t.Errorf("ExpandTabs at column 3/width 4 = %q, want single space", got)
	}
	if cursor != 4 {
		t.Errorf("cursor = %d, want 4", cursor)
	}
}
