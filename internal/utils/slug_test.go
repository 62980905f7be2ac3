package utils

import (
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Trimmed  Title  ", "trimmed-title"},
		{"Go 1.25 released!", "go-1-25-released"},
		{"already-a-slug", "already-a-slug"},
		{"MiXeD CaSe", "mixed-case"},
		{"trailing punctuation...", "trailing-punctuation"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStringToUint(t *testing.T) {
	if got := StringToUint("12"); got != 12 {
		t.Errorf("Expected 12, got %d", got)
	}
	if got := StringToUint("-5"); got != 0 {
		t.Errorf("Expected 0 for negative input, got %d", got)
	}
	if got := StringToUint("abc"); got != 0 {
		t.Errorf("Expected 0 for junk input, got %d", got)
	}
}
