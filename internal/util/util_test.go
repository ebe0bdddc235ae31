package util

import (
	"regexp"
	"testing"
)

func TestNewEnterpriseID(t *testing.T) {
	pattern := regexp.MustCompile(`^enterprise_\d+_[a-z0-9]{9}$`)

	first := NewEnterpriseID()
	if !pattern.MatchString(first) {
		t.Errorf("unexpected ID shape: %q", first)
	}
	second := NewEnterpriseID()
	if first == second {
		t.Errorf("consecutive IDs collided: %q", first)
	}
}

func TestSanitizeUTF8(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean passes through", "质量手册", "质量手册"},
		{"nul bytes dropped", "a\x00b", "ab"},
		{"invalid sequences dropped", "a\xffb", "ab"},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeUTF8(tt.input); got != tt.want {
				t.Errorf("SanitizeUTF8(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("short string changed: %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("got %q", got)
	}
	if got := Truncate("质量手册内容", 2); got != "质量..." {
		t.Errorf("rune-based truncation wrong: %q", got)
	}
}
