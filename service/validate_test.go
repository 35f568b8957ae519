package service

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "My Project", "My Project"},
		{"trims", "  padded  ", "padded"},
		{"collapses whitespace", "a \t b\n\nc", "a b c"},
		{"strips line breaks", "line\nbreak", "line break"},
		{"keeps punctuation and numbers", "Meeting #3, Q2!", "Meeting #3, Q2!"},
		{"strips symbols", "name\x00with\acontrols", "namewithcontrols"},
		{"keeps accented letters", "résumé naïve", "résumé naïve"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitize(tt.in); got != tt.want {
				t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateFields(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		name, desc, err := validateFields(" My Project ", " a  description ")
		if err != nil {
			t.Fatalf("validateFields() error = %v", err)
		}
		if name != "My Project" || desc != "a description" {
			t.Errorf("got (%q, %q)", name, desc)
		}
	})

	t.Run("empty description allowed", func(t *testing.T) {
		if _, _, err := validateFields("p", ""); err != nil {
			t.Errorf("validateFields() error = %v", err)
		}
	})

	tests := []struct {
		name        string
		projectName string
		description string
	}{
		{"missing name", "", ""},
		{"name only symbols", "\x00\x01", ""},
		{"name too long", strings.Repeat("a", 26), ""},
		{"description too long", "p", strings.Repeat("b", 301)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := validateFields(tt.projectName, tt.description)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("validateFields() error = %v, want ErrValidation", err)
			}
		})
	}
}
