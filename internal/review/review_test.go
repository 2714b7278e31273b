package review

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/gender"
)

func TestConfirmGender(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  gender.Verdict
	}{
		{"female short", "f\n", gender.Female},
		{"male long", "Male\n", gender.Male},
		{"non-binary", "nb\n", gender.NonBinary},
		{"unknown", "u\n", gender.Unknown},
		{"blank line defaults to unknown", "\n", gender.Unknown},
		{"retries until valid", "x\nwhat\nf\n", gender.Female},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			term := NewTerminal(strings.NewReader(tt.input), &out)

			got, err := term.ConfirmGender("Jane Doe")
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ConfirmGender = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "Jane Doe") {
				t.Error("prompt should include the name under review")
			}
		})
	}

	t.Run("exhausted input returns EOF", func(t *testing.T) {
		term := NewTerminal(strings.NewReader("x\n"), io.Discard)
		if _, err := term.ConfirmGender("Jane Doe"); !errors.Is(err, io.EOF) {
			t.Errorf("error = %v, want io.EOF", err)
		}
	})
}

func TestConfirmRemoval(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"Y\n", true},
		{"n\n", false},
		{"\n", false},
		{"whatever\n", false},
	}

	for _, tt := range tests {
		term := NewTerminal(strings.NewReader(tt.input), io.Discard)
		got, err := term.ConfirmRemoval("Some Title (2021)")
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("ConfirmRemoval(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
