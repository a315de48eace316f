package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input      string
		defaultYes bool
		want       bool
	}{
		{"y\n", false, true},
		{"yes\n", false, true},
		{"Y\n", false, true},
		{"n\n", true, false},
		{"no\n", true, false},
		{"\n", true, true},   // empty takes the default
		{"\n", false, false},
		{"whatever\n", true, false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := Confirm(&out, strings.NewReader(tt.input), "Delete flow?", tt.defaultYes)
		if err != nil {
			t.Fatalf("Confirm(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q, default=%v) = %v, want %v", tt.input, tt.defaultYes, got, tt.want)
		}
	}
}

func TestConfirm_PromptSuffix(t *testing.T) {
	var out bytes.Buffer
	if _, err := Confirm(&out, strings.NewReader("\n"), "Proceed?", false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "[y/N]") {
		t.Errorf("prompt = %q", out.String())
	}
}

func TestConfirm_EOFWithoutInput(t *testing.T) {
	var out bytes.Buffer
	if _, err := Confirm(&out, strings.NewReader(""), "Proceed?", false); err == nil {
		t.Error("expected error on empty input stream")
	}
}
