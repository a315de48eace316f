package types

import (
	"reflect"
	"testing"
)

func TestCommandTemplate_Substitute(t *testing.T) {
	tests := []struct {
		template string
		args     []string
		want     string
	}{
		{"msg send --to $1 $2", []string{"team", "hi"}, "msg send --to team hi"},
		{"cal add $1", nil, "cal add $1"},                  // unmatched stays literal
		{"a $1 b $1", []string{"x"}, "a x b x"},            // repeated placeholder
		{"deck $2 $1", []string{"one", "two"}, "deck two one"},
		{"pay $10", []string{"a", "b"}, "pay $10"},          // $10 has no tenth arg
		{"no placeholders", []string{"x"}, "no placeholders"},
	}
	for _, tt := range tests {
		if got := CommandTemplate(tt.template).Substitute(tt.args); got != tt.want {
			t.Errorf("Substitute(%q, %v) = %q, want %q", tt.template, tt.args, got, tt.want)
		}
	}
}

func TestFlow_Validate(t *testing.T) {
	f := &Flow{Name: "morning", Commands: []CommandTemplate{"cal today"}}
	if err := f.Validate(); err != nil {
		t.Errorf("valid flow rejected: %v", err)
	}

	if err := (&Flow{Commands: []CommandTemplate{"x"}}).Validate(); err == nil {
		t.Error("unnamed flow accepted")
	}
	if err := (&Flow{Name: "empty"}).Validate(); err == nil {
		t.Error("flow without commands accepted")
	}
	if err := (&Flow{Name: "blank", Commands: []CommandTemplate{""}}).Validate(); err == nil {
		t.Error("flow with empty command accepted")
	}
}

func TestFlow_Render(t *testing.T) {
	f := &Flow{Name: "report", Commands: []CommandTemplate{
		"issues list --assignee $1",
		"msg send --to $1 $2",
	}}
	got := f.Render([]string{"bo", "done"})
	want := []string{"issues list --assignee bo", "msg send --to bo done"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Render = %v, want %v", got, want)
	}
}
