package types

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// CommandTemplate is a stored command string with $1..$N positional
// placeholders. Templates are immutable once stored.
type CommandTemplate string

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// Substitute replaces $1..$N placeholders with the given positional
// arguments. Placeholders without a matching argument are left as literal
// text.
func (t CommandTemplate) Substitute(args []string) string {
	return placeholderRe.ReplaceAllStringFunc(string(t), func(m string) string {
		n, err := strconv.Atoi(m[1:])
		if err != nil || n < 1 || n > len(args) {
			return m
		}
		return args[n-1]
	})
}

// Flow is a named macro: an ordered list of command templates run as one
// chain. Flows are persisted by the flow store.
type Flow struct {
	// Name identifies the flow. Unique within a store.
	Name string `yaml:"name" json:"name"`

	// Commands are the ordered templates executed when the flow runs.
	Commands []CommandTemplate `yaml:"commands" json:"commands"`

	// CreatedAt records when the flow was first stored.
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`

	// UpdatedAt records the last add/remove of a command.
	UpdatedAt time.Time `yaml:"updated_at" json:"updated_at"`
}

// Validate checks structural invariants before the flow is stored.
func (f *Flow) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("flow name is empty")
	}
	if len(f.Commands) == 0 {
		return fmt.Errorf("flow %q has no commands", f.Name)
	}
	for i, cmd := range f.Commands {
		if cmd == "" {
			return fmt.Errorf("flow %q command %d is empty", f.Name, i)
		}
	}
	return nil
}

// Render substitutes args into every template, preserving order.
func (f *Flow) Render(args []string) []string {
	rendered := make([]string, len(f.Commands))
	for i, cmd := range f.Commands {
		rendered[i] = cmd.Substitute(args)
	}
	return rendered
}
