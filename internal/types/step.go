// Package types defines the shared data model for the omni command engine.
package types

import "fmt"

// Condition controls whether a chain step runs, based on the outcome of the
// immediately preceding step in the same chain.
type Condition string

const (
	// ConditionAlways runs the step unconditionally.
	ConditionAlways Condition = "always"

	// ConditionOnSuccess runs the step only if the previous step succeeded.
	// Produced by the && operator and by | (a pipe only fires on success).
	ConditionOnSuccess Condition = "on-success"

	// ConditionOnFailure runs the step only if the previous step failed.
	// Produced by the || operator.
	ConditionOnFailure Condition = "on-failure"
)

// Valid reports whether c is one of the known conditions.
func (c Condition) Valid() bool {
	switch c {
	case ConditionAlways, ConditionOnSuccess, ConditionOnFailure:
		return true
	}
	return false
}

// Step is one element of a parsed command chain. Steps are transient: the
// chain parser produces them per invocation and they are never persisted.
type Step struct {
	// Command is the raw command string, without any chain operators.
	Command string `json:"command"`

	// Condition gates execution on the previous step's outcome.
	Condition Condition `json:"condition"`

	// ConsumesPipeInput marks a step introduced by the | operator: it
	// receives the previous step's captured stdout as input.
	ConsumesPipeInput bool `json:"consumes_pipe_input,omitempty"`
}

// String returns a compact debug representation of the step.
func (s Step) String() string {
	if s.ConsumesPipeInput {
		return fmt.Sprintf("%q (%s, pipe)", s.Command, s.Condition)
	}
	return fmt.Sprintf("%q (%s)", s.Command, s.Condition)
}
