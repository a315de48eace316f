package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rule maps a command-line pattern to a canned response.
type Rule struct {
	// Match is the pattern applied to the full command line.
	Match string `yaml:"match"`

	// Type selects the match strategy: "contains" (default) or "regex".
	Type string `yaml:"type,omitempty"`

	// Stdout is printed verbatim on match.
	Stdout string `yaml:"stdout,omitempty"`

	// Stderr is printed to standard error on match.
	Stderr string `yaml:"stderr,omitempty"`

	// ExitCode is the process exit code. Zero is success.
	ExitCode int `yaml:"exit_code,omitempty"`

	// DelayMs holds the response back to simulate slow services.
	DelayMs int `yaml:"delay_ms,omitempty"`

	// FailFirst makes the first N invocations of this rule exit 1 before
	// succeeding, for exercising the retry path.
	FailFirst int `yaml:"fail_first,omitempty"`
}

// RuleSet is an ordered rule list with a fallback response.
type RuleSet struct {
	Rules   []Rule `yaml:"rules"`
	Default Rule   `yaml:"default"`
}

// LoadRules reads a rule set from a YAML file.
func LoadRules(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("reading rules: %w", err)
	}
	var rules RuleSet
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RuleSet{}, fmt.Errorf("parsing rules: %w", err)
	}
	return rules, nil
}

// DefaultRules covers the common service commands with plausible canned
// output, including structured pipe markers and JSON list output.
func DefaultRules() RuleSet {
	return RuleSet{
		Rules: []Rule{
			{
				Match:  "issues list --json",
				Stdout: `{"items":[{"name":"login bug","status":"open","priority":5},{"name":"dark mode","status":"closed","priority":1}]}` + "\n",
			},
			{
				Match:  "deck export",
				Stdout: `__PIPE__{"type":"file","path":"/tmp/deck-q3.png","caption":"Q3 deck"}` + "\n",
			},
			{
				Match:  "cal today",
				Stdout: "09:00 standup\n11:00 design review\n",
			},
			{
				Match:    "fail",
				Stderr:   "simulated failure\n",
				ExitCode: 1,
			},
		},
		Default: Rule{Stdout: "ok\n"},
	}
}
