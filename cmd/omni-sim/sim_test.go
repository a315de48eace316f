package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestSim(rules RuleSet) (*Simulator, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	sim := &Simulator{
		Rules:  rules,
		Stdout: &stdout,
		Stderr: &stderr,
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	}
	return sim, &stdout, &stderr
}

func TestRespond_MatchesFirstRule(t *testing.T) {
	sim, stdout, _ := newTestSim(DefaultRules())

	code := sim.Respond("issues list --json")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout.String(), `"login bug"`) {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRespond_StructuredPipeOutput(t *testing.T) {
	sim, stdout, _ := newTestSim(DefaultRules())

	sim.Respond("deck export q3")
	if !strings.HasPrefix(stdout.String(), "__PIPE__{") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRespond_FallsBackToDefault(t *testing.T) {
	sim, stdout, _ := newTestSim(DefaultRules())

	code := sim.Respond("pay balance")
	if code != 0 || stdout.String() != "ok\n" {
		t.Errorf("code = %d, stdout = %q", code, stdout.String())
	}
}

func TestRespond_FailureRule(t *testing.T) {
	sim, _, stderr := newTestSim(DefaultRules())

	code := sim.Respond("msg fail")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "simulated failure") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRespond_RegexRule(t *testing.T) {
	rules := RuleSet{
		Rules: []Rule{
			{Match: `^issues close \d+$`, Type: "regex", Stdout: "closed\n"},
		},
		Default: Rule{ExitCode: 2},
	}
	sim, stdout, _ := newTestSim(rules)

	if code := sim.Respond("issues close 42"); code != 0 || stdout.String() != "closed\n" {
		t.Errorf("code = %d, stdout = %q", code, stdout.String())
	}
	if code := sim.Respond("issues close abc"); code != 2 {
		t.Errorf("non-matching command code = %d, want default", code)
	}
}

func TestRespond_FailFirstBudget(t *testing.T) {
	rules := RuleSet{
		Rules:   []Rule{{Match: "flaky", FailFirst: 2, Stdout: "recovered\n"}},
		Default: Rule{},
	}
	sim, stdout, _ := newTestSim(rules)

	if code := sim.Respond("flaky op"); code != 1 {
		t.Errorf("first call code = %d, want 1", code)
	}
	if code := sim.Respond("flaky op"); code != 1 {
		t.Errorf("second call code = %d, want 1", code)
	}
	if code := sim.Respond("flaky op"); code != 0 {
		t.Errorf("third call code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "recovered") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	body := `
rules:
  - match: "cal today"
    stdout: "nothing scheduled\n"
  - match: "bad"
    exit_code: 3
default:
  stdout: "unknown\n"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing rules: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rules.Rules) != 2 || rules.Rules[1].ExitCode != 3 {
		t.Errorf("rules = %+v", rules)
	}
	if rules.Default.Stdout != "unknown\n" {
		t.Errorf("default = %+v", rules.Default)
	}
}

func TestLoadRules_Missing(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file accepted")
	}
}
