package main

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"
)

// ruleRegexCache caches compiled match patterns across invocations of one
// process. Rules are matched in order; first hit wins.
var ruleRegexCache = struct {
	sync.RWMutex
	cache map[string]*regexp.Regexp
}{
	cache: make(map[string]*regexp.Regexp),
}

// Simulator answers one command line with the canned response of the first
// matching rule.
type Simulator struct {
	Rules  RuleSet
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	mu        sync.Mutex
	failCount map[string]int
}

// Respond writes the matched rule's output and returns its exit code.
func (s *Simulator) Respond(command string) int {
	rule := s.match(command)

	if rule.DelayMs > 0 {
		time.Sleep(time.Duration(rule.DelayMs) * time.Millisecond)
	}

	if rule.FailFirst > 0 && s.takeFailure(rule.Match, rule.FailFirst) {
		fmt.Fprintf(s.Stderr, "transient failure (%s)\n", command)
		return 1
	}

	if rule.Stdout != "" {
		io.WriteString(s.Stdout, rule.Stdout)
	}
	if rule.Stderr != "" {
		io.WriteString(s.Stderr, rule.Stderr)
	}
	return rule.ExitCode
}

// match finds the first matching rule, falling back to the default.
func (s *Simulator) match(command string) *Rule {
	for i := range s.Rules.Rules {
		r := &s.Rules.Rules[i]
		if matches(r, command) {
			s.Logger.Debug("rule matched", "pattern", r.Match, "command", command)
			return r
		}
	}
	s.Logger.Debug("using default rule", "command", command)
	return &s.Rules.Default
}

// takeFailure consumes one failure from a rule's fail_first budget.
func (s *Simulator) takeFailure(key string, budget int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCount == nil {
		s.failCount = make(map[string]int)
	}
	if s.failCount[key] >= budget {
		return false
	}
	s.failCount[key]++
	return true
}

func matches(r *Rule, command string) bool {
	switch r.Type {
	case "regex":
		return matchRegex(r.Match, command)
	default:
		return strings.Contains(command, r.Match)
	}
}

func matchRegex(pattern, text string) bool {
	ruleRegexCache.RLock()
	re, ok := ruleRegexCache.cache[pattern]
	ruleRegexCache.RUnlock()

	if !ok {
		var err error
		re, err = regexp.Compile(pattern)
		if err != nil {
			return false
		}
		ruleRegexCache.Lock()
		ruleRegexCache.cache[pattern] = re
		ruleRegexCache.Unlock()
	}
	return re.MatchString(text)
}
