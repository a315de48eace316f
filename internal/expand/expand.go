// Package expand implements brace-pattern expansion of raw command strings.
//
// Expansion runs before chain parsing, so operators inside a brace list are
// never mistaken for chain operators.
package expand

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	braceRe = regexp.MustCompile(`\{([^{}]+)\}`)
	rangeRe = regexp.MustCompile(`^(-?\d+)\.\.(-?\d+)$`)
)

// Expand rewrites the first {...} group in s into its concrete values and
// recursively expands each result, producing the cartesian set of strings.
// A numeric group like {1..5} or {5..1} expands as an inclusive range in the
// indicated direction; anything else is a comma-separated list with
// whitespace trimmed around each element. Strings without a brace group are
// returned unchanged as a single-element slice.
func Expand(s string) []string {
	loc := braceRe.FindStringSubmatchIndex(s)
	if loc == nil {
		return []string{s}
	}

	before := s[:loc[0]]
	after := s[loc[1]:]
	group := s[loc[2]:loc[3]]

	var out []string
	for _, value := range expandGroup(group) {
		out = append(out, Expand(before+value+after)...)
	}
	return out
}

// All expands every string in raw and concatenates the results in input
// order.
func All(raw []string) []string {
	var out []string
	for _, s := range raw {
		out = append(out, Expand(s)...)
	}
	return out
}

// expandGroup produces the values of one brace group body.
func expandGroup(group string) []string {
	if m := rangeRe.FindStringSubmatch(group); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		return expandRange(start, end)
	}

	parts := strings.Split(group, ",")
	values := make([]string, len(parts))
	for i, p := range parts {
		values[i] = strings.TrimSpace(p)
	}
	return values
}

// expandRange yields the inclusive range from start to end, stepping toward
// end.
func expandRange(start, end int) []string {
	step := 1
	if start > end {
		step = -1
	}
	var values []string
	for i := start; ; i += step {
		values = append(values, strconv.Itoa(i))
		if i == end {
			break
		}
	}
	return values
}
