// Package orchestrator drives parsed step lists end-to-end, honoring run
// conditions and pipe semantics.
package orchestrator

import (
	"strconv"

	"mvdan.cc/sh/v3/syntax"

	"github.com/omni-stack/omni/internal/types"
)

// ItemMapper converts one structured pipe item into the argument list
// appended to the consuming step's command. The mapping is pluggable so
// service commands with different argument conventions can supply their own.
type ItemMapper interface {
	Args(item types.PipeItem) []string
}

// DefaultItemMapper implements the standard mapping: file items become
// "--file <path> [<caption>]", everything else passes its content as one
// trailing argument.
type DefaultItemMapper struct{}

// Args implements ItemMapper.
func (DefaultItemMapper) Args(item types.PipeItem) []string {
	if item.Type == types.PipeItemFile {
		args := []string{"--file", item.Path}
		if item.Caption != "" {
			args = append(args, item.Caption)
		}
		return args
	}
	return []string{item.Content}
}

// quoteArg shell-quotes a single argument for appending to a command
// string.
func quoteArg(s string) string {
	quoted, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		// Unquotable input (embedded NUL): fall back to a Go-style
		// quoted literal rather than corrupting the command line.
		return strconv.Quote(s)
	}
	return quoted
}

// appendArgs appends shell-quoted arguments to a command string.
func appendArgs(command string, args []string) string {
	for _, arg := range args {
		command += " " + quoteArg(arg)
	}
	return command
}
