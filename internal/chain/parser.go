// Package chain parses raw command strings into ordered step lists.
//
// The parser recognizes &&, || and | as chain operators. Tokenization is
// quote-aware: the raw string is parsed with a shell grammar, so an operator
// inside a quoted argument is never mistaken for a chain operator.
package chain

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/omni-stack/omni/internal/types"
)

// token is either one chain operator or one command substring.
type token struct {
	isOp bool
	op   syntax.BinCmdOperator
	cmd  string
}

// Parse splits each raw command string into steps annotated with a run
// condition and a pipe-source flag, concatenating all strings' steps in
// input order. Condition and pipe state never carry across separate raw
// strings: each starts fresh at "always".
//
// A raw string that does not lex as shell syntax (for example an unclosed
// quote) is kept verbatim as a single unconditional step.
func Parse(raw []string) []types.Step {
	parser := syntax.NewParser(
		syntax.Variant(syntax.LangBash),
		syntax.KeepComments(false),
	)
	printer := syntax.NewPrinter()

	var steps []types.Step
	for _, s := range raw {
		steps = append(steps, parseOne(parser, printer, s)...)
	}
	return steps
}

// parseOne tokenizes one raw string and runs the condition/pipe state
// machine over its tokens.
func parseOne(parser *syntax.Parser, printer *syntax.Printer, raw string) []types.Step {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	file, err := parser.Parse(strings.NewReader(raw), "")
	if err != nil {
		return []types.Step{{
			Command:   strings.TrimSpace(raw),
			Condition: types.ConditionAlways,
		}}
	}

	var tokens []token
	for _, stmt := range file.Stmts {
		flatten(printer, stmt, &tokens)
	}

	var steps []types.Step
	cond := types.ConditionAlways
	pipe := false
	for _, tok := range tokens {
		if tok.isOp {
			switch tok.op {
			case syntax.AndStmt:
				cond, pipe = types.ConditionOnSuccess, false
			case syntax.OrStmt:
				cond, pipe = types.ConditionOnFailure, false
			case syntax.Pipe, syntax.PipeAll:
				// A pipe only fires if the producer succeeded.
				cond, pipe = types.ConditionOnSuccess, true
			}
			continue
		}
		if tok.cmd == "" {
			continue
		}
		steps = append(steps, types.Step{
			Command:           tok.cmd,
			Condition:         cond,
			ConsumesPipeInput: pipe,
		})
		cond, pipe = types.ConditionAlways, false
	}
	return steps
}

// flatten walks a statement's left-associative binary command tree in
// left-to-right order, emitting operator tokens between command tokens.
func flatten(printer *syntax.Printer, stmt *syntax.Stmt, tokens *[]token) {
	if bin, ok := stmt.Cmd.(*syntax.BinaryCmd); ok {
		switch bin.Op {
		case syntax.AndStmt, syntax.OrStmt, syntax.Pipe, syntax.PipeAll:
			flatten(printer, bin.X, tokens)
			*tokens = append(*tokens, token{isOp: true, op: bin.Op})
			flatten(printer, bin.Y, tokens)
			return
		}
	}

	var buf strings.Builder
	if err := printer.Print(&buf, stmt); err != nil {
		return
	}
	*tokens = append(*tokens, token{cmd: strings.TrimSpace(buf.String())})
}
