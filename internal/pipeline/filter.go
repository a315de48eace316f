package pipeline

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// FilterExpr is a parsed boolean filter expression. The grammar is fixed:
//
//	expr       = and-expr { "or" and-expr }
//	and-expr   = unary { "and" unary }
//	unary      = "not" unary | "(" expr ")" | comparison
//	comparison = operand [ op operand ]
//	op         = "==" | "!=" | ">=" | "<=" | ">" | "<"
//	           | "contains" | "startsWith" | "endsWith"
//	operand    = number | string | "true" | "false" | "null" | field-path
//
// There is no dynamic code evaluation: expressions compile to a small AST
// evaluated against the item's bound variables.
type FilterExpr struct {
	root filterNode
}

// ParseFilter compiles a filter expression.
func ParseFilter(expr string) (*FilterExpr, error) {
	tokens, err := lexFilter(expr)
	if err != nil {
		return nil, err
	}
	p := &filterParser{tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, fmt.Errorf("unexpected token %q", p.peek().text)
	}
	return &FilterExpr{root: root}, nil
}

// Eval evaluates the expression against one item. Record items bind their
// own fields as variables; scalars bind a single "value" variable.
func (f *FilterExpr) Eval(item any) (bool, error) {
	vars, ok := item.(map[string]any)
	if !ok {
		vars = map[string]any{"value": item}
	}
	v, err := f.root.eval(vars)
	if err != nil {
		return false, err
	}
	return truthy(v), nil
}

// EvaluateFilter is the lenient entry point used per item: any parse or
// evaluation error makes the item non-matching, it never propagates.
func EvaluateFilter(item any, expr string) bool {
	f, err := ParseFilter(expr)
	if err != nil {
		return false
	}
	match, err := f.Eval(item)
	if err != nil {
		return false
	}
	return match
}

// --- lexer ---

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokOp     // == != >= <= > <
	tokLParen
	tokRParen
)

type filterToken struct {
	kind tokenKind
	text string
}

func lexFilter(s string) ([]filterToken, error) {
	var tokens []filterToken
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case unicode.IsSpace(rune(c)):
			i++

		case c == '(':
			tokens = append(tokens, filterToken{tokLParen, "("})
			i++
		case c == ')':
			tokens = append(tokens, filterToken{tokRParen, ")"})
			i++

		case c == '\'' || c == '"':
			end := strings.IndexByte(s[i+1:], c)
			if end < 0 {
				return nil, fmt.Errorf("unterminated string at offset %d", i)
			}
			tokens = append(tokens, filterToken{tokString, s[i+1 : i+1+end]})
			i += end + 2

		case strings.HasPrefix(s[i:], "==") || strings.HasPrefix(s[i:], "!=") ||
			strings.HasPrefix(s[i:], ">=") || strings.HasPrefix(s[i:], "<="):
			tokens = append(tokens, filterToken{tokOp, s[i : i+2]})
			i += 2
		case c == '>' || c == '<':
			tokens = append(tokens, filterToken{tokOp, string(c)})
			i++

		case c == '-' || c >= '0' && c <= '9':
			j := i + 1
			for j < len(s) && (s[j] >= '0' && s[j] <= '9' || s[j] == '.') {
				j++
			}
			if _, err := strconv.ParseFloat(s[i:j], 64); err != nil {
				return nil, fmt.Errorf("invalid number %q", s[i:j])
			}
			tokens = append(tokens, filterToken{tokNumber, s[i:j]})
			i = j

		case isIdentStart(c):
			j := i + 1
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			tokens = append(tokens, filterToken{tokIdent, s[i:j]})
			i = j

		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d", c, i)
		}
	}
	return append(tokens, filterToken{kind: tokEOF}), nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '.' || c >= '0' && c <= '9'
}

// --- parser ---

type filterParser struct {
	tokens []filterToken
	pos    int
}

func (p *filterParser) peek() filterToken { return p.tokens[p.pos] }
func (p *filterParser) next() filterToken { t := p.tokens[p.pos]; p.pos++; return t }
func (p *filterParser) atEnd() bool       { return p.peek().kind == tokEOF }

// keyword matches an identifier token case-insensitively without consuming
// on failure.
func (p *filterParser) keyword(words ...string) (string, bool) {
	t := p.peek()
	if t.kind != tokIdent {
		return "", false
	}
	for _, w := range words {
		if strings.EqualFold(t.text, w) {
			p.pos++
			return w, true
		}
	}
	return "", false
}

func (p *filterParser) parseOr() (filterNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.keyword("or"); !ok {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &boolNode{op: "or", left: left, right: right}
	}
}

func (p *filterParser) parseAnd() (filterNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.keyword("and"); !ok {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &boolNode{op: "and", left: left, right: right}
	}
}

func (p *filterParser) parseUnary() (filterNode, error) {
	if _, ok := p.keyword("not"); ok {
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &notNode{child: child}, nil
	}
	if p.peek().kind == tokLParen {
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, fmt.Errorf("expected ) but found %q", p.peek().text)
		}
		p.next()
		return inner, nil
	}
	return p.parseComparison()
}

func (p *filterParser) parseComparison() (filterNode, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	if p.peek().kind == tokOp {
		op := p.next().text
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &compareNode{op: op, left: left, right: right}, nil
	}
	if op, ok := p.keyword("contains", "startsWith", "endsWith"); ok {
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &stringTestNode{op: op, left: left, right: right}, nil
	}

	// A bare operand is tested for truthiness.
	return left, nil
}

func (p *filterParser) parseOperand() (filterNode, error) {
	t := p.peek()
	switch t.kind {
	case tokNumber:
		p.next()
		n, _ := strconv.ParseFloat(t.text, 64)
		return &literalNode{value: n}, nil
	case tokString:
		p.next()
		return &literalNode{value: t.text}, nil
	case tokIdent:
		switch {
		case strings.EqualFold(t.text, "true"):
			p.next()
			return &literalNode{value: true}, nil
		case strings.EqualFold(t.text, "false"):
			p.next()
			return &literalNode{value: false}, nil
		case strings.EqualFold(t.text, "null"):
			p.next()
			return &literalNode{value: nil}, nil
		}
		p.next()
		return &fieldNode{path: t.text}, nil
	}
	return nil, fmt.Errorf("expected operand but found %q", t.text)
}

// --- evaluation ---

type filterNode interface {
	eval(vars map[string]any) (any, error)
}

type literalNode struct{ value any }

func (n *literalNode) eval(map[string]any) (any, error) { return n.value, nil }

type fieldNode struct{ path string }

func (n *fieldNode) eval(vars map[string]any) (any, error) {
	v, found, err := resolvePath(vars, n.path)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("unknown field %q", n.path)
	}
	return v, nil
}

type notNode struct{ child filterNode }

func (n *notNode) eval(vars map[string]any) (any, error) {
	v, err := n.child.eval(vars)
	if err != nil {
		return nil, err
	}
	return !truthy(v), nil
}

type boolNode struct {
	op          string
	left, right filterNode
}

func (n *boolNode) eval(vars map[string]any) (any, error) {
	l, err := n.left.eval(vars)
	if err != nil {
		return nil, err
	}
	if n.op == "and" && !truthy(l) {
		return false, nil
	}
	if n.op == "or" && truthy(l) {
		return true, nil
	}
	r, err := n.right.eval(vars)
	if err != nil {
		return nil, err
	}
	return truthy(r), nil
}

type compareNode struct {
	op          string
	left, right filterNode
}

func (n *compareNode) eval(vars map[string]any) (any, error) {
	l, err := n.left.eval(vars)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(vars)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case "==":
		return looseEqual(l, r), nil
	case "!=":
		return !looseEqual(l, r), nil
	}

	// Ordering comparisons: numeric when both sides are numeric,
	// lexicographic for strings.
	ln, lok := asNumber(l)
	rn, rok := asNumber(r)
	if lok && rok {
		switch n.op {
		case ">":
			return ln > rn, nil
		case "<":
			return ln < rn, nil
		case ">=":
			return ln >= rn, nil
		case "<=":
			return ln <= rn, nil
		}
	}
	ls, lok := l.(string)
	rs, rok := r.(string)
	if lok && rok {
		switch n.op {
		case ">":
			return ls > rs, nil
		case "<":
			return ls < rs, nil
		case ">=":
			return ls >= rs, nil
		case "<=":
			return ls <= rs, nil
		}
	}
	return nil, fmt.Errorf("cannot compare %T and %T with %s", l, r, n.op)
}

type stringTestNode struct {
	op          string
	left, right filterNode
}

func (n *stringTestNode) eval(vars map[string]any) (any, error) {
	l, err := n.left.eval(vars)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(vars)
	if err != nil {
		return nil, err
	}

	ls := strings.ToLower(Stringify(l))
	rs := strings.ToLower(Stringify(r))
	switch n.op {
	case "contains":
		return strings.Contains(ls, rs), nil
	case "startsWith":
		return strings.HasPrefix(ls, rs), nil
	case "endsWith":
		return strings.HasSuffix(ls, rs), nil
	}
	return nil, fmt.Errorf("unknown string test %q", n.op)
}

// truthy reports whether a value counts as true in a boolean position.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

// asNumber coerces JSON numbers (and Go ints) to float64.
func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

// looseEqual compares values with numeric coercion so 2 == 2.0 holds for
// JSON inputs. Composite values compare structurally.
func looseEqual(l, r any) bool {
	if ln, ok := asNumber(l); ok {
		if rn, ok := asNumber(r); ok {
			return ln == rn
		}
	}
	return reflect.DeepEqual(l, r)
}
