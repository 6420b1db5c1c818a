// Package rules evaluates the small boolean expressions settings definitions
// use for dependent enablement, for example
//
//	camera.enabled == true && serial.port != "COM1"
//
// Supported forms: a bare key (truthiness), comparisons of a key against a
// literal with ==, !=, <, <=, >, >=, and composition with !, && and ||.
// Keys are looked up verbatim in the value map first, then by dot path.
package rules

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrSyntax wraps every parse failure.
var ErrSyntax = errors.New("rules: invalid expression")

// Rule is a compiled expression.
type Rule struct {
	source string
	root   node
	refs   []string
}

// Compile parses expression. A blank expression always evaluates to true.
func Compile(expression string) (*Rule, error) {
	trimmed := strings.TrimSpace(expression)
	r := &Rule{source: trimmed}
	if trimmed == "" {
		return r, nil
	}
	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	stream := &tokenStream{tokens: tokens}
	root, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("%w: unexpected token %q", ErrSyntax, stream.tokens[stream.pos].raw)
	}
	r.root = root

	seen := map[string]struct{}{}
	for _, tok := range tokens {
		if tok.kind == tokenIdentifier && tok.ref {
			if _, ok := seen[tok.raw]; !ok {
				seen[tok.raw] = struct{}{}
				r.refs = append(r.refs, tok.raw)
			}
		}
	}
	sort.Strings(r.refs)
	return r, nil
}

// MustCompile is Compile for static expressions; it panics on error.
func MustCompile(expression string) *Rule {
	r, err := Compile(expression)
	if err != nil {
		panic(err)
	}
	return r
}

// String returns the source expression.
func (r *Rule) String() string { return r.source }

// References lists the keys the expression reads, sorted.
func (r *Rule) References() []string {
	return append([]string(nil), r.refs...)
}

// Eval evaluates the rule against values. Missing keys read as null.
func (r *Rule) Eval(values map[string]any) (bool, error) {
	if r == nil || r.root == nil {
		return true, nil
	}
	return r.root.eval(values)
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
	// ref marks identifiers in key position, as opposed to bare-word literals.
	ref bool
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0
	peek := func(offset int) byte {
		if i+offset >= len(input) {
			return 0
		}
		return input[i+offset]
	}

	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
			i++
		case ch == '!' && peek(1) == '=':
			tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
			i += 2
		case ch == '!':
			tokens = append(tokens, token{kind: tokenNot, raw: "!"})
			i++
		case ch == '=':
			if peek(1) != '=' {
				return nil, fmt.Errorf("%w: unexpected '='; use '=='", ErrSyntax)
			}
			tokens = append(tokens, token{kind: tokenEq, raw: "=="})
			i += 2
		case ch == '<' || ch == '>':
			kind, raw := tokenLt, "<"
			if ch == '>' {
				kind, raw = tokenGt, ">"
			}
			if peek(1) == '=' {
				kind++
				raw += "="
				i++
			}
			tokens = append(tokens, token{kind: kind, raw: raw})
			i++
		case ch == '&':
			if peek(1) != '&' {
				return nil, fmt.Errorf("%w: unexpected '&'; use '&&'", ErrSyntax)
			}
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
			i += 2
		case ch == '|':
			if peek(1) != '|' {
				return nil, fmt.Errorf("%w: unexpected '|'; use '||'", ErrSyntax)
			}
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
			i += 2
		case ch == '"' || ch == '\'':
			end := i + 1
			escaped := false
			for ; end < len(input); end++ {
				if escaped {
					escaped = false
					continue
				}
				if input[end] == '\\' {
					escaped = true
					continue
				}
				if input[end] == ch {
					break
				}
			}
			if end >= len(input) {
				return nil, fmt.Errorf("%w: unterminated string literal", ErrSyntax)
			}
			body := input[i+1 : end]
			if ch == '\'' {
				body = strings.ReplaceAll(strings.ReplaceAll(body, `\'`, `'`), `"`, `\"`)
			}
			value, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid string literal: %v", ErrSyntax, err)
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
			i = end + 1
		default:
			start := i
			for i < len(input) && !strings.ContainsRune(" \t\n\r()!=&|<>", rune(input[i])) {
				i++
			}
			raw := input[start:i]
			switch strings.ToLower(raw) {
			case "true", "false":
				tokens = append(tokens, token{kind: tokenBool, raw: strings.ToLower(raw)})
			case "null", "nil":
				tokens = append(tokens, token{kind: tokenNull, raw: "null"})
			default:
				if looksLikeNumber(raw) {
					tokens = append(tokens, token{kind: tokenNumber, raw: raw})
				} else {
					tokens = append(tokens, token{kind: tokenIdentifier, raw: raw})
				}
			}
		}
	}
	return tokens, nil
}

func looksLikeNumber(raw string) bool {
	if raw == "" {
		return false
	}
	ch := raw[0]
	return (ch >= '0' && ch <= '9') || ch == '-' || ch == '+'
}

type node interface {
	eval(values map[string]any) (bool, error)
}

type orNode struct{ left, right node }

func (n orNode) eval(values map[string]any) (bool, error) {
	ok, err := n.left.eval(values)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(values)
}

type andNode struct{ left, right node }

func (n andNode) eval(values map[string]any) (bool, error) {
	ok, err := n.left.eval(values)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(values)
}

type notNode struct{ inner node }

func (n notNode) eval(values map[string]any) (bool, error) {
	ok, err := n.inner.eval(values)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type truthyNode struct{ key string }

func (n truthyNode) eval(values map[string]any) (bool, error) {
	value, ok := lookup(values, n.key)
	if !ok {
		return false, nil
	}
	return truthy(value), nil
}

type compareNode struct {
	key string
	op  token
	lit token
}

func (n compareNode) eval(values map[string]any) (bool, error) {
	value, _ := lookup(values, n.key)

	switch n.lit.kind {
	case tokenNull:
		switch n.op.kind {
		case tokenEq:
			return value == nil, nil
		case tokenNeq:
			return value != nil, nil
		}
	case tokenBool:
		want := n.lit.raw == "true"
		got := coerceBool(value)
		switch n.op.kind {
		case tokenEq:
			return got == want, nil
		case tokenNeq:
			return got != want, nil
		}
	case tokenNumber:
		want, err := strconv.ParseFloat(n.lit.raw, 64)
		if err != nil {
			return false, fmt.Errorf("%w: invalid number literal %q", ErrSyntax, n.lit.raw)
		}
		got, ok := coerceNumber(value)
		if !ok {
			return n.op.kind == tokenNeq, nil
		}
		switch n.op.kind {
		case tokenEq:
			return got == want, nil
		case tokenNeq:
			return got != want, nil
		case tokenLt:
			return got < want, nil
		case tokenLte:
			return got <= want, nil
		case tokenGt:
			return got > want, nil
		case tokenGte:
			return got >= want, nil
		}
	default:
		got := coerceString(value)
		switch n.op.kind {
		case tokenEq:
			return got == n.lit.raw, nil
		case tokenNeq:
			return got != n.lit.raw, nil
		}
	}
	return false, fmt.Errorf("%w: operator %q not supported for literal %q", ErrSyntax, n.op.raw, n.lit.raw)
}

type tokenStream struct {
	tokens []token
	pos    int
}

func parseOr(s *tokenStream) (node, error) {
	left, err := parseAnd(s)
	if err != nil {
		return nil, err
	}
	for s.match(tokenOr) {
		right, err := parseAnd(s)
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func parseAnd(s *tokenStream) (node, error) {
	left, err := parseUnary(s)
	if err != nil {
		return nil, err
	}
	for s.match(tokenAnd) {
		right, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func parseUnary(s *tokenStream) (node, error) {
	if s.match(tokenNot) {
		inner, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return parsePrimary(s)
}

func parsePrimary(s *tokenStream) (node, error) {
	if s.match(tokenLParen) {
		inner, err := parseOr(s)
		if err != nil {
			return nil, err
		}
		if !s.match(tokenRParen) {
			return nil, fmt.Errorf("%w: missing closing ')'", ErrSyntax)
		}
		return inner, nil
	}

	if s.pos >= len(s.tokens) {
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	}
	ident := &s.tokens[s.pos]
	if ident.kind != tokenIdentifier {
		return nil, fmt.Errorf("%w: expected key, got %q", ErrSyntax, ident.raw)
	}
	ident.ref = true
	s.pos++

	if s.pos < len(s.tokens) && isComparison(s.tokens[s.pos].kind) {
		op := s.tokens[s.pos]
		s.pos++
		if s.pos >= len(s.tokens) {
			return nil, fmt.Errorf("%w: missing literal after %q", ErrSyntax, op.raw)
		}
		lit := s.tokens[s.pos]
		s.pos++
		switch lit.kind {
		case tokenString, tokenNumber, tokenBool, tokenNull:
		case tokenIdentifier:
			// Bare words compare as strings.
			lit.kind = tokenString
		default:
			return nil, fmt.Errorf("%w: expected literal, got %q", ErrSyntax, lit.raw)
		}
		if op.kind >= tokenLt && op.kind <= tokenGte && lit.kind != tokenNumber {
			return nil, fmt.Errorf("%w: %q needs a number literal", ErrSyntax, op.raw)
		}
		return compareNode{key: ident.raw, op: op, lit: lit}, nil
	}
	return truthyNode{key: ident.raw}, nil
}

func isComparison(kind tokenKind) bool {
	return kind >= tokenEq && kind <= tokenGte
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func lookup(values map[string]any, key string) (any, bool) {
	if len(values) == 0 || key == "" {
		return nil, false
	}
	if v, ok := values[key]; ok {
		return v, true
	}
	var current any = values
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if b, err := strconv.ParseBool(trimmed); err == nil {
			return b
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f != 0
		}
		return trimmed != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

func coerceBool(value any) bool {
	if s, ok := value.(string); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b
		}
	}
	return truthy(value)
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(value)
	}
}
