// Package parser implements the program parser: a recursive-descent,
// stateless dispatcher that classifies datums read from a token array
// into typed AST nodes — lambda, conditional, assignment, the let
// family, cond, do, delay, and/or, begin, and procedure calls — falling
// back to a generic procedure call when no keyword matches.
//
// Every alternative is a pure function of (tokens []token.Token, i int).
// It returns (node, next, matched, err):
//   - matched == false, err == nil: "not my form", cursor untouched.
//   - matched == true, err == nil: this alternative consumed the form.
//   - err != nil: the form started to match but was malformed — a hard
//     failure that the dispatcher propagates immediately without trying
//     further alternatives, distinct from "not my form".
package parser

import (
	"github.com/jdmichaud/go-jlisp/internal/ast"
	"github.com/jdmichaud/go-jlisp/internal/errors"
	"github.com/jdmichaud/go-jlisp/internal/token"
)

// Parse classifies an already-tokenized stream into a sequence of
// top-level programs, each either an expression or a definition.
func Parse(tokens []token.Token) ([]ast.Node, error) {
	var programs []ast.Node
	i := 0
	for i < len(tokens) && tokens[i].Kind != token.EOF {
		node, next, err := parseProgram(tokens, i)
		if err != nil {
			return nil, err
		}
		programs = append(programs, node)
		i = next
	}
	return programs, nil
}

// parseProgram is "program := expression | definition".
func parseProgram(tokens []token.Token, i int) (ast.Node, int, error) {
	if node, next, matched, err := tryDefinition(tokens, i); matched || err != nil {
		return node, next, err
	}
	return parseExpression(tokens, i)
}

// parseExpression is the top of the expression grammar:
//
//	expression := variable | literal | procedure_call | lambda | conditional
//	            | assignment | derived
func parseExpression(tokens []token.Token, i int) (ast.Node, int, error) {
	if i >= len(tokens) || tokens[i].Kind == token.EOF {
		return nil, i, unexpectedEOF(tokens)
	}

	if node, next, matched, err := tryVariable(tokens, i); matched || err != nil {
		return node, next, err
	}
	if node, next, matched, err := tryLiteral(tokens, i); matched || err != nil {
		return node, next, err
	}
	if node, next, matched, err := tryQuoteAbbreviation(tokens, i); matched || err != nil {
		return node, next, err
	}
	if !isOpen(tokens, i) {
		return nil, i, unexpectedToken(tokens, i)
	}

	if node, next, matched, err := tryKeywordForm(tokens, i); matched || err != nil {
		return node, next, err
	}

	return parseProcedureCall(tokens, i)
}

// tryKeywordForm dispatches "(" keyword ... ")" forms. The guard is:
// tokens[i] == "(" and tokens[i+1] is a keyword. This excludes "define",
// which is only valid as a definition (handled by tryDefinition), so an
// expression-context "(define ...)" falls all the way through to
// parseProcedureCall, which rejects it too (its guard requires a
// non-keyword head) — yielding the generic "Unexpected token" error.
func tryKeywordForm(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	kw, ok := keywordAt(tokens, i+1)
	if !ok {
		return nil, i, false, nil
	}

	switch kw {
	case "quote":
		return parseQuote(tokens, i)
	case "lambda":
		return parseLambda(tokens, i)
	case "if":
		return parseConditional(tokens, i)
	case "set!":
		return parseAssignment(tokens, i)
	case "cond":
		return parseCond(tokens, i)
	case "and":
		return parseAnd(tokens, i)
	case "or":
		return parseOr(tokens, i)
	case "let":
		return parseLet(tokens, i)
	case "let*":
		return parseLetStar(tokens, i)
	case "letrec":
		return parseLetrec(tokens, i)
	case "begin":
		return parseBegin(tokens, i)
	case "do":
		return parseDo(tokens, i)
	case "delay":
		return parseDelay(tokens, i)
	case "case", "quasiquote", "unquote", "unquote-splicing":
		// Recognized by the grammar but not implemented. This is a hard,
		// named error rather than a silent fallthrough to procedure_call:
		// a keyword-headed list must never be reinterpreted as a call to
		// a procedure that happens to share the keyword's name.
		return nil, i, true, &errors.SyntaxError{
			Stage:   "parse",
			Message: "Unsupported form: " + kw,
			Pos:     tokens[i].Position,
		}
	}

	return nil, i, false, nil
}

func isOpen(tokens []token.Token, i int) bool {
	return i < len(tokens) && tokens[i].Kind == token.PUNCTUATOR && tokens[i].Value == token.LParen
}

func isClose(tokens []token.Token, i int) bool {
	return i < len(tokens) && tokens[i].Kind == token.PUNCTUATOR && tokens[i].Value == token.RParen
}

// keywordAt reports whether tokens[i] is an identifier naming a reserved
// keyword, returning its (already-lowercased) text.
func keywordAt(tokens []token.Token, i int) (string, bool) {
	if i >= len(tokens) || tokens[i].Kind != token.IDENTIFIER {
		return "", false
	}
	name, _ := tokens[i].Value.(string)
	if !token.IsKeyword(name) {
		return "", false
	}
	return name, true
}

func tryVariable(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	if i >= len(tokens) || tokens[i].Kind != token.IDENTIFIER {
		return nil, i, false, nil
	}
	tok := tokens[i]
	name, _ := tok.Value.(string)
	if token.IsKeyword(name) {
		return nil, i, false, nil
	}
	return &ast.Variable{Name: name, At: tok.Position}, i + 1, true, nil
}

func tryLiteral(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	if i >= len(tokens) {
		return nil, i, false, nil
	}
	tok := tokens[i]
	switch tok.Kind {
	case token.BOOLEAN:
		return &ast.Boolean{Value: tok.Value.(bool), At: tok.Position}, i + 1, true, nil
	case token.NUMBER:
		return &ast.Number{Value: tok.Value.(float64), At: tok.Position}, i + 1, true, nil
	case token.STRING:
		return &ast.String{Value: tok.Value.(string), At: tok.Position}, i + 1, true, nil
	case token.CHARACTER:
		return &ast.Character{Value: tok.Value.(string), At: tok.Position}, i + 1, true, nil
	}
	return nil, i, false, nil
}

func expectVariable(tokens []token.Token, i int) (*ast.Variable, int, error) {
	if i >= len(tokens) || tokens[i].Kind != token.IDENTIFIER {
		return nil, i, expectError(tokens, i, "a variable")
	}
	name, _ := tokens[i].Value.(string)
	if token.IsKeyword(name) {
		return nil, i, &errors.SyntaxError{
			Stage:   "parse",
			Message: "Bad identifier observed",
			Pos:     tokens[i].Position,
		}
	}
	return &ast.Variable{Name: name, At: tokens[i].Position}, i + 1, nil
}

func expectOpen(tokens []token.Token, i int) (int, error) {
	if !isOpen(tokens, i) {
		return i, expectError(tokens, i, "(")
	}
	return i + 1, nil
}

func expectClose(tokens []token.Token, i int) (int, error) {
	if !isClose(tokens, i) {
		return i, &errors.SyntaxError{Stage: "parse", Message: "Expected closing parenthesis", Pos: errPos(tokens, i)}
	}
	return i + 1, nil
}

func expectKeyword(tokens []token.Token, i int, kw string) (int, error) {
	got, ok := keywordAt(tokens, i)
	if !ok || got != kw {
		return i, expectError(tokens, i, kw)
	}
	return i + 1, nil
}

func expectError(tokens []token.Token, i int, want string) error {
	return &errors.SyntaxError{Stage: "parse", Message: "Expecting " + want, Pos: errPos(tokens, i)}
}

func unexpectedToken(tokens []token.Token, i int) error {
	return &errors.SyntaxError{Stage: "parse", Message: "Unexpected token", Pos: errPos(tokens, i)}
}

func unexpectedEOF(tokens []token.Token) error {
	return &errors.SyntaxError{Stage: "parse", Message: "Unexpected end of input", Pos: errPos(tokens, len(tokens))}
}

// errPos returns the position of the offending token, or of the previous
// token when i is at or past EOF.
func errPos(tokens []token.Token, i int) token.Position {
	if i < len(tokens) && tokens[i].Kind != token.EOF {
		return tokens[i].Position
	}
	for j := min(i, len(tokens)) - 1; j >= 0; j-- {
		if tokens[j].Kind != token.EOF {
			return tokens[j].Position
		}
	}
	if len(tokens) > 0 {
		return tokens[len(tokens)-1].Position
	}
	return token.Position{}
}
