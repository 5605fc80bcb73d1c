package parser

import (
	"github.com/jdmichaud/go-jlisp/internal/ast"
	"github.com/jdmichaud/go-jlisp/internal/token"
)

// tryDefinition matches a top-level definition (bodies read their
// internal definitions through parseDefine directly):
//
//	(define variable expression)
//	(define (name . formals) body)   -- desugars to (define name (lambda formals body))
//	(begin definition*)              -- splices nested definitions
//
// Anything else is "not my form": matched is false, letting the caller
// fall back to parseExpression.
func tryDefinition(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	if !isOpen(tokens, i) {
		return nil, i, false, nil
	}
	kw, ok := keywordAt(tokens, i+1)
	if !ok || (kw != "define" && kw != "begin") {
		return nil, i, false, nil
	}
	if kw == "begin" {
		return tryBeginOfDefinitions(tokens, i)
	}
	node, next, err := parseDefine(tokens, i)
	return node, next, true, err
}

// parseDefine reads (define variable expr) or the procedure-definition
// sugar (define (name . formals) body), desugaring the latter into a
// Definition whose Value is a Lambda.
func parseDefine(tokens []token.Token, i int) (*ast.Definition, int, error) {
	at := tokens[i].Position
	i, err := expectOpen(tokens, i)
	if err != nil {
		return nil, i, err
	}
	i, err = expectKeyword(tokens, i, "define")
	if err != nil {
		return nil, i, err
	}

	if i < len(tokens) && tokens[i].Kind == token.IDENTIFIER {
		name, next, err := expectVariable(tokens, i)
		if err != nil {
			return nil, i, err
		}
		value, next2, err := parseExpression(tokens, next)
		if err != nil {
			return nil, i, err
		}
		i, err = expectClose(tokens, next2)
		if err != nil {
			return nil, i, err
		}
		return &ast.Definition{Name: name, Value: value, At: at}, i, nil
	}

	// (define (name . formals) body)
	lambdaAt := tokens[i].Position
	i, err = expectOpen(tokens, i)
	if err != nil {
		return nil, i, err
	}
	name, i, err := expectVariable(tokens, i)
	if err != nil {
		return nil, i, err
	}
	formals, i, err := parseFormalsTail(tokens, i)
	if err != nil {
		return nil, i, err
	}
	defs, body, i, err := parseBody(tokens, i)
	if err != nil {
		return nil, i, err
	}
	i, err = expectClose(tokens, i)
	if err != nil {
		return nil, i, err
	}
	lambda := &ast.Lambda{Formals: formals, Definitions: defs, Body: body, At: lambdaAt}
	return &ast.Definition{Name: name, Value: lambda, At: at}, i, nil
}

// parseFormalsTail reads the remainder of a "(name . formals)" header
// after the name has already been consumed: zero or more fixed
// parameters, optionally followed by ". rest", then the closing paren.
func parseFormalsTail(tokens []token.Token, i int) (ast.Formals, int, error) {
	var formals ast.Formals
	for {
		if isClose(tokens, i) {
			return formals, i + 1, nil
		}
		if i < len(tokens) && tokens[i].Kind == token.PUNCTUATOR && tokens[i].Value == token.Dot {
			i++
			rest, next, err := expectVariable(tokens, i)
			if err != nil {
				return ast.Formals{}, i, err
			}
			i, err = expectClose(tokens, next)
			if err != nil {
				return ast.Formals{}, i, err
			}
			formals.Rest = rest
			return formals, i, nil
		}
		v, next, err := expectVariable(tokens, i)
		if err != nil {
			return ast.Formals{}, i, err
		}
		formals.Fixed = append(formals.Fixed, v)
		i = next
	}
}

// tryBeginOfDefinitions matches (begin definition*) only when every
// element of the sequence is itself a definition; otherwise it reports
// no match so an ordinary (begin expr*) can be tried as an expression.
func tryBeginOfDefinitions(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	save := i
	j, err := expectOpen(tokens, i)
	if err != nil {
		return nil, i, false, nil
	}
	j, err = expectKeyword(tokens, j, "begin")
	if err != nil {
		return nil, i, false, nil
	}

	var defs []*ast.Definition
	for !isClose(tokens, j) {
		if !isOpen(tokens, j) {
			return nil, save, false, nil
		}
		if kw, ok := keywordAt(tokens, j+1); !ok || kw != "define" {
			return nil, save, false, nil
		}
		def, next, err := parseDefine(tokens, j)
		if err != nil {
			return nil, j, true, err
		}
		defs = append(defs, def)
		j = next
	}
	if len(defs) == 0 {
		return nil, save, false, nil
	}
	j++ // consume closing paren
	return &ast.Begin{Exprs: definitionsToNodes(defs), At: tokens[save].Position}, j, true, nil
}

func definitionsToNodes(defs []*ast.Definition) []ast.Node {
	nodes := make([]ast.Node, len(defs))
	for i, d := range defs {
		nodes[i] = d
	}
	return nodes
}
