package parser

import (
	"github.com/jdmichaud/go-jlisp/internal/ast"
	"github.com/jdmichaud/go-jlisp/internal/token"
)

// parseBody reads a body: zero or more internal definitions followed by
// one or more expressions, shared by lambda, let, let*, letrec, and
// named let. Internal definitions must all precede the first expression;
// once a non-definition form is seen the scan commits to the expression
// sequence.
func parseBody(tokens []token.Token, i int) ([]*ast.Definition, []ast.Node, int, error) {
	var defs []*ast.Definition
	for isOpen(tokens, i) {
		if kw, ok := keywordAt(tokens, i+1); !ok || kw != "define" {
			break
		}
		def, next, err := parseDefine(tokens, i)
		if err != nil {
			return nil, nil, i, err
		}
		defs = append(defs, def)
		i = next
	}

	var body []ast.Node
	for !isClose(tokens, i) {
		expr, next, err := parseExpression(tokens, i)
		if err != nil {
			return nil, nil, i, err
		}
		body = append(body, expr)
		i = next
	}
	if len(body) == 0 {
		return nil, nil, i, expectError(tokens, i, "an expression")
	}
	return defs, body, i, nil
}
