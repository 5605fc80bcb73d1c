// Package reader implements the datum reader: it consumes a token stream
// and produces S-expression trees (atoms, lists, improper lists, vectors,
// abbreviations). It is the shared substrate the program parser builds on.
package reader

import (
	"github.com/jdmichaud/go-jlisp/internal/ast"
	"github.com/jdmichaud/go-jlisp/internal/errors"
	"github.com/jdmichaud/go-jlisp/internal/token"
)

// Read consumes one datum starting at tokens[i] and returns it along with
// the index of the next unconsumed token.
func Read(tokens []token.Token, i int) (ast.Datum, int, error) {
	if i >= len(tokens) || tokens[i].Kind == token.EOF {
		return nil, i, unexpectedEOF(tokens)
	}
	tok := tokens[i]

	switch tok.Kind {
	case token.BOOLEAN, token.STRING, token.CHARACTER, token.NUMBER, token.IDENTIFIER:
		return &ast.Terminal{Token: tok}, i + 1, nil

	case token.PUNCTUATOR:
		switch tok.Value {
		case token.LParen:
			return readList(tokens, i)
		case token.VecOpen:
			return readVector(tokens, i)
		case token.Quote:
			return readAbbreviation(tokens, i, func(d ast.Datum, at token.Position) ast.Datum {
				return &ast.Quote{Value: d, MarkAt: at}
			})
		case token.Quasiquote:
			return readAbbreviation(tokens, i, func(d ast.Datum, at token.Position) ast.Datum {
				return &ast.Quasiquote{Value: d, MarkAt: at}
			})
		case token.Unquote:
			return readAbbreviation(tokens, i, func(d ast.Datum, at token.Position) ast.Datum {
				return &ast.Unquote{Value: d, MarkAt: at}
			})
		case token.UnquoteSplice:
			return readAbbreviation(tokens, i, func(d ast.Datum, at token.Position) ast.Datum {
				return &ast.UnquoteSplicing{Value: d, MarkAt: at}
			})
		}
	}

	return nil, i, &errors.SyntaxError{Stage: "parse", Message: "Unexpected token", Pos: tok.Position}
}

func readAbbreviation(tokens []token.Token, i int, wrap func(ast.Datum, token.Position) ast.Datum) (ast.Datum, int, error) {
	mark := tokens[i].Position
	inner, next, err := Read(tokens, i+1)
	if err != nil {
		return nil, next, err
	}
	return wrap(inner, mark), next, nil
}

// readList opens at tokens[i] == "(" and reads datums until ")", handling
// the "." improper-list punctuator.
func readList(tokens []token.Token, i int) (ast.Datum, int, error) {
	open := tokens[i].Position
	i++ // consume "("

	var children []ast.Datum
	for {
		if i >= len(tokens) || tokens[i].Kind == token.EOF {
			return nil, i, unexpectedEOF(tokens)
		}
		tok := tokens[i]

		if tok.Kind == token.PUNCTUATOR && tok.Value == token.RParen {
			i++
			return &ast.List{Children: children, OpenAt: open}, i, nil
		}

		if tok.Kind == token.PUNCTUATOR && tok.Value == token.Dot {
			if len(children) == 0 {
				return nil, i, &errors.SyntaxError{Stage: "parse", Message: "Improper list must start with a datum", Pos: tok.Position}
			}
			dotTok := tok
			i++
			tail, next, err := Read(tokens, i)
			if err != nil {
				return nil, next, err
			}
			i = next
			children = append(children, &ast.Terminal{Token: dotTok}, tail)

			closeTok, ok := expect(tokens, i, token.RParen)
			if !ok {
				return nil, i, expectError(tokens, i, token.RParen)
			}
			_ = closeTok
			i++
			return &ast.List{Children: children, OpenAt: open}, i, nil
		}

		d, next, err := Read(tokens, i)
		if err != nil {
			return nil, next, err
		}
		children = append(children, d)
		i = next
	}
}

// readVector opens at tokens[i] == "#(" and reads datums until ")".
func readVector(tokens []token.Token, i int) (ast.Datum, int, error) {
	open := tokens[i].Position
	i++ // consume "#("

	var children []ast.Datum
	for {
		if i >= len(tokens) || tokens[i].Kind == token.EOF {
			return nil, i, unexpectedEOF(tokens)
		}
		tok := tokens[i]
		if tok.Kind == token.PUNCTUATOR && tok.Value == token.RParen {
			i++
			return &ast.Vector{Children: children, OpenAt: open}, i, nil
		}
		d, next, err := Read(tokens, i)
		if err != nil {
			return nil, next, err
		}
		children = append(children, d)
		i = next
	}
}

func expect(tokens []token.Token, i int, value string) (token.Token, bool) {
	if i >= len(tokens) {
		return token.Token{}, false
	}
	tok := tokens[i]
	return tok, tok.Kind == token.PUNCTUATOR && tok.Value == value
}

func expectError(tokens []token.Token, i int, value string) error {
	pos := errPos(tokens, i)
	msg := "Expected closing parenthesis"
	if value != token.RParen {
		msg = "Expecting " + value
	}
	return &errors.SyntaxError{Stage: "parse", Message: msg, Pos: pos}
}

// unexpectedEOF reports a parse failure positioned at the offending
// token, or the previous token when at EOF.
func unexpectedEOF(tokens []token.Token) error {
	pos := errPos(tokens, len(tokens))
	return &errors.SyntaxError{Stage: "parse", Message: "Unexpected end of input", Pos: pos}
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
