// Package scheme is the embedder-facing facade over the lexer, reader,
// and parser: Tokenize, ReadDatum, Parse, and PrettyPrint are the only
// entry points a host application needs to turn Scheme source text into
// tokens, datums, or a typed program AST, and back into text.
package scheme

import (
	"github.com/jdmichaud/go-jlisp/internal/ast"
	"github.com/jdmichaud/go-jlisp/internal/lexer"
	"github.com/jdmichaud/go-jlisp/internal/parser"
	"github.com/jdmichaud/go-jlisp/internal/printer"
	"github.com/jdmichaud/go-jlisp/internal/reader"
	"github.com/jdmichaud/go-jlisp/internal/token"
)

// Option configures tokenization; re-exported so callers never need to
// import internal/lexer directly.
type Option = lexer.Option

// WithFilename attaches a filename to the lex errors produced from the
// given source. Reader and parser errors carry no filename.
func WithFilename(name string) Option {
	return lexer.WithFilename(name)
}

// Tokenize scans source into a token stream.
func Tokenize(source string, opts ...Option) ([]token.Token, error) {
	return lexer.Tokenize(source, opts...)
}

// ReadDatum tokenizes source and reads exactly one datum, returning an
// error if the source contains anything other than a single datum
// followed only by atmosphere.
func ReadDatum(source string, opts ...Option) (ast.Datum, error) {
	tokens, err := lexer.Tokenize(source, opts...)
	if err != nil {
		return nil, err
	}
	d, next, err := reader.Read(tokens, 0)
	if err != nil {
		return nil, err
	}
	if next < len(tokens) && tokens[next].Kind != token.EOF {
		return nil, &trailingTokenError{}
	}
	return d, nil
}

// Parse tokenizes source and parses it into a sequence of top-level
// program nodes (expressions and definitions).
func Parse(source string, opts ...Option) ([]ast.Node, error) {
	tokens, err := lexer.Tokenize(source, opts...)
	if err != nil {
		return nil, err
	}
	return parser.Parse(tokens)
}

// PrettyPrint renders a datum back to Scheme source text.
func PrettyPrint(d ast.Datum) string {
	return printer.PrettyPrint(d)
}

type trailingTokenError struct{}

func (e *trailingTokenError) Error() string {
	return "ReadDatum: trailing tokens after the first datum"
}
