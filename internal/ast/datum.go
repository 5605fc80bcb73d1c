// Package ast defines the datum tree produced by the reader and the typed
// program AST produced by the parser.
package ast

import (
	"github.com/jdmichaud/go-jlisp/internal/token"
)

// Datum is the external, syntax-free representation of a Scheme value:
// an atom, a list (possibly improper), a vector, or a reader abbreviation.
type Datum interface {
	// Pos returns the datum's start position for error reporting.
	Pos() token.Position
	datumNode()
}

// Terminal is a leaf datum wrapping a single token (boolean, number,
// string, character, or identifier).
type Terminal struct {
	Token token.Token
}

func (t *Terminal) datumNode()          {}
func (t *Terminal) Pos() token.Position { return t.Token.Position }

// List is a possibly-improper list. An improper list embeds a *Terminal*
// holding the "." punctuator among Children immediately before the final
// (tail) datum: exactly one datum follows the embedded dot, and the dot
// is never the first element.
type List struct {
	Children []Datum
	OpenAt   token.Position
}

func (l *List) datumNode()          {}
func (l *List) Pos() token.Position { return l.OpenAt }

// DotIndex returns the index of the embedded "." Terminal in Children, or
// -1 if this is a proper list.
func (l *List) DotIndex() int {
	for i, d := range l.Children {
		if t, ok := d.(*Terminal); ok && t.Token.Kind == token.PUNCTUATOR && t.Token.Value == token.Dot {
			return i
		}
	}
	return -1
}

// Vector is #(d1 d2 ...).
type Vector struct {
	Children []Datum
	OpenAt   token.Position
}

func (v *Vector) datumNode()          {}
func (v *Vector) Pos() token.Position { return v.OpenAt }

// Quote is the 'x abbreviation, expanding in meaning (not in the reader's
// output) to (quote x).
type Quote struct {
	Value  Datum
	MarkAt token.Position
}

func (q *Quote) datumNode()          {}
func (q *Quote) Pos() token.Position { return q.MarkAt }

// Quasiquote is the `x abbreviation.
type Quasiquote struct {
	Value  Datum
	MarkAt token.Position
}

func (q *Quasiquote) datumNode()          {}
func (q *Quasiquote) Pos() token.Position { return q.MarkAt }

// Unquote is the ,x abbreviation.
type Unquote struct {
	Value  Datum
	MarkAt token.Position
}

func (u *Unquote) datumNode()          {}
func (u *Unquote) Pos() token.Position { return u.MarkAt }

// UnquoteSplicing is the ,@x abbreviation.
type UnquoteSplicing struct {
	Value  Datum
	MarkAt token.Position
}

func (u *UnquoteSplicing) datumNode()          {}
func (u *UnquoteSplicing) Pos() token.Position { return u.MarkAt }
