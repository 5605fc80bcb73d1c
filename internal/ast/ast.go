package ast

import "github.com/jdmichaud/go-jlisp/internal/token"

// Node is the base interface for every program-AST node. Pretty printing
// lives on internal/printer and operates on Datum, not Node, so Node
// carries no String() method of its own.
type Node interface {
	Pos() token.Position
	nodeKind()
}

// ---------------------------------------------------------------------
// Literals and variables
// ---------------------------------------------------------------------

// Boolean is a literal #t/#f.
type Boolean struct {
	Value bool
	At    token.Position
}

func (b *Boolean) nodeKind()           {}
func (b *Boolean) Pos() token.Position { return b.At }

// Number is a literal decoded double.
type Number struct {
	Value float64
	At    token.Position
}

func (n *Number) nodeKind()           {}
func (n *Number) Pos() token.Position { return n.At }

// String is a literal string.
type String struct {
	Value string
	At    token.Position
}

func (s *String) nodeKind()           {}
func (s *String) Pos() token.Position { return s.At }

// Character is a literal character, stored in its canonical spelling.
type Character struct {
	Value string
	At    token.Position
}

func (c *Character) nodeKind()           {}
func (c *Character) Pos() token.Position { return c.At }

// QuotedDatum is the value of (quote X) or its 'X abbreviation: an
// unevaluated datum carried through to evaluation unchanged.
type QuotedDatum struct {
	Datum Datum
	At    token.Position
}

func (q *QuotedDatum) nodeKind()           {}
func (q *QuotedDatum) Pos() token.Position { return q.At }

// Variable is an identifier reference. It never holds a reserved keyword.
type Variable struct {
	Name string
	At   token.Position
}

func (v *Variable) nodeKind()           {}
func (v *Variable) Pos() token.Position { return v.At }

// ---------------------------------------------------------------------
// Composite forms
// ---------------------------------------------------------------------

// ProcedureCall is (operator operand*).
type ProcedureCall struct {
	Operator Node
	Operands []Node
	At       token.Position
}

func (p *ProcedureCall) nodeKind()           {}
func (p *ProcedureCall) Pos() token.Position { return p.At }

// Formals describes a lambda parameter list: either a flat list of
// variables, a single rest-only variable, or a list plus a trailing rest
// variable.
type Formals struct {
	Fixed []*Variable
	Rest  *Variable // nil unless this formals list has a rest parameter
}

// Lambda is (lambda formals body).
type Lambda struct {
	Formals     Formals
	Definitions []*Definition
	Body        []Node
	At          token.Position
}

func (l *Lambda) nodeKind()           {}
func (l *Lambda) Pos() token.Position { return l.At }

// Definition is (define variable expression), or the desugared form of
// (define (name . formals) body).
type Definition struct {
	Name  *Variable
	Value Node
	At    token.Position
}

func (d *Definition) nodeKind()           {}
func (d *Definition) Pos() token.Position { return d.At }

// Conditional is (if test consequent [alternate]). Test and Consequent
// are always present; Alternate is nil when absent.
type Conditional struct {
	Test       Node
	Consequent Node
	Alternate  Node
	At         token.Position
}

func (c *Conditional) nodeKind()           {}
func (c *Conditional) Pos() token.Position { return c.At }

// Assignment is (set! variable expression).
type Assignment struct {
	Name  *Variable
	Value Node
	At    token.Position
}

func (a *Assignment) nodeKind()           {}
func (a *Assignment) Pos() token.Position { return a.At }

// CondClause is one clause of a Cond: "(test)", "(test => recipient)", or
// "(test sequence)".
type CondClause struct {
	Test      Node
	Recipient Node   // non-nil only for the "=>" form
	Sequence  []Node // empty for the bare "(test)" form
}

// Cond is (cond clause* [else sequence]). At least one clause or an
// else-sequence is always present.
type Cond struct {
	Clauses []CondClause
	Else    []Node // nil when no else clause
	At      token.Position
}

func (c *Cond) nodeKind()           {}
func (c *Cond) Pos() token.Position { return c.At }

// And is (and expr*).
type And struct {
	Exprs []Node
	At    token.Position
}

func (a *And) nodeKind()           {}
func (a *And) Pos() token.Position { return a.At }

// Or is (or expr*).
type Or struct {
	Exprs []Node
	At    token.Position
}

func (o *Or) nodeKind()           {}
func (o *Or) Pos() token.Position { return o.At }

// Binding is one (variable expression) entry of a let-family binding list.
type Binding struct {
	Name  *Variable
	Value Node
}

// LetKind distinguishes the four members of the let family.
type LetKind int

const (
	LetPlain LetKind = iota
	LetNamed
	LetStar
	Letrec
)

// Let covers let, named let, let*, and letrec.
type Let struct {
	Kind        LetKind
	Name        *Variable // non-nil only when Kind == LetNamed
	Bindings    []Binding
	Definitions []*Definition
	Body        []Node
	At          token.Position
}

func (l *Let) nodeKind()           {}
func (l *Let) Pos() token.Position { return l.At }

// Begin is (begin sequence).
type Begin struct {
	Exprs []Node
	At    token.Position
}

func (b *Begin) nodeKind()           {}
func (b *Begin) Pos() token.Position { return b.At }

// IterationSpec is one (variable init [step]) entry of a do-loop.
type IterationSpec struct {
	Name *Variable
	Init Node
	Step Node // nil when absent: the variable is not re-bound each iteration
}

// Do is (do (iteration-spec*) (test sequence) command*).
type Do struct {
	Specs    []IterationSpec
	Test     Node
	Result   []Node
	Commands []Node
	At       token.Position
}

func (d *Do) nodeKind()           {}
func (d *Do) Pos() token.Position { return d.At }

// Delay is (delay expression).
type Delay struct {
	Expr Node
	At   token.Position
}

func (d *Delay) nodeKind()           {}
func (d *Delay) Pos() token.Position { return d.At }
