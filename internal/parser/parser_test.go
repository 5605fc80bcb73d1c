package parser

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/jdmichaud/go-jlisp/internal/ast"
	"github.com/jdmichaud/go-jlisp/internal/lexer"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func parseSource(t *testing.T, src string) []ast.Node {
	t.Helper()
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", src, err)
	}
	nodes, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return nodes
}

func TestParseVariableAndLiteral(t *testing.T) {
	nodes := parseSource(t, "x 42 #t \"s\"")
	if len(nodes) != 4 {
		t.Fatalf("got %d nodes, want 4", len(nodes))
	}
	if _, ok := nodes[0].(*ast.Variable); !ok {
		t.Errorf("nodes[0] = %T, want *ast.Variable", nodes[0])
	}
	if n, ok := nodes[1].(*ast.Number); !ok || n.Value != 42 {
		t.Errorf("nodes[1] = %#v, want Number(42)", nodes[1])
	}
}

func TestParseDefineVariable(t *testing.T) {
	nodes := parseSource(t, "(define x 10)")
	def, ok := nodes[0].(*ast.Definition)
	if !ok {
		t.Fatalf("nodes[0] = %T, want *ast.Definition", nodes[0])
	}
	if def.Name.Name != "x" {
		t.Errorf("Name = %q, want x", def.Name.Name)
	}
	if _, ok := def.Value.(*ast.Number); !ok {
		t.Errorf("Value = %T, want *ast.Number", def.Value)
	}
}

func TestParseDefineProcedureSugar(t *testing.T) {
	nodes := parseSource(t, "(define (square x) (* x x))")
	def, ok := nodes[0].(*ast.Definition)
	if !ok {
		t.Fatalf("nodes[0] = %T, want *ast.Definition", nodes[0])
	}
	if def.Name.Name != "square" {
		t.Errorf("Name = %q, want square", def.Name.Name)
	}
	lambda, ok := def.Value.(*ast.Lambda)
	if !ok {
		t.Fatalf("Value = %T, want *ast.Lambda", def.Value)
	}
	if len(lambda.Formals.Fixed) != 1 || lambda.Formals.Fixed[0].Name != "x" {
		t.Errorf("Formals = %#v, want [x]", lambda.Formals)
	}
	if len(lambda.Body) != 1 {
		t.Errorf("len(Body) = %d, want 1", len(lambda.Body))
	}
}

func TestParseDefineWithRestFormals(t *testing.T) {
	nodes := parseSource(t, "(define (f a . rest) a)")
	def := nodes[0].(*ast.Definition)
	lambda := def.Value.(*ast.Lambda)
	if lambda.Formals.Rest == nil || lambda.Formals.Rest.Name != "rest" {
		t.Errorf("Formals.Rest = %#v, want rest", lambda.Formals.Rest)
	}
}

func TestParseBeginOfDefinitions(t *testing.T) {
	nodes := parseSource(t, "(begin (define a 1) (define b 2))")
	begin, ok := nodes[0].(*ast.Begin)
	if !ok {
		t.Fatalf("nodes[0] = %T, want *ast.Begin", nodes[0])
	}
	if len(begin.Exprs) != 2 {
		t.Fatalf("len(Exprs) = %d, want 2", len(begin.Exprs))
	}
	if _, ok := begin.Exprs[0].(*ast.Definition); !ok {
		t.Errorf("Exprs[0] = %T, want *ast.Definition", begin.Exprs[0])
	}
}

func TestParseBeginOfExpressionsIsNotADefinition(t *testing.T) {
	nodes := parseSource(t, "(begin 1 2)")
	begin, ok := nodes[0].(*ast.Begin)
	if !ok {
		t.Fatalf("nodes[0] = %T, want *ast.Begin", nodes[0])
	}
	if len(begin.Exprs) != 2 {
		t.Fatalf("len(Exprs) = %d, want 2", len(begin.Exprs))
	}
}

func TestParseLambda(t *testing.T) {
	nodes := parseSource(t, "(lambda (x y) (+ x y))")
	lambda, ok := nodes[0].(*ast.Lambda)
	if !ok {
		t.Fatalf("nodes[0] = %T, want *ast.Lambda", nodes[0])
	}
	if len(lambda.Formals.Fixed) != 2 {
		t.Errorf("len(Formals.Fixed) = %d, want 2", len(lambda.Formals.Fixed))
	}
}

func TestParseLambdaRestOnly(t *testing.T) {
	nodes := parseSource(t, "(lambda args args)")
	lambda := nodes[0].(*ast.Lambda)
	if lambda.Formals.Rest == nil || lambda.Formals.Rest.Name != "args" {
		t.Errorf("Formals.Rest = %#v, want args", lambda.Formals.Rest)
	}
	if len(lambda.Formals.Fixed) != 0 {
		t.Errorf("len(Formals.Fixed) = %d, want 0", len(lambda.Formals.Fixed))
	}
}

func TestParseConditional(t *testing.T) {
	nodes := parseSource(t, "(if #t 1 2)")
	cond, ok := nodes[0].(*ast.Conditional)
	if !ok {
		t.Fatalf("nodes[0] = %T, want *ast.Conditional", nodes[0])
	}
	if cond.Alternate == nil {
		t.Error("Alternate = nil, want a node")
	}
}

func TestParseConditionalWithoutAlternate(t *testing.T) {
	nodes := parseSource(t, "(if #t 1)")
	cond := nodes[0].(*ast.Conditional)
	if cond.Alternate != nil {
		t.Errorf("Alternate = %#v, want nil", cond.Alternate)
	}
}

func TestParseAssignment(t *testing.T) {
	nodes := parseSource(t, "(set! x 5)")
	assign, ok := nodes[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("nodes[0] = %T, want *ast.Assignment", nodes[0])
	}
	if assign.Name.Name != "x" {
		t.Errorf("Name = %q, want x", assign.Name.Name)
	}
}

func TestParseCondWithArrowAndElse(t *testing.T) {
	nodes := parseSource(t, "(cond (#f 1) (#t => car) (else 3))")
	cond, ok := nodes[0].(*ast.Cond)
	if !ok {
		t.Fatalf("nodes[0] = %T, want *ast.Cond", nodes[0])
	}
	if len(cond.Clauses) != 2 {
		t.Fatalf("len(Clauses) = %d, want 2", len(cond.Clauses))
	}
	if cond.Clauses[1].Recipient == nil {
		t.Error("Clauses[1].Recipient = nil, want a node")
	}
	if cond.Else == nil {
		t.Error("Else = nil, want a sequence")
	}
}

func TestParseAndOr(t *testing.T) {
	nodes := parseSource(t, "(and 1 2) (or 1 2)")
	and, ok := nodes[0].(*ast.And)
	if !ok || len(and.Exprs) != 2 {
		t.Fatalf("nodes[0] = %#v, want And with 2 exprs", nodes[0])
	}
	or, ok := nodes[1].(*ast.Or)
	if !ok || len(or.Exprs) != 2 {
		t.Fatalf("nodes[1] = %#v, want Or with 2 exprs", nodes[1])
	}
}

func TestParseLetFamily(t *testing.T) {
	tests := []struct {
		input string
		kind  ast.LetKind
	}{
		{"(let ((x 1)) x)", ast.LetPlain},
		{"(let loop ((x 1)) x)", ast.LetNamed},
		{"(let* ((x 1) (y x)) y)", ast.LetStar},
		{"(letrec ((x 1)) x)", ast.Letrec},
	}
	for _, tt := range tests {
		nodes := parseSource(t, tt.input)
		let, ok := nodes[0].(*ast.Let)
		if !ok {
			t.Fatalf("Parse(%q)[0] = %T, want *ast.Let", tt.input, nodes[0])
		}
		if let.Kind != tt.kind {
			t.Errorf("Parse(%q).Kind = %v, want %v", tt.input, let.Kind, tt.kind)
		}
	}
	named := parseSource(t, "(let loop ((x 1)) x)")[0].(*ast.Let)
	if named.Name == nil || named.Name.Name != "loop" {
		t.Errorf("Name = %#v, want loop", named.Name)
	}
}

func TestParseDo(t *testing.T) {
	nodes := parseSource(t, "(do ((i 0 (+ i 1))) ((= i 3) i) (display i))")
	do, ok := nodes[0].(*ast.Do)
	if !ok {
		t.Fatalf("nodes[0] = %T, want *ast.Do", nodes[0])
	}
	if len(do.Specs) != 1 || do.Specs[0].Step == nil {
		t.Fatalf("Specs = %#v, want one spec with a step", do.Specs)
	}
	if len(do.Commands) != 1 {
		t.Errorf("len(Commands) = %d, want 1", len(do.Commands))
	}
}

func TestParseDelay(t *testing.T) {
	nodes := parseSource(t, "(delay (+ 1 2))")
	if _, ok := nodes[0].(*ast.Delay); !ok {
		t.Fatalf("nodes[0] = %T, want *ast.Delay", nodes[0])
	}
}

func TestParseQuoteFormAndAbbreviation(t *testing.T) {
	nodes := parseSource(t, "(quote (1 2)) '(3 4)")
	for i, n := range nodes {
		if _, ok := n.(*ast.QuotedDatum); !ok {
			t.Errorf("nodes[%d] = %T, want *ast.QuotedDatum", i, n)
		}
	}
}

func TestParseProcedureCall(t *testing.T) {
	nodes := parseSource(t, "(+ 1 2 3)")
	call, ok := nodes[0].(*ast.ProcedureCall)
	if !ok {
		t.Fatalf("nodes[0] = %T, want *ast.ProcedureCall", nodes[0])
	}
	if len(call.Operands) != 3 {
		t.Errorf("len(Operands) = %d, want 3", len(call.Operands))
	}
}

func TestParseUnsupportedFormsAreHardErrors(t *testing.T) {
	tests := []string{
		"(case x (1 'one))",
		"(quasiquote (1 (unquote x)))",
		"`(1 ,x)",
	}
	for _, input := range tests {
		tokens, err := lexer.Tokenize(input)
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", input, err)
		}
		if _, err := Parse(tokens); err == nil {
			t.Errorf("Parse(%q) succeeded, want an unsupported-form error", input)
		}
	}
}

func TestParseKeywordCannotBeAVariable(t *testing.T) {
	tokens, err := lexer.Tokenize("(lambda (if) if)")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if _, err := Parse(tokens); err == nil {
		t.Fatal("Parse succeeded, want an error for a keyword used as a formal")
	}
}

// dumpNode renders an AST node shape deterministically for snapshot
// comparison — not a pretty-printer (see internal/printer for that), just
// enough structure to catch shape regressions in a diff-friendly way.
func dumpNode(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Variable:
		return v.Name
	case *ast.Boolean:
		return fmt.Sprintf("%v", v.Value)
	case *ast.Number:
		return fmt.Sprintf("%v", v.Value)
	case *ast.String:
		return fmt.Sprintf("%q", v.Value)
	case *ast.Character:
		return v.Value
	case *ast.QuotedDatum:
		return "(quote <datum>)"
	case *ast.Definition:
		return fmt.Sprintf("(define %s %s)", v.Name.Name, dumpNode(v.Value))
	case *ast.Lambda:
		return fmt.Sprintf("(lambda %s %s)", dumpFormals(v.Formals), dumpSeq(v.Body))
	case *ast.Conditional:
		if v.Alternate == nil {
			return fmt.Sprintf("(if %s %s)", dumpNode(v.Test), dumpNode(v.Consequent))
		}
		return fmt.Sprintf("(if %s %s %s)", dumpNode(v.Test), dumpNode(v.Consequent), dumpNode(v.Alternate))
	case *ast.Assignment:
		return fmt.Sprintf("(set! %s %s)", v.Name.Name, dumpNode(v.Value))
	case *ast.Cond:
		var parts []string
		for _, c := range v.Clauses {
			parts = append(parts, fmt.Sprintf("(%s %s)", dumpNode(c.Test), dumpSeq(c.Sequence)))
		}
		if v.Else != nil {
			parts = append(parts, fmt.Sprintf("(else %s)", dumpSeq(v.Else)))
		}
		return fmt.Sprintf("(cond %s)", strings.Join(parts, " "))
	case *ast.And:
		return fmt.Sprintf("(and %s)", dumpSeq(v.Exprs))
	case *ast.Or:
		return fmt.Sprintf("(or %s)", dumpSeq(v.Exprs))
	case *ast.Let:
		return fmt.Sprintf("(let %s)", dumpSeq(v.Body))
	case *ast.Begin:
		return fmt.Sprintf("(begin %s)", dumpSeq(v.Exprs))
	case *ast.Do:
		return "(do ...)"
	case *ast.Delay:
		return fmt.Sprintf("(delay %s)", dumpNode(v.Expr))
	case *ast.ProcedureCall:
		parts := []string{dumpNode(v.Operator)}
		for _, op := range v.Operands {
			parts = append(parts, dumpNode(op))
		}
		return fmt.Sprintf("(%s)", strings.Join(parts, " "))
	default:
		return "<node>"
	}
}

func dumpSeq(nodes []ast.Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = dumpNode(n)
	}
	return strings.Join(parts, " ")
}

func dumpFormals(f ast.Formals) string {
	var parts []string
	for _, v := range f.Fixed {
		parts = append(parts, v.Name)
	}
	if f.Rest != nil {
		if len(parts) == 0 {
			return f.Rest.Name
		}
		return fmt.Sprintf("(%s . %s)", strings.Join(parts, " "), f.Rest.Name)
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

func TestParseProgramSnapshot(t *testing.T) {
	src := "(define (fact n) (if (= n 0) 1 (* n (fact (- n 1)))))"
	nodes := parseSource(t, src)
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(dumpNode(n))
		sb.WriteString("\n")
	}
	snaps.MatchSnapshot(t, sb.String())
}
