package parser

import (
	"github.com/jdmichaud/go-jlisp/internal/ast"
	"github.com/jdmichaud/go-jlisp/internal/errors"
	"github.com/jdmichaud/go-jlisp/internal/reader"
	"github.com/jdmichaud/go-jlisp/internal/token"
)

// tryQuoteAbbreviation handles 'datum at expression position, reading the
// quoted datum with the reader rather than recursing into the expression
// grammar. The `, ,@ abbreviations name forms this package does not
// implement, so they produce the same hard "unsupported form" error as
// their keyword spellings.
func tryQuoteAbbreviation(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	if i >= len(tokens) || tokens[i].Kind != token.PUNCTUATOR {
		return nil, i, false, nil
	}
	mark := tokens[i].Position
	switch tokens[i].Value {
	case token.Quote:
		datum, next, err := reader.Read(tokens, i+1)
		if err != nil {
			return nil, next, true, err
		}
		return &ast.QuotedDatum{Datum: datum, At: mark}, next, true, nil
	case token.Quasiquote, token.Unquote, token.UnquoteSplice:
		return nil, i, true, &errors.SyntaxError{
			Stage:   "parse",
			Message: "Unsupported form: " + tokens[i].Value.(string),
			Pos:     mark,
		}
	}
	return nil, i, false, nil
}

// parseQuote is the (quote datum) keyword form; 'datum is handled by
// tryQuoteAbbreviation above.
func parseQuote(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	at := tokens[i].Position
	i, err := expectOpen(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	i, err = expectKeyword(tokens, i, "quote")
	if err != nil {
		return nil, i, true, err
	}
	datum, next, err := reader.Read(tokens, i)
	if err != nil {
		return nil, next, true, err
	}
	i, err = expectClose(tokens, next)
	if err != nil {
		return nil, i, true, err
	}
	return &ast.QuotedDatum{Datum: datum, At: at}, i, true, nil
}

// parseLambda is (lambda formals body).
func parseLambda(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	at := tokens[i].Position
	i, err := expectOpen(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	i, err = expectKeyword(tokens, i, "lambda")
	if err != nil {
		return nil, i, true, err
	}

	formals, i, err := parseFormals(tokens, i)
	if err != nil {
		return nil, i, true, err
	}

	defs, body, i, err := parseBody(tokens, i)
	if err != nil {
		return nil, i, true, err
	}

	i, err = expectClose(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	return &ast.Lambda{Formals: formals, Definitions: defs, Body: body, At: at}, i, true, nil
}

// parseFormals reads a lambda formals list: "(" var* [. var] ")", a bare
// variable naming a rest-only parameter, or "()" for no parameters.
func parseFormals(tokens []token.Token, i int) (ast.Formals, int, error) {
	if i < len(tokens) && tokens[i].Kind == token.IDENTIFIER {
		v, next, err := expectVariable(tokens, i)
		if err != nil {
			return ast.Formals{}, i, err
		}
		return ast.Formals{Rest: v}, next, nil
	}

	i, err := expectOpen(tokens, i)
	if err != nil {
		return ast.Formals{}, i, err
	}

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

// parseConditional is (if test consequent [alternate]).
func parseConditional(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	at := tokens[i].Position
	i, err := expectOpen(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	i, err = expectKeyword(tokens, i, "if")
	if err != nil {
		return nil, i, true, err
	}

	test, i, err := parseExpression(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	consequent, i, err := parseExpression(tokens, i)
	if err != nil {
		return nil, i, true, err
	}

	var alternate ast.Node
	if !isClose(tokens, i) {
		alternate, i, err = parseExpression(tokens, i)
		if err != nil {
			return nil, i, true, err
		}
	}

	i, err = expectClose(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	return &ast.Conditional{Test: test, Consequent: consequent, Alternate: alternate, At: at}, i, true, nil
}

// parseAssignment is (set! variable expression).
func parseAssignment(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	at := tokens[i].Position
	i, err := expectOpen(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	i, err = expectKeyword(tokens, i, "set!")
	if err != nil {
		return nil, i, true, err
	}
	name, i, err := expectVariable(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	value, i, err := parseExpression(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	i, err = expectClose(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	return &ast.Assignment{Name: name, Value: value, At: at}, i, true, nil
}

// parseCond is (cond clause+) where each clause is one of:
//
//	(test)            -- bare test, no sequence
//	(test => expr)    -- recipient procedure receives test's value
//	(test sequence+)  -- ordinary clause
//	(else sequence+)  -- must be the last clause
func parseCond(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	at := tokens[i].Position
	i, err := expectOpen(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	i, err = expectKeyword(tokens, i, "cond")
	if err != nil {
		return nil, i, true, err
	}

	var cond ast.Cond
	cond.At = at

	for !isClose(tokens, i) {
		clauseStart, err := expectOpen(tokens, i)
		if err != nil {
			return nil, i, true, err
		}
		i = clauseStart

		if kw, ok := keywordAt(tokens, i); ok && kw == "else" {
			i++
			seq, next, err := parseSequence(tokens, i)
			if err != nil {
				return nil, i, true, err
			}
			i, err = expectClose(tokens, next)
			if err != nil {
				return nil, i, true, err
			}
			cond.Else = seq
			break
		}

		test, next, err := parseExpression(tokens, i)
		if err != nil {
			return nil, i, true, err
		}
		i = next

		if isClose(tokens, i) {
			cond.Clauses = append(cond.Clauses, ast.CondClause{Test: test})
			i++
			continue
		}

		if kw, ok := keywordAt(tokens, i); ok && kw == "=>" {
			i++
			recipient, next, err := parseExpression(tokens, i)
			if err != nil {
				return nil, i, true, err
			}
			i, err = expectClose(tokens, next)
			if err != nil {
				return nil, i, true, err
			}
			cond.Clauses = append(cond.Clauses, ast.CondClause{Test: test, Recipient: recipient})
			continue
		}

		seq, next, err := parseSequence(tokens, i)
		if err != nil {
			return nil, i, true, err
		}
		i, err = expectClose(tokens, next)
		if err != nil {
			return nil, i, true, err
		}
		cond.Clauses = append(cond.Clauses, ast.CondClause{Test: test, Sequence: seq})
	}

	if len(cond.Clauses) == 0 && cond.Else == nil {
		return nil, i, true, &errors.SyntaxError{Stage: "parse", Message: "cond requires at least one clause", Pos: at}
	}

	i, err = expectClose(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	return &cond, i, true, nil
}

// parseSequence reads one or more expressions until a closing paren.
func parseSequence(tokens []token.Token, i int) ([]ast.Node, int, error) {
	var seq []ast.Node
	for !isClose(tokens, i) {
		expr, next, err := parseExpression(tokens, i)
		if err != nil {
			return nil, i, err
		}
		seq = append(seq, expr)
		i = next
	}
	if len(seq) == 0 {
		return nil, i, expectError(tokens, i, "an expression")
	}
	return seq, i, nil
}

func parseAnd(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	at := tokens[i].Position
	exprs, i, err := parseVariadicKeywordForm(tokens, i, "and")
	if err != nil {
		return nil, i, true, err
	}
	return &ast.And{Exprs: exprs, At: at}, i, true, nil
}

func parseOr(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	at := tokens[i].Position
	exprs, i, err := parseVariadicKeywordForm(tokens, i, "or")
	if err != nil {
		return nil, i, true, err
	}
	return &ast.Or{Exprs: exprs, At: at}, i, true, nil
}

// parseVariadicKeywordForm reads "(" keyword expr* ")" — shared by and/or.
func parseVariadicKeywordForm(tokens []token.Token, i int, kw string) ([]ast.Node, int, error) {
	i, err := expectOpen(tokens, i)
	if err != nil {
		return nil, i, err
	}
	i, err = expectKeyword(tokens, i, kw)
	if err != nil {
		return nil, i, err
	}
	var exprs []ast.Node
	for !isClose(tokens, i) {
		expr, next, err := parseExpression(tokens, i)
		if err != nil {
			return nil, i, err
		}
		exprs = append(exprs, expr)
		i = next
	}
	return exprs, i + 1, nil
}

func parseBegin(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	at := tokens[i].Position
	exprs, i, err := parseVariadicKeywordForm(tokens, i, "begin")
	if err != nil {
		return nil, i, true, err
	}
	return &ast.Begin{Exprs: exprs, At: at}, i, true, nil
}

func parseDelay(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	at := tokens[i].Position
	i, err := expectOpen(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	i, err = expectKeyword(tokens, i, "delay")
	if err != nil {
		return nil, i, true, err
	}
	expr, i, err := parseExpression(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	i, err = expectClose(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	return &ast.Delay{Expr: expr, At: at}, i, true, nil
}

// parseLet handles both the plain and named forms:
//
//	(let ((v e)*) body)
//	(let name ((v e)*) body)
func parseLet(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	at := tokens[i].Position
	i, err := expectOpen(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	i, err = expectKeyword(tokens, i, "let")
	if err != nil {
		return nil, i, true, err
	}

	let := &ast.Let{Kind: ast.LetPlain, At: at}

	if i < len(tokens) && tokens[i].Kind == token.IDENTIFIER {
		name, next, err := expectVariable(tokens, i)
		if err != nil {
			return nil, i, true, err
		}
		let.Kind = ast.LetNamed
		let.Name = name
		i = next
	}

	bindings, next, err := parseBindings(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	let.Bindings = bindings
	i = next

	defs, body, next, err := parseBody(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	let.Definitions = defs
	let.Body = body
	i = next

	i, err = expectClose(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	return let, i, true, nil
}

func parseLetStar(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	return parseLetFamilyBody(tokens, i, "let*", ast.LetStar)
}

func parseLetrec(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	return parseLetFamilyBody(tokens, i, "letrec", ast.Letrec)
}

func parseLetFamilyBody(tokens []token.Token, i int, kw string, kind ast.LetKind) (ast.Node, int, bool, error) {
	at := tokens[i].Position
	i, err := expectOpen(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	i, err = expectKeyword(tokens, i, kw)
	if err != nil {
		return nil, i, true, err
	}

	bindings, i, err := parseBindings(tokens, i)
	if err != nil {
		return nil, i, true, err
	}

	defs, body, i, err := parseBody(tokens, i)
	if err != nil {
		return nil, i, true, err
	}

	i, err = expectClose(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	return &ast.Let{Kind: kind, Bindings: bindings, Definitions: defs, Body: body, At: at}, i, true, nil
}

// parseBindings reads "(" (variable expression)* ")".
func parseBindings(tokens []token.Token, i int) ([]ast.Binding, int, error) {
	i, err := expectOpen(tokens, i)
	if err != nil {
		return nil, i, err
	}
	var bindings []ast.Binding
	for !isClose(tokens, i) {
		i, err = expectOpen(tokens, i)
		if err != nil {
			return nil, i, err
		}
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
		bindings = append(bindings, ast.Binding{Name: name, Value: value})
	}
	return bindings, i + 1, nil
}

// parseDo is (do ((v init [step])*) (test sequence*) command*).
func parseDo(tokens []token.Token, i int) (ast.Node, int, bool, error) {
	at := tokens[i].Position
	i, err := expectOpen(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	i, err = expectKeyword(tokens, i, "do")
	if err != nil {
		return nil, i, true, err
	}

	i, err = expectOpen(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	var specs []ast.IterationSpec
	for !isClose(tokens, i) {
		i, err = expectOpen(tokens, i)
		if err != nil {
			return nil, i, true, err
		}
		name, next, err := expectVariable(tokens, i)
		if err != nil {
			return nil, i, true, err
		}
		init, next2, err := parseExpression(tokens, next)
		if err != nil {
			return nil, i, true, err
		}
		spec := ast.IterationSpec{Name: name, Init: init}
		if !isClose(tokens, next2) {
			step, next3, err := parseExpression(tokens, next2)
			if err != nil {
				return nil, i, true, err
			}
			spec.Step = step
			next2 = next3
		}
		i, err = expectClose(tokens, next2)
		if err != nil {
			return nil, i, true, err
		}
		specs = append(specs, spec)
	}
	i++ // close the iteration-spec list

	i, err = expectOpen(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	test, i, err := parseExpression(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	var result []ast.Node
	for !isClose(tokens, i) {
		expr, next, err := parseExpression(tokens, i)
		if err != nil {
			return nil, i, true, err
		}
		result = append(result, expr)
		i = next
	}
	i++ // close the (test sequence*) list

	var commands []ast.Node
	for !isClose(tokens, i) {
		expr, next, err := parseExpression(tokens, i)
		if err != nil {
			return nil, i, true, err
		}
		commands = append(commands, expr)
		i = next
	}

	i, err = expectClose(tokens, i)
	if err != nil {
		return nil, i, true, err
	}
	return &ast.Do{Specs: specs, Test: test, Result: result, Commands: commands, At: at}, i, true, nil
}

// parseProcedureCall is "(" operator operand* ")" — the catch-all
// alternative tried once every keyword-headed form has failed to match.
func parseProcedureCall(tokens []token.Token, i int) (ast.Node, int, error) {
	at := tokens[i].Position
	i, err := expectOpen(tokens, i)
	if err != nil {
		return nil, i, err
	}
	operator, i, err := parseExpression(tokens, i)
	if err != nil {
		return nil, i, err
	}
	var operands []ast.Node
	for !isClose(tokens, i) {
		operand, next, err := parseExpression(tokens, i)
		if err != nil {
			return nil, i, err
		}
		operands = append(operands, operand)
		i = next
	}
	i, err = expectClose(tokens, i)
	if err != nil {
		return nil, i, err
	}
	return &ast.ProcedureCall{Operator: operator, Operands: operands, At: at}, i, nil
}
