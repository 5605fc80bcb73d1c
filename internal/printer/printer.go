// Package printer renders datums and tokens back to their textual form.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jdmichaud/go-jlisp/internal/ast"
	"github.com/jdmichaud/go-jlisp/internal/token"
)

// PrettyPrint renders a datum the way it would need to be written to be
// read back as the same value: atoms print their token's textual value,
// strings are re-quoted and re-escaped, lists print as "(d1 d2 ...)"
// (improper lists keep their embedded "."), vectors as "#(d1 d2 ...)",
// and reader abbreviations expand to their full keyword-form spelling
// rather than the shorthand punctuation.
func PrettyPrint(d ast.Datum) string {
	var sb strings.Builder
	printDatum(&sb, d)
	return sb.String()
}

func printDatum(sb *strings.Builder, d ast.Datum) {
	switch v := d.(type) {
	case *ast.Terminal:
		printTerminal(sb, v.Token)
	case *ast.List:
		printSeq(sb, "(", ")", v.Children)
	case *ast.Vector:
		printSeq(sb, "#(", ")", v.Children)
	case *ast.Quote:
		printAbbreviation(sb, "quote", v.Value)
	case *ast.Quasiquote:
		printAbbreviation(sb, "quasiquote", v.Value)
	case *ast.Unquote:
		printAbbreviation(sb, "unquote", v.Value)
	case *ast.UnquoteSplicing:
		printAbbreviation(sb, "unquote-splicing", v.Value)
	default:
		fmt.Fprintf(sb, "#<unknown-datum>")
	}
}

func printSeq(sb *strings.Builder, open, close string, children []ast.Datum) {
	sb.WriteString(open)
	for i, c := range children {
		if i > 0 {
			sb.WriteString(" ")
		}
		printDatum(sb, c)
	}
	sb.WriteString(close)
}

func printAbbreviation(sb *strings.Builder, keyword string, value ast.Datum) {
	sb.WriteString("(")
	sb.WriteString(keyword)
	sb.WriteString(" ")
	printDatum(sb, value)
	sb.WriteString(")")
}

func printTerminal(sb *strings.Builder, tok token.Token) {
	switch tok.Kind {
	case token.BOOLEAN:
		if tok.Value.(bool) {
			sb.WriteString("#t")
		} else {
			sb.WriteString("#f")
		}
	case token.STRING:
		sb.WriteString(quoteString(tok.Value.(string)))
	case token.CHARACTER:
		sb.WriteString(tok.Value.(string))
	case token.NUMBER:
		sb.WriteString(formatNumber(tok.Value.(float64)))
	case token.IDENTIFIER:
		sb.WriteString(tok.Value.(string))
	case token.PUNCTUATOR:
		sb.WriteString(tok.Value.(string))
	default:
		sb.WriteString(tok.String())
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// quoteString re-escapes a decoded string value back to its literal
// source spelling: backslash and double-quote are escaped. Embedded
// newlines, which the lexer stores as the two characters "\n", have their
// backslash escaped like any other and print as "\\n"; reading that back
// yields the same token value.
func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// DumpToken renders a single token as "(kind value)", used by the CLI's
// token-dump output mode. Strings and punctuators additionally wrap their
// value in double quotes ("(string \"hello\")", "(punctuator \"(\")");
// every other kind prints its value bare.
func DumpToken(tok token.Token) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(tok.Kind.String())
	sb.WriteString(" ")
	switch tok.Kind {
	case token.STRING:
		sb.WriteString(quoteString(tok.Value.(string)))
	case token.PUNCTUATOR:
		sb.WriteString(`"`)
		sb.WriteString(tok.Value.(string))
		sb.WriteString(`"`)
	default:
		printTerminal(&sb, tok)
	}
	sb.WriteString(")")
	return sb.String()
}
