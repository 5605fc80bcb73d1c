package printer

import (
	"testing"

	"github.com/jdmichaud/go-jlisp/internal/lexer"
	"github.com/jdmichaud/go-jlisp/internal/reader"
)

func readDatumString(t *testing.T, src string) string {
	t.Helper()
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", src, err)
	}
	d, _, err := reader.Read(tokens, 0)
	if err != nil {
		t.Fatalf("Read(%q) error: %v", src, err)
	}
	return PrettyPrint(d)
}

func TestPrettyPrintRoundTrips(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"#t", "#t"},
		{"#f", "#f"},
		{"hello", "hello"},
		{`"hi"`, `"hi"`},
		{`#\a`, `#\a`},
		{"(1 2 3)", "(1 2 3)"},
		{"(1 . 2)", "(1 . 2)"},
		{"#(1 2 3)", "#(1 2 3)"},
		{"'x", "(quote x)"},
		{"`x", "(quasiquote x)"},
		{",x", "(unquote x)"},
		{",@x", "(unquote-splicing x)"},
		{"()", "()"},
	}
	for _, tt := range tests {
		if got := readDatumString(t, tt.input); got != tt.want {
			t.Errorf("PrettyPrint(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPrettyPrintEscapesStrings(t *testing.T) {
	got := readDatumString(t, `"a\"b\\c"`)
	want := `"a\"b\\c"`
	if got != want {
		t.Errorf("PrettyPrint = %q, want %q", got, want)
	}
}

func TestDumpTokenQuotesStringsAndPunctuators(t *testing.T) {
	tokens, err := lexer.Tokenize(`(hello "hi")`)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	want := []string{
		`(punctuator "(")`,
		`(identifier hello)`,
		`(string "hi")`,
		`(punctuator ")")`,
	}
	for i, w := range want {
		if got := DumpToken(tokens[i]); got != w {
			t.Errorf("DumpToken(%d) = %q, want %q", i, got, w)
		}
	}
}
