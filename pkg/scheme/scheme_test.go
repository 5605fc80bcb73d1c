package scheme

import (
	"fmt"
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func TestTokenizeAndParseAgree(t *testing.T) {
	src := "(define (fact n) (if (= n 0) 1 (* n (fact (- n 1)))))"
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if len(tokens) == 0 {
		t.Fatal("Tokenize returned no tokens")
	}
	nodes, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("len(nodes) = %d, want 1", len(nodes))
	}
}

func TestReadDatumRejectsTrailingInput(t *testing.T) {
	if _, err := ReadDatum("1 2"); err == nil {
		t.Fatal("ReadDatum(\"1 2\") succeeded, want a trailing-token error")
	}
}

func TestPrettyPrintSnapshot(t *testing.T) {
	d, err := ReadDatum("(lambda (x y) (+ x y))")
	if err != nil {
		t.Fatalf("ReadDatum error: %v", err)
	}
	snaps.MatchSnapshot(t, fmt.Sprintf("pretty_print_%s", t.Name()), PrettyPrint(d))
}
