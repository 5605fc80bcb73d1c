package cmd

import (
	"fmt"
	"os"

	"github.com/jdmichaud/go-jlisp/internal/errors"
	"github.com/jdmichaud/go-jlisp/internal/printer"
	"github.com/jdmichaud/go-jlisp/internal/token"
	"github.com/jdmichaud/go-jlisp/pkg/scheme"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var evalExpr string
var lexQuery string

var lexCmd = &cobra.Command{
	Use:   "lex [files...]",
	Short: "Tokenize Scheme source and print the resulting tokens",
	Long: `Tokenize one or more Scheme files (or an inline expression given
with -e) and print each token.

Examples:
  jlisp lex script.scm
  jlisp lex -e "(+ 1 2)"
  jlisp lex --json a.scm b.scm`,
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from files")
	lexCmd.Flags().StringVar(&lexQuery, "query", "", "gjson path to extract from the --json output instead of printing it whole")
}

func runLex(cmd *cobra.Command, args []string) error {
	applyConfigDefaults(cmd.Flags().Changed("json"))

	sources, err := collectSources(evalExpr, args)
	if err != nil {
		return err
	}

	for _, src := range sources {
		tokens, err := scheme.Tokenize(src.text, scheme.WithFilename(src.name))
		if err != nil {
			reportSyntaxError(src.name, src.text, err)
			continue
		}
		if jsonOutput {
			printTokensJSON(src.name, tokens)
		} else {
			printTokensText(src.name, len(sources) > 1, tokens)
		}
	}
	return nil
}

func printTokensText(name string, multi bool, tokens []token.Token) {
	if multi {
		fmt.Printf("== %s ==\n", name)
	}
	for _, tok := range tokens {
		if tok.Kind == token.EOF {
			continue
		}
		fmt.Println(printer.DumpToken(tok))
	}
}

func printTokensJSON(name string, tokens []token.Token) {
	doc := "{}"
	doc, _ = sjson.Set(doc, "file", name)
	for i, tok := range tokens {
		if tok.Kind == token.EOF {
			continue
		}
		prefix := fmt.Sprintf("tokens.%d", i)
		doc, _ = sjson.Set(doc, prefix+".kind", tok.Kind.String())
		doc, _ = sjson.Set(doc, prefix+".value", fmt.Sprintf("%v", tok.Value))
		doc, _ = sjson.Set(doc, prefix+".line", tok.Position.Line)
		doc, _ = sjson.Set(doc, prefix+".column", tok.Position.Column)
	}
	if lexQuery != "" {
		fmt.Println(gjson.Get(doc, lexQuery).String())
		return
	}
	fmt.Println(doc)
}

type namedSource struct {
	name string
	text string
}

// collectSources resolves -e / file arguments into an ordered list of
// named source buffers. Multiple file arguments are processed in natural
// order so "file2" precedes "file10".
func collectSources(eval string, args []string) ([]namedSource, error) {
	if eval != "" {
		return []namedSource{{name: "<eval>", text: eval}}, nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("provide a file path or use -e for inline code")
	}
	ordered := orderFiles(args)
	sources := make([]namedSource, 0, len(ordered))
	for _, path := range ordered {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		sources = append(sources, namedSource{name: path, text: string(content)})
	}
	return sources, nil
}

func reportSyntaxError(name, source string, err error) {
	if se, ok := err.(*errors.SyntaxError); ok {
		se.Source = source
		fmt.Fprintln(os.Stderr, se.Format(false))
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
}
