package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "jlisp",
	Short: "A Scheme lexer, reader, and parser front end",
	Long: `jlisp tokenizes, reads, and parses Scheme source text without
evaluating it. It is a front end only: lex splits source into tokens,
read groups tokens into datum trees, and parse classifies datums into a
typed program AST.`,
	Version: Version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit structured JSON instead of plain text")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
