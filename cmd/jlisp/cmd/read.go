package cmd

import (
	"fmt"

	"github.com/jdmichaud/go-jlisp/internal/printer"
	"github.com/jdmichaud/go-jlisp/pkg/scheme"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"
)

var readCmd = &cobra.Command{
	Use:   "read [files...]",
	Short: "Read one datum from Scheme source and print it back",
	Long: `Read a single S-expression (atom, list, vector, or abbreviation)
from the given source and pretty-print it. Exactly one datum is
expected; anything trailing past it is an error.`,
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "read inline code instead of reading from files")
}

func runRead(cmd *cobra.Command, args []string) error {
	applyConfigDefaults(cmd.Flags().Changed("json"))

	sources, err := collectSources(evalExpr, args)
	if err != nil {
		return err
	}

	for _, src := range sources {
		d, err := scheme.ReadDatum(src.text, scheme.WithFilename(src.name))
		if err != nil {
			reportSyntaxError(src.name, src.text, err)
			continue
		}
		rendered := printer.PrettyPrint(d)
		if jsonOutput {
			doc, _ := sjson.Set("{}", "file", src.name)
			doc, _ = sjson.Set(doc, "datum", rendered)
			fmt.Println(doc)
		} else {
			fmt.Println(rendered)
		}
	}
	return nil
}
