package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/arcanequest/foundation/arcane/ast"
	"github.com/msto63/arcanequest/internal/chomsky/service"
)

var parseShape bool

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Print the syntax tree of a program",
	Long: `Parses and type-checks FILE, then prints the syntax tree annotated
with inferred types followed by the diagnostics. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseShape, "shape", false, "print the compact tree shape only")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	name, src, err := readSource(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	result := newEngine().Analyze(name, src)
	out := cmd.OutOrStdout()

	if outputFormat != "text" {
		return writeStructured(out, outputFormat, service.NewAnalyzeResponse(result, true))
	}

	if parseShape {
		fmt.Fprintln(out, ast.Shape(result.Program))
	} else {
		fmt.Fprintln(out, boxStyle.Render(ast.Sprint(result.Program)))
	}
	if len(result.Diagnostics) > 0 {
		fmt.Fprintln(out, titleStyle.Render("Diagnostics"))
		renderDiagnostics(out, result.Diagnostics)
	}
	return nil
}
