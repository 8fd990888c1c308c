package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/arcanequest/internal/chomsky/service"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "Print the token stream of a program",
	Long: `Scans FILE and prints one row per token with its description and
line. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	_, src, err := readSource(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	tokens := newEngine().Tokenize(src)
	out := cmd.OutOrStdout()
	if outputFormat != "text" {
		return writeStructured(out, outputFormat, service.ViewTokens(tokens))
	}
	renderTokens(out, tokens)
	return nil
}
