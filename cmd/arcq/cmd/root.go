package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/arcanequest/foundation/arcane"
	mdwerror "github.com/msto63/arcanequest/foundation/core/error"
	"github.com/msto63/arcanequest/pkg/core/config"
	"github.com/msto63/arcanequest/pkg/core/logging"
)

var (
	cfgFile      string
	verbose      bool
	outputFormat string

	appConfig *config.Config
	logger    *logging.Logger
)

// errFindings makes the process exit non-zero without printing anything
// beyond the diagnostics already shown
var errFindings = errors.New("diagnostics reported")

var rootCmd = &cobra.Command{
	Use:   "arcq",
	Short: "ArcaneQuest - Language Front-End",
	Long: `arcq scans, parses and type-checks ArcaneQuest programs.

Commands:
  tokens   - token stream of a program
  parse    - syntax tree with inferred types
  check    - diagnostics only, exit status 1 on any problem
  serve    - run the chomsky language service
  history  - recorded analysis runs`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errFindings) {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $ARCQ_CONFIG or ./arcq.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json or yaml")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		appConfig, err = config.Load(cfgFile)
	} else {
		appConfig, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	switch outputFormat {
	case "text", "json", "yaml":
	default:
		return mdwerror.Newf("unknown output format %q", outputFormat).
			WithCode(mdwerror.CodeInvalidInput).
			WithDetail("flag", "output")
	}

	level := appConfig.General.LogLevel
	if verbose {
		level = "debug"
	}
	logger = logging.NewLogger(logging.LoggerConfig{
		ServiceName: appConfig.General.Name,
		Level:       level,
		Format:      appConfig.General.LogFormat,
		Output:      cmd.ErrOrStderr(),
	})
	return nil
}

// newEngine builds the front-end from the loaded configuration
func newEngine() *arcane.Engine {
	opts := appConfig.FrontendOptions()
	opts.Logger = logger
	return arcane.NewEngine(opts)
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
}
