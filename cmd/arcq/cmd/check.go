package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/arcanequest/foundation/arcane"
	"github.com/msto63/arcanequest/internal/chomsky/client"
	"github.com/msto63/arcanequest/internal/chomsky/service"
	"github.com/msto63/arcanequest/internal/chomsky/store"
)

var (
	checkRemote  string
	checkHistory bool
)

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Report the diagnostics of one or more programs",
	Long: `Runs the complete front-end over every FILE and prints its
diagnostics. The exit status is 1 when any file has a problem.

With --remote the files are analyzed by a running chomsky service.
With --history every local run is recorded in the run history.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkRemote, "remote", "", "address of a chomsky service (host:port)")
	checkCmd.Flags().BoolVar(&checkHistory, "history", false, "record runs in the run history")
	rootCmd.AddCommand(checkCmd)
}

// analyzer produces a report for one source text
type analyzer func(ctx context.Context, name, src string) (*service.AnalyzeResponse, error)

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	analyze, cleanup, err := newAnalyzer()
	if err != nil {
		return err
	}
	defer cleanup()

	reports := make([]*service.AnalyzeResponse, 0, len(args))
	failed := false
	for _, path := range args {
		name, src, err := readSource(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}
		report, err := analyze(ctx, name, src)
		if err != nil {
			return err
		}
		reports = append(reports, report)
		if !report.Valid {
			failed = true
		}
	}

	out := cmd.OutOrStdout()
	if outputFormat != "text" {
		if err := writeStructured(out, outputFormat, reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			renderVerdict(out, r.Name, r.Counts)
			renderDiagnostics(out, r.Diagnostics)
		}
		if len(reports) > 1 {
			fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d file(s) checked", len(reports))))
		}
	}

	if failed {
		return errFindings
	}
	return nil
}

func newAnalyzer() (analyzer, func(), error) {
	if checkRemote != "" {
		c, err := client.New(client.Config{Address: checkRemote, Logger: logger})
		if err != nil {
			return nil, nil, err
		}
		analyze := func(ctx context.Context, name, src string) (*service.AnalyzeResponse, error) {
			return c.Analyze(ctx, service.AnalyzeRequest{Name: name, Source: src, OmitTree: true})
		}
		return analyze, func() { c.Close() }, nil
	}

	var runs store.RunStore
	if checkHistory {
		st, err := openHistory()
		if err != nil {
			return nil, nil, err
		}
		runs = st
	}

	cleanup := func() {
		if runs != nil {
			runs.Close()
		}
	}
	return localAnalyzer(newEngine(), runs), cleanup, nil
}

// localAnalyzer runs engine in-process and records every run in runs when
// set. A failed write is logged and does not fail the check.
func localAnalyzer(engine *arcane.Engine, runs store.RunStore) analyzer {
	return func(ctx context.Context, name, src string) (*service.AnalyzeResponse, error) {
		result := engine.Analyze(name, src)
		if runs != nil {
			if err := runs.Record(ctx, store.RunFromResult(result)); err != nil {
				logger.Warn("Failed to record run", "run", result.RunID, "name", name, "error", err)
			}
		}
		return service.NewAnalyzeResponse(result, false), nil
	}
}
