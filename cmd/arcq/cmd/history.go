package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/arcanequest/internal/chomsky/client"
	"github.com/msto63/arcanequest/internal/chomsky/store"
)

var (
	historyName      string
	historyFailed    bool
	historyLimit     int
	historySince     time.Duration
	historyRemote    string
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded analysis runs",
	Long: `Lists the runs recorded by "arcq check --history" or by the chomsky
service, newest first.`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one recorded run with its diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryStats,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove runs older than the retention period",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyRemote, "remote", "", "address of a chomsky service (host:port)")
	historyCmd.Flags().StringVar(&historyName, "name", "", "only runs of this source name")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "only runs with diagnostics")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "only runs within this period (e.g. 24h)")
	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 0, "age limit (default: history.retention_days)")

	historyCmd.AddCommand(historyShowCmd, historyStatsCmd, historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

// historyBackend is the read side shared by the local store and the service
type historyBackend interface {
	Query(ctx context.Context, filter store.RunFilter) ([]*store.Run, error)
	Stats(ctx context.Context) (*store.RunStats, error)
	Close() error
}

// remoteHistory reads the history of a chomsky service
type remoteHistory struct {
	*client.Client
}

func (r remoteHistory) Query(ctx context.Context, filter store.RunFilter) ([]*store.Run, error) {
	return r.History(ctx, filter)
}

func openHistory() (*store.SQLiteRunStore, error) {
	return store.NewSQLiteRunStore(store.SQLiteRunConfig{Path: appConfig.History.Path})
}

func openBackend() (historyBackend, error) {
	if historyRemote != "" {
		c, err := client.New(client.Config{Address: historyRemote, Logger: logger})
		if err != nil {
			return nil, err
		}
		return remoteHistory{c}, nil
	}
	st, err := openHistory()
	if err != nil {
		return nil, err
	}
	return st, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	backend, err := openBackend()
	if err != nil {
		return err
	}
	defer backend.Close()

	filter := store.RunFilter{
		Name:   historyName,
		Failed: historyFailed,
		Limit:  historyLimit,
	}
	if historySince > 0 {
		filter.Since = time.Now().Add(-historySince)
	}

	runs, err := backend.Query(commandContext(cmd), filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat != "text" {
		return writeStructured(out, outputFormat, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("no runs recorded"))
		return nil
	}
	for _, r := range runs {
		renderRun(out, r)
	}
	return nil
}

func renderRun(w io.Writer, r *store.Run) {
	status := successStyle.Render("ok  ")
	if !r.Valid() {
		status = errorStyle.Render("FAIL")
	}
	fmt.Fprintf(w, "%s %s %s %s\n",
		status,
		mutedStyle.Render(r.Timestamp.Local().Format("2006-01-02 15:04:05")),
		r.Name,
		mutedStyle.Render(fmt.Sprintf("[%s] tokens=%d statements=%d lexical=%d syntax=%d semantic=%d",
			r.ID, r.Tokens, r.Statements, r.Lexical, r.Syntax, r.Semantic)))
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	st, err := openHistory()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.Get(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat != "text" {
		return writeStructured(out, outputFormat, run)
	}
	renderRun(out, run)
	renderDiagnostics(out, run.Diagnostics)
	return nil
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	backend, err := openBackend()
	if err != nil {
		return err
	}
	defer backend.Close()

	stats, err := backend.Stats(commandContext(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat != "text" {
		return writeStructured(out, outputFormat, stats)
	}
	fmt.Fprintln(out, titleStyle.Render("Run history"))
	fmt.Fprintf(out, "  runs:   %d\n", stats.TotalRuns)
	fmt.Fprintf(out, "  failed: %d\n", stats.FailedRuns)
	for _, origin := range []string{"lexical", "syntax", "semantic", "internal"} {
		fmt.Fprintf(out, "  %s %d\n", originStyle(origin).Render(fmt.Sprintf("%-8s", origin+":")), stats.Diagnostics[origin])
	}
	if !stats.LastRun.IsZero() {
		fmt.Fprintf(out, "  last:   %s\n", stats.LastRun.Local().Format(time.RFC3339))
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	olderThan := historyOlderThan
	if olderThan <= 0 {
		olderThan = appConfig.Retention()
	}

	st, err := openHistory()
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.Prune(commandContext(cmd), olderThan)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d run(s) older than %s\n", n, olderThan)
	return nil
}
