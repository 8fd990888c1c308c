package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/arcanequest/internal/chomsky/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chomsky language service",
	Long: `Starts the chomsky gRPC language service (arcane.v1.LanguageService)
in the foreground. The service answers Tokenize, Analyze, History, Stats
and Health calls and implements the standard gRPC health protocol.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default: server.host)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default: server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := server.ConfigFrom(appConfig, logger)
	if serveHost != "" {
		cfg.Host = serveHost
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}

	if srv.Service().HistoryEnabled() && appConfig.Retention() > 0 {
		if _, err := srv.Service().Prune(context.Background(), appConfig.Retention()); err != nil {
			logger.Warn("Failed to prune run history", "error", err)
		}
	}

	if err := srv.StartAsync(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s listening on %s\n", titleStyle.Render("chomsky"), srv.Address())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutdown signal received, stopping server")

	ctx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout.Duration)
	defer cancel()
	return srv.Stop(ctx)
}
