package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "runescope",
		Short:        "Midgard pool metrics ingestor and query service",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	backfillCmd := &cobra.Command{
		Use:   "backfill",
		Short: "Ingest a historical window range",
		RunE:  runBackfill,
	}

	backfillCmd.Flags().String("midgard-url", "https://midgard.ninerealms.com/v2", "Midgard base URL")
	backfillCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	backfillCmd.Flags().String("from", "", "range start (unix seconds or RFC3339)")
	backfillCmd.Flags().String("to", "", "range end (unix seconds or RFC3339)")
	backfillCmd.Flags().Duration("rate-delay", 2*time.Second, "minimum delay between upstream calls per endpoint family")
	backfillCmd.Flags().Duration("request-timeout", 30*time.Second, "HTTP request timeout")
	backfillCmd.Flags().Bool("resume", false, "resume from the saved progress marker")
	backfillCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(backfillCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Ingest the last completed hour, then every hour",
		RunE:  runHourly,
	}

	runCmd.Flags().String("midgard-url", "https://midgard.ninerealms.com/v2", "Midgard base URL")
	runCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	runCmd.Flags().Duration("rate-delay", 2*time.Second, "minimum delay between upstream calls per endpoint family")
	runCmd.Flags().Duration("request-timeout", 30*time.Second, "HTTP request timeout")
	runCmd.Flags().Bool("once", false, "process a single window and exit")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the depth history API",
		RunE:  runServe,
	}

	serveCmd.Flags().String("listen", ":8080", "listen address")
	serveCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
