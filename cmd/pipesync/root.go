package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pipesync/server/pkg/bootstrap"
)

var (
	Version    = "0.1.0"
	jsonOutput bool
	logFile    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "pipesync",
	Short: "pipesync - copy Pipefy cards into Google Sheets",
	Long: `pipesync mirrors every card of a Pipefy pipe into a Google Sheets tab.

QUICK START:
  pipesync run -c integrations.yaml          # Sync every configured integration
  pipesync headers --pipe 301                # Show the columns a pipe produces

CREDENTIALS are read from the environment (or a .env file):
  PIPEFY_PERSONAL_ACCESS_TOKEN, CLIENT_EMAIL, PRIVATE_KEY, SHEET_TIMEZONE

LOGS are JSON on stderr unless --log-file is given.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a rotating file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to LOG_LEVEL")
	rootCmd.Version = Version
}

// newLogger builds the command logger. The returned func closes the log
// file, if any.
func newLogger(cmd *cobra.Command) (*slog.Logger, func()) {
	level := logLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}

	var w io.Writer = cmd.ErrOrStderr()
	closeFn := func() {}
	if logFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		w = rotating
		closeFn = func() { _ = rotating.Close() }
	}

	return bootstrap.NewLoggerTo(w, "pipesync-cli", bootstrap.ParseLevel(level)), closeFn
}

func outputJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
