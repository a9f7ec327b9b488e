// Package cmd provides the painhunt command-line interface.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "painhunt",
	Short: "Find pain points in subreddit discussions",
	Long: "painhunt scans the hot, new and top feeds of subreddits for posts mentioning " +
		"your keywords and exports the matches as JSON or an Excel workbook.",
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "painhunt %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command until it finishes or the process is signalled.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := slog.HandlerOptions{Level: level}
	return slog.New(slog.NewJSONHandler(w, &opts))
}
