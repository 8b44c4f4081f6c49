// Command traceanalyze is the operator-facing front end for the
// trajectory-analytics core: it runs the orchestrator against a GPX
// vehicle/route pair, converts legacy stop-zone CSVs to GPX waypoints, and
// lists past runs from the local history store.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"gpstrace.dev/internal/trip"
)

var (
	flagLogFile   string
	flagHistoryDB string
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		var aerr trip.AnalysisError
		if isAnalysisError(err, &aerr) {
			fmt.Fprintln(os.Stderr, aerr.Error())
			os.Exit(aerr.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "traceanalyze",
		Short:         "Analyze GPS vehicle traces for loops, speeding, stops, and liveness",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging()
		},
	}
	root.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "rotate logs to this path instead of stderr")
	root.PersistentFlags().StringVar(&flagHistoryDB, "history-db", "traceanalyze_history.sqlite3", "path to the run-history sqlite database")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newStopZonesCmd())
	root.AddCommand(newHistoryCmd())
	return root
}

func configureLogging() {
	if flagLogFile == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
		return
	}
	rotator := &lumberjack.Logger{
		Filename:   flagLogFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(rotator, nil)))
}

func isAnalysisError(err error, target *trip.AnalysisError) bool {
	if a, ok := err.(trip.AnalysisError); ok {
		*target = a
		return true
	}
	return false
}
