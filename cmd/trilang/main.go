// Package main implements the trilang CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"trilang/internal/version"
)

// newRootCmd builds the command tree. Every call returns fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "trilang",
		Short:         "Trigram language identification",
		Long:          `trilang guesses the language of a text by comparing its character trigrams with precomputed language profiles`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("config", "", "path to trilang.toml (default: discovered from the working directory)")
	pf.String("db", "", "language database file")
	pf.String("db-format", "auto", "database format (auto|msgpack|sqlite)")
	pf.String("mode", "default", "scoring mode (default|compat)")
	pf.String("names", "name", "language identifiers (name|iso2|iso3)")
	pf.StringSlice("omit", nil, "languages to leave out")
	pf.StringSlice("only", nil, "languages to keep, all others are left out")
	pf.String("encoding", "auto", "input encoding (auto, utf-8 or any WHATWG label)")
	pf.Int("threshold", 0, "rank table size of samples (default: database threshold)")
	pf.Int("workers", 0, "parallel scoring goroutines (default: GOMAXPROCS)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.String("log-level", "warn", "operator log level (debug|info|warn|error)")

	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval")

	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a runtime trace to file")

	root.AddCommand(
		newDetectCmd(),
		newSearchCmd(),
		newSimilarityCmd(),
		newClusterCmd(),
		newLanguagesCmd(),
		newTrainCmd(),
		newConvertCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "trilang: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
