package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/madeye/jbind/internal/logging"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "jbind",
	Short: "Descriptor-driven foreign-object binding tool",
	Long:  "jbind inspects type descriptors, validates binding-table documents, and invokes statically bound members of WebAssembly-backed foreign classes.",
	PersistentPreRun: func(*cobra.Command, []string) {
		level := slog.LevelInfo
		switch {
		case quiet:
			level = slog.LevelError
		case verbose:
			level = slog.LevelDebug
		}
		logging.Setup(logging.WithLevel(level))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
}
