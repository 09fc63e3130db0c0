package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// Global flags
	quiet bool

	// printer formats counters with thousands separators.
	printer = message.NewPrinter(language.English)
)

var rootCmd = &cobra.Command{
	Use:   "cachectl",
	Short: "Exercise and inspect cachekit caches",
	Long: `cachectl drives synthetic workloads against an in-process cachekit
cache: fragment-heap churn, fill-and-readback runs, and sizing dry-runs.
It exists to observe allocator and index behavior under load, not to serve
traffic.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
}

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		printer.Fprintf(os.Stdout, format, args...)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
