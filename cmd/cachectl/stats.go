package main

import (
	"github.com/spf13/cobra"
)

var (
	statsSize     int64
	statsFragment int64
)

func init() {
	cmd := newStatsCmd()
	cmd.Flags().Int64Var(&statsSize, "size", 64<<20, "Cache capacity in bytes")
	cmd.Flags().Int64Var(&statsFragment, "fragment", 256, "Fragment size in bytes")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show what a capacity and fragment size yield",
		Long: `The stats command is a dry run: it prints the fragment count and a
rounding table for a capacity/fragment pair without mapping any memory.

Example:
  cachectl stats --size 1048576 --fragment 256`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
}

func runStats() error {
	printInfo("capacity:   %d bytes\n", statsSize)
	printInfo("fragment:   %d bytes\n", statsFragment)
	printInfo("fragments:  %d", statsSize/statsFragment)
	if tail := statsSize % statsFragment; tail != 0 {
		printInfo(" (+%d-byte tail)", tail)
	}
	printInfo("\n\nrequest rounding:\n")
	for _, req := range []int64{1, statsFragment, statsFragment + 1,
		2*statsFragment - 1, 4 * statsFragment, 4*statsFragment + 100} {
		rounded := (req + statsFragment - 1) / statsFragment * statsFragment
		printInfo("  %12d -> %12d\n", req, rounded)
	}
	return nil
}
