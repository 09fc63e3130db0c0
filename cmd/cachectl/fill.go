package main

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/joshuapare/cachekit/cache"
	"github.com/spf13/cobra"
)

var (
	fillSize      int64
	fillFragment  int64
	fillKeys      int
	fillValueSize int
)

func init() {
	cmd := newFillCmd()
	cmd.Flags().Int64Var(&fillSize, "size", 64<<20, "Cache capacity in bytes")
	cmd.Flags().Int64Var(&fillFragment, "fragment", 256, "Fragment size in bytes")
	cmd.Flags().IntVar(&fillKeys, "keys", 10000, "Number of keys to insert")
	cmd.Flags().IntVar(&fillValueSize, "value-size", 1024, "Value size in bytes")
	rootCmd.AddCommand(cmd)
}

func newFillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fill",
		Short: "Fill a cache with counter keys and read them all back",
		Long: `The fill command inserts sequential counter keys with fixed-size
values until the requested count or the first out-of-space error, reads
every key back, and reports hit/miss counts with heap occupancy.

Example:
  cachectl fill --keys 50000 --value-size 4096`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill()
		},
	}
}

func runFill() error {
	c, err := cache.New(cache.Config{Size: fillSize, FragmentSize: fillFragment})
	if err != nil {
		return err
	}
	defer c.Close()

	value := bytes.Repeat([]byte{0xCA}, fillValueSize)
	start := time.Now()

	stored := 0
	for i := 0; i < fillKeys; i++ {
		err := c.Put(fmt.Appendf(nil, "counter-%012d", i), value)
		if errors.Is(err, cache.ErrNoSpace) {
			printInfo("out of space after %d keys\n", stored)
			break
		}
		if err != nil {
			return err
		}
		stored++
	}
	putElapsed := time.Since(start)

	start = time.Now()
	hits, misses := 0, 0
	for i := 0; i < stored; i++ {
		got, ok := c.Get(fmt.Appendf(nil, "counter-%012d", i))
		if ok && bytes.Equal(got, value) {
			hits++
		} else {
			misses++
		}
	}
	getElapsed := time.Since(start)

	s := c.HeapStats()
	printInfo("stored:     %d keys in %s\n", stored, putElapsed)
	printInfo("readback:   %d hits, %d misses in %s\n", hits, misses, getElapsed)
	printInfo("indexed:    %d entries\n", c.Len())
	printInfo("used:       %d of %d bytes\n", c.Used(), c.Capacity())
	printInfo("free stack: %d extents, %d bytes\n", s.FreeDepth, s.FreeBytes)

	if misses > 0 {
		return fmt.Errorf("%d stored keys missed on readback", misses)
	}
	return nil
}
