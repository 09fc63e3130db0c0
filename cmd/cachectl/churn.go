package main

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/joshuapare/cachekit/cache/heap"
	"github.com/spf13/cobra"
)

var (
	churnSize     int64
	churnFragment int64
	churnWorkers  int
	churnOps      int
	churnMaxAlloc int64
	churnSeed     int64
)

func init() {
	cmd := newChurnCmd()
	cmd.Flags().Int64Var(&churnSize, "size", 64<<20, "Heap region size in bytes")
	cmd.Flags().Int64Var(&churnFragment, "fragment", 256, "Fragment size in bytes")
	cmd.Flags().IntVar(&churnWorkers, "workers", 8, "Concurrent workers")
	cmd.Flags().IntVar(&churnOps, "ops", 10000, "Alloc/free pairs per worker")
	cmd.Flags().Int64Var(&churnMaxAlloc, "max-alloc", 4096, "Largest request size")
	cmd.Flags().Int64Var(&churnSeed, "seed", 1, "Workload seed")
	rootCmd.AddCommand(cmd)
}

func newChurnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "churn",
		Short: "Hammer a fragment heap with concurrent alloc/free pairs",
		Long: `The churn command runs N workers, each performing random alloc/free
pairs against one shared fragment heap, then checks that the heap conserved
its region: used bytes plus free-stack bytes must equal the region size.

Example:
  cachectl churn --size 67108864 --workers 16 --ops 100000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChurn()
		},
	}
}

func runChurn() error {
	h, err := heap.New(make([]byte, churnSize), churnFragment, nil)
	if err != nil {
		return err
	}

	start := time.Now()
	var wg sync.WaitGroup
	var misses int64
	var missMu sync.Mutex

	for w := 0; w < churnWorkers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			localMisses := int64(0)
			for i := 0; i < churnOps; i++ {
				e, ok := h.Alloc(rng.Int63n(churnMaxAlloc) + 1)
				if !ok {
					localMisses++
					continue
				}
				h.Bytes(e)[0] = byte(seed)
				h.Free(e)
			}
			missMu.Lock()
			misses += localMisses
			missMu.Unlock()
		}(churnSeed + int64(w))
	}
	wg.Wait()
	elapsed := time.Since(start)

	s := h.Stats()
	printInfo("workers:      %d\n", churnWorkers)
	printInfo("ops/worker:   %d\n", churnOps)
	printInfo("elapsed:      %s\n", elapsed)
	printInfo("allocs:       %d (%d misses)\n", s.AllocCalls, misses)
	printInfo("bytes out/in: %d / %d\n", s.BytesOut, s.BytesIn)
	printInfo("splits:       %d\n", s.Splits)
	printInfo("free stack:   %d extents, %d bytes\n", s.FreeDepth, s.FreeBytes)

	if got := h.Used() + s.FreeBytes; got != h.Size() {
		return fmt.Errorf("conservation violated: used %d + free %d != region %d",
			h.Used(), s.FreeBytes, h.Size())
	}
	printInfo("conservation: ok (used %d + free %d == %d)\n",
		h.Used(), s.FreeBytes, h.Size())
	return nil
}
