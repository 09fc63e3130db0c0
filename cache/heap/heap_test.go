package heap

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestHeap(t *testing.T, size, fragment int64) *Heap {
	t.Helper()
	h, err := New(make([]byte, size), fragment, nil)
	require.NoError(t, err)
	return h
}

// checkConservation verifies that live bytes plus free-stack bytes cover
// the whole region.
func checkConservation(t *testing.T, h *Heap) {
	t.Helper()
	s := h.Stats()
	require.Equal(t, h.Size(), h.Used()+s.FreeBytes,
		"used %d + free %d != region %d", h.Used(), s.FreeBytes, h.Size())
}

func Test_Heap_Create(t *testing.T) {
	h := newTestHeap(t, 1<<20, 256)

	require.Equal(t, int64(1<<20), h.Size())
	require.Equal(t, int64(256), h.FragmentSize())
	require.Equal(t, int64(0), h.Used())

	s := h.Stats()
	require.Equal(t, 1, s.FreeDepth)
	require.Equal(t, int64(1<<20), s.FreeBytes)
}

func Test_Heap_CreateErrors(t *testing.T) {
	_, err := New(make([]byte, 4096), 0, nil)
	require.ErrorIs(t, err, ErrBadFragmentSize)

	_, err = New(make([]byte, 4096), -16, nil)
	require.ErrorIs(t, err, ErrBadFragmentSize)

	_, err = New(nil, 256, nil)
	require.ErrorIs(t, err, ErrNoRegion)
}

// The rounding-and-LIFO scenario: three allocations rounded to fragment
// multiples, a free, and a reuse of the freed extent.
func Test_Heap_RoundingAndReuse(t *testing.T) {
	h := newTestHeap(t, 1<<20, 256)

	a, ok := h.Alloc(300)
	require.True(t, ok)
	require.Equal(t, int64(512), a.Size)

	b, ok := h.Alloc(500)
	require.True(t, ok)
	require.Equal(t, int64(512), b.Size)

	c, ok := h.Alloc(100)
	require.True(t, ok)
	require.Equal(t, int64(256), c.Size)

	require.Equal(t, int64(1280), h.Used())
	checkConservation(t, h)

	// Free the middle allocation; the next fitting request must get the
	// same extent back, since freed extents go on top of the stack.
	h.Free(b)
	d, ok := h.Alloc(400)
	require.True(t, ok)
	require.Equal(t, int64(512), d.Size)
	require.Equal(t, b.Off, d.Off)
	checkConservation(t, h)
}

func Test_Heap_Exhaustion(t *testing.T) {
	h := newTestHeap(t, 4096, 256)

	var live []Extent
	for i := 0; i < 16; i++ {
		e, ok := h.Alloc(256)
		require.True(t, ok, "alloc %d", i)
		require.Equal(t, int64(256), e.Size)
		live = append(live, e)
	}
	require.Equal(t, int64(4096), h.Used())

	// The seventeenth has nothing left.
	e, ok := h.Alloc(256)
	require.False(t, ok)
	require.True(t, e.Empty())
	checkConservation(t, h)

	// One free makes the next alloc succeed again.
	h.Free(live[7])
	e, ok = h.Alloc(256)
	require.True(t, ok)
	require.Equal(t, live[7].Off, e.Off)
}

// A failed allocation leaves the stack untouched, even when the top entry
// is a short fragment.
func Test_Heap_ShortTopEntry(t *testing.T) {
	h := newTestHeap(t, 4096, 256)

	a, ok := h.Alloc(3584)
	require.True(t, ok)

	b, ok := h.Alloc(256)
	require.True(t, ok)

	c, ok := h.Alloc(256)
	require.True(t, ok)

	// Top of the stack is now the freed 256-byte fragment.
	h.Free(b)

	_, ok = h.Alloc(512)
	require.False(t, ok, "alloc served from below the stack top")
	checkConservation(t, h)

	// The short top is still there and still usable.
	d, ok := h.Alloc(200)
	require.True(t, ok)
	require.Equal(t, b.Off, d.Off)
	require.Equal(t, int64(256), d.Size)

	_ = a
	_ = c
}

func Test_Heap_BadRequests(t *testing.T) {
	h := newTestHeap(t, 4096, 256)

	_, ok := h.Alloc(0)
	require.False(t, ok)
	_, ok = h.Alloc(-5)
	require.False(t, ok)

	// Freeing the empty extent is a no-op.
	h.Free(Extent{})
	checkConservation(t, h)
	require.Equal(t, int64(0), h.Used())
}

// A region whose size is not a fragment multiple keeps its odd tail.
func Test_Heap_UnalignedRegion(t *testing.T) {
	h := newTestHeap(t, 1000, 256)

	a, ok := h.Alloc(256)
	require.True(t, ok)
	require.Equal(t, int64(256), a.Size)

	b, ok := h.Alloc(256)
	require.True(t, ok)

	c, ok := h.Alloc(256)
	require.True(t, ok)

	// 232 bytes of tail remain; a full fragment no longer fits.
	_, ok = h.Alloc(1)
	require.False(t, ok)
	checkConservation(t, h)

	h.Free(a)
	h.Free(b)
	h.Free(c)
	require.Equal(t, int64(0), h.Used())
	checkConservation(t, h)
}

func Test_Heap_Bytes(t *testing.T) {
	region := make([]byte, 4096)
	h, err := New(region, 256, nil)
	require.NoError(t, err)

	e, ok := h.Alloc(100)
	require.True(t, ok)

	buf := h.Bytes(e)
	require.Len(t, buf, 256)
	for i := range buf {
		buf[i] = 0xAB
	}
	require.Equal(t, byte(0xAB), region[e.Off])
	require.Equal(t, byte(0xAB), region[e.Off+e.Size-1])
	require.Equal(t, byte(0), region[e.Off+e.Size])
}

func Test_Heap_TraceHooks(t *testing.T) {
	var got []Extent
	h, err := New(make([]byte, 4096), 256, &Config{
		OnAlloc: func(e Extent) { got = append(got, e) },
		OnFree:  func(e Extent) { got = append(got, e) },
	})
	require.NoError(t, err)

	e, ok := h.Alloc(100)
	require.True(t, ok)
	h.Free(e)

	// A failed alloc must not fire the hook.
	_, ok = h.Alloc(1 << 20)
	require.False(t, ok)

	require.Equal(t, []Extent{e, e}, got)
}

func Test_Heap_Stats(t *testing.T) {
	h := newTestHeap(t, 4096, 256)

	a, _ := h.Alloc(100)
	b, _ := h.Alloc(600)
	h.Free(a)
	_, ok := h.Alloc(1 << 30)
	require.False(t, ok)

	s := h.Stats()
	require.Equal(t, int64(3), s.AllocCalls)
	require.Equal(t, int64(1), s.FreeCalls)
	require.Equal(t, int64(256+768), s.BytesOut)
	require.Equal(t, int64(256), s.BytesIn)
	require.Equal(t, int64(2), s.Splits)
	require.Equal(t, h.Size()-b.Size, s.FreeBytes)
}

// Random alloc/free churn against a model of live extents, checking
// conservation and rounding throughout.
func Test_Heap_RandomChurn(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const fragment = 128
	h := newTestHeap(t, 1<<18, fragment)

	var live []Extent
	for op := 0; op < 50000; op++ {
		if len(live) == 0 || rng.Intn(2) == 0 {
			n := int64(rng.Intn(4*fragment) + 1)
			e, ok := h.Alloc(n)
			if ok {
				want := (n + fragment - 1) / fragment * fragment
				require.Equal(t, want, e.Size, "op %d: alloc(%d)", op, n)
				live = append(live, e)
			}
		} else {
			i := rng.Intn(len(live))
			h.Free(live[i])
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}

	var liveBytes int64
	for _, e := range live {
		liveBytes += e.Size
	}
	require.Equal(t, liveBytes, h.Used())
	checkConservation(t, h)

	for _, e := range live {
		h.Free(e)
	}
	require.Equal(t, int64(0), h.Used())
	checkConservation(t, h)
}

// Live extents must never overlap, whatever the alloc/free interleaving.
func Test_Heap_DisjointExtents(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	h := newTestHeap(t, 1<<16, 256)

	var live []Extent
	overlaps := func(a, b Extent) bool {
		return a.Off < b.Off+b.Size && b.Off < a.Off+a.Size
	}
	for op := 0; op < 5000; op++ {
		if len(live) == 0 || rng.Intn(3) > 0 {
			e, ok := h.Alloc(int64(rng.Intn(1024) + 1))
			if !ok {
				continue
			}
			for _, other := range live {
				require.False(t, overlaps(e, other),
					"op %d: extent %+v overlaps %+v", op, e, other)
			}
			live = append(live, e)
		} else {
			i := rng.Intn(len(live))
			h.Free(live[i])
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}
}

// N goroutines hammering alloc/free pairs must preserve conservation at
// quiescence.
func Test_Heap_ConcurrentChurn(t *testing.T) {
	const (
		workers      = 8
		opsPerWorker = 10000
	)
	h := newTestHeap(t, 1<<20, 256)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < opsPerWorker; i++ {
				e, ok := h.Alloc(int64(rng.Intn(2048) + 1))
				if !ok {
					continue
				}
				// Touch the extent to surface data races on the region.
				h.Bytes(e)[0] = byte(seed)
				h.Free(e)
			}
		}(int64(w + 1))
	}
	wg.Wait()

	require.Equal(t, int64(0), h.Used())
	checkConservation(t, h)

	s := h.Stats()
	require.Equal(t, s.BytesOut, s.BytesIn)
}

func Benchmark_Heap_AllocFree(b *testing.B) {
	h, err := New(make([]byte, 1<<20), 256, nil)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		e, ok := h.Alloc(300)
		if !ok {
			b.Fatal("alloc failed")
		}
		h.Free(e)
	}
}

func Benchmark_Heap_ConcurrentAllocFree(b *testing.B) {
	h, err := New(make([]byte, 1<<22), 256, nil)
	if err != nil {
		b.Fatal(err)
	}

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			e, ok := h.Alloc(512)
			if ok {
				h.Free(e)
			}
		}
	})
}
