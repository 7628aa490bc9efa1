package renderer

import (
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestWorkerPool_RendersEveryRowExactlyOnce(t *testing.T) {
	const height = 50
	pool := NewWorkerPool(4, 1)

	var mu sync.Mutex
	seen := make(map[int]int)

	pool.RenderRows(height, func(y int, rnd *rand.Rand) {
		mu.Lock()
		seen[y]++
		mu.Unlock()
	})

	if len(seen) != height {
		t.Fatalf("got %d distinct rows rendered, want %d", len(seen), height)
	}
	for y, count := range seen {
		if count != 1 {
			t.Errorf("row %d rendered %d times, want 1", y, count)
		}
	}
}

func TestWorkerPool_WorkersGetIndependentRNGs(t *testing.T) {
	const height = 200
	pool := NewWorkerPool(8, 42)

	var mu sync.Mutex
	rngsSeen := make(map[*rand.Rand]bool)

	pool.RenderRows(height, func(y int, rnd *rand.Rand) {
		mu.Lock()
		rngsSeen[rnd] = true
		mu.Unlock()
	})

	if len(rngsSeen) < 2 {
		t.Errorf("expected multiple distinct worker RNGs across %d rows, saw %d", height, len(rngsSeen))
	}
}

func TestWorkerPool_ZeroOrNegativeSizeDefaultsToNumCPU(t *testing.T) {
	for _, size := range []int{0, -3} {
		pool := NewWorkerPool(size, 1)
		if pool.numWorkers != runtime.NumCPU() {
			t.Errorf("NewWorkerPool(%d).numWorkers = %d, want runtime.NumCPU() = %d", size, pool.numWorkers, runtime.NumCPU())
		}
	}
}

func TestWorkerPool_RendersAllRowsUnderConcurrentWorkers(t *testing.T) {
	const height = 1000
	pool := NewWorkerPool(4, 7)

	var total int64
	pool.RenderRows(height, func(y int, rnd *rand.Rand) {
		atomic.AddInt64(&total, 1)
	})

	if total != height {
		t.Errorf("rendered %d rows total, want %d", total, height)
	}
}
