package parallel

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/tbd/pkg/logging"
)

func newPool(tb testing.TB, workers int) *WorkerPool {
	tb.Helper()
	pool, err := NewWorkerPool(workers, nil)
	require.NoError(tb, err)
	return pool
}

func TestWorkerPoolRunsEveryTask(t *testing.T) {
	pool := newPool(t, 5)

	const n = 50
	var executed [n]atomic.Bool
	for i := 0; i < n; i++ {
		require.True(t, pool.Submit(func() { executed[i].Store(true) }))
	}
	pool.Close()

	for i := range executed {
		assert.True(t, executed[i].Load(), "task %d", i)
	}
}

func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool := newPool(t, 10)

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Submit(func() { atomic.AddInt64(&counter, 1) })
		}()
	}
	wg.Wait()
	pool.Close()

	assert.Equal(t, int64(100), counter)
}

// Closing while other goroutines submit must not panic.
func TestWorkerPoolCloseRace(t *testing.T) {
	for iteration := 0; iteration < 50; iteration++ {
		pool := newPool(t, 4)
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					pool.Submit(func() { time.Sleep(time.Millisecond) })
				}
			}()
		}
		time.Sleep(2 * time.Millisecond)
		pool.Close()
		wg.Wait()
	}
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := newPool(t, 4)
	assert.True(t, pool.Submit(func() {}))
	pool.Close()
	pool.Close()

	assert.False(t, pool.Submit(func() { t.Error("task ran after close") }))
}

func TestWorkerPoolTooManyWorkers(t *testing.T) {
	_, err := NewWorkerPool(MaxWorkers+1, nil)
	assert.ErrorIs(t, err, ErrTooManyWorkers)
}

func TestWorkerPoolRecoversPanics(t *testing.T) {
	log := logging.NewCollector(nil)
	pool, err := NewWorkerPool(4, log)
	require.NoError(t, err)

	var counter int64
	for i := 0; i < 5; i++ {
		pool.Submit(func() { panic("edge exploded") })
	}
	for i := 0; i < 10; i++ {
		pool.Submit(func() { atomic.AddInt64(&counter, 1) })
	}
	pool.Close()

	assert.Equal(t, int64(10), counter)
	assert.Len(t, log.RecordsAt(logging.ErrorLevel), 5)
}

func TestForEach(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 64} {
		out := make([]int, 40)
		require.NoError(t, ForEach(workers, len(out), nil, func(i int) {
			out[i] = i * i
		}))
		for i, v := range out {
			assert.Equal(t, i*i, v, "workers=%d", workers)
		}
	}
}

func TestForEachInlineKeepsOrder(t *testing.T) {
	var order []int
	require.NoError(t, ForEach(1, 5, nil, func(i int) { order = append(order, i) }))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestForEachRecoversPanics(t *testing.T) {
	log := logging.NewCollector(nil)
	out := make([]bool, 4)
	require.NoError(t, ForEach(1, len(out), log, func(i int) {
		if i == 2 {
			panic("bad edge")
		}
		out[i] = true
	}))
	assert.Equal(t, []bool{true, true, false, true}, out)
	assert.Equal(t, logging.ErrorLevel, log.Status())
}

func BenchmarkForEach(b *testing.B) {
	out := make([]float64, 1024)
	for i := 0; i < b.N; i++ {
		_ = ForEach(8, len(out), nil, func(j int) {
			out[j] = float64(j) * 0.5
		})
	}
}
