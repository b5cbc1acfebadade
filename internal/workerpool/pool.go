// Package workerpool provides a fixed-size goroutine pool with a
// submit/wait-all barrier, used to parallelize the chunked stages of the
// WordPiece pipeline (UTF-8 decoding, the fast and linear encoders, LCP
// construction).
package workerpool

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Pool runs submitted tasks across a fixed number of goroutines. A Pool is
// reusable across calls to Wait: each Wait drains the tasks submitted since
// the previous Wait (or since the Pool was created) and resets the internal
// errgroup for the next round.
type Pool struct {
	size int

	mu sync.Mutex
	g  *errgroup.Group
}

// New creates a Pool with the given concurrency limit. A size <= 0 falls
// back to runtime.NumCPU(), and to 8 if NumCPU itself reports no CPUs.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if size <= 0 {
		size = 8
	}
	p := &Pool{size: size}
	p.reset()
	return p
}

// Size reports the pool's configured concurrency limit.
func (p *Pool) Size() int {
	return p.size
}

func (p *Pool) reset() {
	g := &errgroup.Group{}
	g.SetLimit(p.size)
	p.g = g
}

// Submit enqueues fn to run on the pool. Submit may be called concurrently
// with other Submit calls, but not concurrently with Wait.
func (p *Pool) Submit(fn func()) {
	p.mu.Lock()
	g := p.g
	p.mu.Unlock()
	g.Go(func() error {
		fn()
		return nil
	})
}

// Wait blocks until every task submitted since the last Wait has completed,
// then resets the pool so it can be reused.
func (p *Pool) Wait() {
	p.mu.Lock()
	g := p.g
	p.reset()
	p.mu.Unlock()
	_ = g.Wait()
}

var (
	defaultOnce sync.Once
	defaultPool *Pool
	defaultSize int
)

// SetDefaultSize overrides the concurrency of the lazily-created process
// default pool. It has no effect once Default has been called once.
func SetDefaultSize(size int) {
	defaultSize = size
}

// Default returns the process-wide pool, creating it with SetDefaultSize's
// size (or the runtime default) on first use.
func Default() *Pool {
	defaultOnce.Do(func() {
		defaultPool = New(defaultSize)
	})
	return defaultPool
}
