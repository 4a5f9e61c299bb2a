package autoformat

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one surface is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent pages to limit browser memory.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// surfacePool bounds the number of surfaces acquired at once from a
// provider. Acquire blocks until a slot frees up or ctx ends.
type surfacePool struct {
	provider surfaceProvider
	slots    chan struct{}
	mu       sync.Mutex
	closed   bool
}

// newSurfacePool creates a pool allowing n concurrent surfaces.
func newSurfacePool(provider surfaceProvider, n int) *surfacePool {
	if n < 1 {
		n = 1
	}
	return &surfacePool{
		provider: provider,
		slots:    make(chan struct{}, n),
	}
}

// Acquire reserves a slot and returns a surface whose Release frees it.
func (p *surfacePool) Acquire(ctx context.Context) (renderSurface, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, ErrPoolClosed
	}

	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s, err := p.provider.Acquire(ctx)
	if err != nil {
		<-p.slots
		return nil, err
	}
	return &pooledSurface{renderSurface: s, pool: p}, nil
}

// InUse returns the number of surfaces currently held.
func (p *surfacePool) InUse() int {
	return len(p.slots)
}

// Size returns the pool capacity.
func (p *surfacePool) Size() int {
	return cap(p.slots)
}

// Close rejects further acquisitions and closes the provider.
func (p *surfacePool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	return p.provider.Close()
}

// pooledSurface frees its pool slot exactly once on Release.
type pooledSurface struct {
	renderSurface
	pool *surfacePool
	once sync.Once
}

func (s *pooledSurface) Release() error {
	var err error
	s.once.Do(func() {
		err = s.renderSurface.Release()
		<-s.pool.slots
	})
	return err
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
