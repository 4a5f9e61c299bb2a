package autoformat

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSurfacePool_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	const size = 2
	p := &mockProvider{}
	pool := newSurfacePool(p, size)

	var (
		wg      sync.WaitGroup
		current atomic.Int32
		peak    atomic.Int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := pool.Acquire(context.Background())
			if err != nil {
				t.Errorf("Acquire() error: %v", err)
				return
			}
			n := current.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			current.Add(-1)
			_ = s.Release()
		}()
	}
	wg.Wait()

	if got := peak.Load(); got > size {
		t.Errorf("peak concurrent surfaces = %d, want <= %d", got, size)
	}
	if pool.InUse() != 0 {
		t.Errorf("InUse() = %d after all releases", pool.InUse())
	}
}

func TestSurfacePool_AcquireHonorsContext(t *testing.T) {
	t.Parallel()

	pool := newSurfacePool(&mockProvider{}, 1)
	held, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer held.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := pool.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
}

func TestSurfacePool_ReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	p := &mockProvider{}
	pool := newSurfacePool(p, 1)
	s, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Release()
	_ = s.Release()

	if pool.InUse() != 0 {
		t.Errorf("InUse() = %d, want 0", pool.InUse())
	}
	if p.released != 1 {
		t.Errorf("underlying releases = %d, want 1", p.released)
	}
}

func TestSurfacePool_ProviderErrorFreesSlot(t *testing.T) {
	t.Parallel()

	pool := newSurfacePool(&mockProvider{acquireErr: ErrPageCreate}, 1)
	for i := 0; i < 3; i++ {
		if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrPageCreate) {
			t.Fatalf("attempt %d: err = %v, want ErrPageCreate", i, err)
		}
	}
	if pool.InUse() != 0 {
		t.Errorf("InUse() = %d, want 0", pool.InUse())
	}
}

func TestSurfacePool_Close(t *testing.T) {
	t.Parallel()

	p := &mockProvider{}
	pool := newSurfacePool(p, 1)
	if err := pool.Close(); err != nil {
		t.Fatal(err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
	if !p.closed {
		t.Error("provider not closed")
	}
	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("err = %v, want ErrPoolClosed", err)
	}
}

func TestNewSurfacePool_MinimumSize(t *testing.T) {
	t.Parallel()

	if got := newSurfacePool(&mockProvider{}, 0).Size(); got != 1 {
		t.Errorf("Size() = %d, want 1", got)
	}
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	if got := ResolvePoolSize(3); got != 3 {
		t.Errorf("ResolvePoolSize(3) = %d, want 3", got)
	}

	got := ResolvePoolSize(0)
	if got < MinPoolSize || got > MaxPoolSize {
		t.Errorf("ResolvePoolSize(0) = %d, want within [%d, %d]", got, MinPoolSize, MaxPoolSize)
	}
	want := runtime.GOMAXPROCS(0) / cpuDivisor
	if want < MinPoolSize {
		want = MinPoolSize
	}
	if want > MaxPoolSize {
		want = MaxPoolSize
	}
	if got != want {
		t.Errorf("ResolvePoolSize(0) = %d, want %d", got, want)
	}
}
