package flight

import (
	"errors"
	"sync"
	"time"
)

var errPanicked = errors.New("flight: work panicked")

// Cache memoizes work(k) for a while and coalesces concurrent misses on the
// same key into a single call. Failed work is never cached.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	finished map[K]entry[V]
	pending  map[K]*job[V]

	work func(K) (V, error)
	ttl  time.Duration
	now  func() time.Time
}

type entry[V any] struct {
	val      V
	deadline time.Time // zero => never expires
}

type job[V any] struct {
	val  V
	err  error
	done chan struct{}
}

// NewCache returns a cache whose entries live for ttl. ttl <= 0 keeps
// entries until they are dropped with Forget.
func NewCache[K comparable, V any](ttl time.Duration, work func(K) (V, error)) *Cache[K, V] {
	return &Cache[K, V]{
		finished: make(map[K]entry[V]),
		pending:  make(map[K]*job[V]),
		work:     work,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (p *Cache[K, V]) Get(k K) (V, error) {
	p.mu.Lock()
	if e, ok := p.finished[k]; ok {
		if e.deadline.IsZero() || p.now().Before(e.deadline) {
			p.mu.Unlock()
			return e.val, nil
		}
		delete(p.finished, k)
	}

	if j, ok := p.pending[k]; ok {
		p.mu.Unlock()
		<-j.done
		return j.val, j.err
	}

	j := &job[V]{done: make(chan struct{})}
	p.pending[k] = j
	p.mu.Unlock()

	// A panicking work still releases the waiters, with an error.
	j.err = errPanicked
	defer func() {
		p.mu.Lock()
		if j.err == nil {
			e := entry[V]{val: j.val}
			if p.ttl > 0 {
				e.deadline = p.now().Add(p.ttl)
			}
			p.finished[k] = e
		}
		delete(p.pending, k)
		close(j.done)
		p.mu.Unlock()
	}()

	j.val, j.err = p.work(k)
	return j.val, j.err
}

// Forget drops a cached value so the next Get recomputes it.
func (p *Cache[K, V]) Forget(k K) {
	p.mu.Lock()
	delete(p.finished, k)
	p.mu.Unlock()
}
