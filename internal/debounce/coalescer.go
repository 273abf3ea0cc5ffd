package debounce

import (
	"context"
	"sync"
	"time"
)

// DefaultWait arama kutusundaki tuş vuruşları için bekleme süresi.
const DefaultWait = 500 * time.Millisecond

// Coalescer aynı anahtar için art arda gelen çağrıları birleştirir.
// Son çağrıdan wait kadar sonra fn bir kez, son argümanla çalışır ve
// bekleyen tüm çağıranlar aynı sonucu alır.
type Coalescer[A, R any] struct {
	wait time.Duration
	fn   func(ctx context.Context, arg A) (R, error)

	mu      sync.Mutex
	pending map[string]*batch[A, R]
}

type batch[A, R any] struct {
	timer *time.Timer
	arg   A
	due   time.Time
	done  chan struct{}
	res   R
	err   error
}

func New[A, R any](wait time.Duration, fn func(ctx context.Context, arg A) (R, error)) *Coalescer[A, R] {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &Coalescer[A, R]{
		wait:    wait,
		fn:      fn,
		pending: make(map[string]*batch[A, R]),
	}
}

func (c *Coalescer[A, R]) Do(ctx context.Context, key string, arg A) (R, error) {
	c.mu.Lock()
	b, ok := c.pending[key]
	if !ok {
		b = &batch[A, R]{done: make(chan struct{})}
		c.pending[key] = b
		b.timer = time.AfterFunc(c.wait, func() { c.fire(key, b) })
	} else {
		b.timer.Reset(c.wait)
	}
	b.arg = arg
	b.due = time.Now().Add(c.wait)
	c.mu.Unlock()

	select {
	case <-b.done:
		return b.res, b.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Pending anahtar için bekleyen bir çağrı olup olmadığını söyler.
func (c *Coalescer[A, R]) Pending(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[key]
	return ok
}

func (c *Coalescer[A, R]) fire(key string, b *batch[A, R]) {
	c.mu.Lock()
	// Reset sonrası timer ikinci kez tetiklenebilir, batch zaten işlendi
	if c.pending[key] != b {
		c.mu.Unlock()
		return
	}
	// Reset'ten hemen önce tetiklenen timer kilidi geç alabilir; son
	// çağrının bekleme süresi dolmadan çalıştırılmaz
	if left := time.Until(b.due); left > 0 {
		b.timer.Reset(left)
		c.mu.Unlock()
		return
	}
	delete(c.pending, key)
	arg := b.arg
	c.mu.Unlock()

	b.res, b.err = c.fn(context.Background(), arg)
	close(b.done)
}
