package locker

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/booking-site/internal/domain/booking"
	"github.com/BruksfildServices01/booking-site/internal/httperr"
)

// LocalLocker serializes keys inside one process. Each key owns a one-slot
// channel; entries are dropped once nobody holds or waits for them.
type LocalLocker struct {
	mu   sync.Mutex
	keys map[string]*entry
	wait time.Duration
}

type entry struct {
	slot chan struct{}
	refs int
}

func NewLocalLocker(wait time.Duration) *LocalLocker {
	if wait <= 0 {
		wait = 3 * time.Second
	}
	return &LocalLocker{keys: map[string]*entry{}, wait: wait}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	e := l.acquireEntry(key)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case e.slot <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.slot
				l.releaseEntry(key)
			})
		}, nil
	case <-ctx.Done():
		l.releaseEntry(key)
		return nil, ctx.Err()
	case <-timer.C:
		l.releaseEntry(key)
		return nil, httperr.ErrUnavailable("booking_busy")
	}
}

func (l *LocalLocker) acquireEntry(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.keys[key]
	if !ok {
		e = &entry{slot: make(chan struct{}, 1)}
		l.keys[key] = e
	}
	e.refs++
	return e
}

func (l *LocalLocker) releaseEntry(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.keys[key]
	e.refs--
	if e.refs == 0 {
		delete(l.keys, key)
	}
}

// Len is the number of keys currently held or awaited.
func (l *LocalLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}

var _ booking.Locker = (*LocalLocker)(nil)
