package locking

import (
	"context"
	"errors"
	"sync"
)

// ErrLockBusy means another request is already mutating the session.
var ErrLockBusy = errors.New("session is locked by another request")

// Locker grants exclusive, non-blocking access to a key. The returned release
// function is safe to call more than once.
type Locker interface {
	TryLock(ctx context.Context, key string) (release func(), err error)
}

// LocalLocker serializes keys within a single process.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]struct{})}
}

func (l *LocalLocker) TryLock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[key]; busy {
		return nil, ErrLockBusy
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}
