package feed

import (
	"context"
	"sync"
)

// UserLocker serializes read-modify-write cycles on one user record.
type UserLocker interface {
	Lock(ctx context.Context, userID string) (unlock func(), err error)
}

// MemoryLocker is a process-local UserLocker. It only serializes requests
// served by the same process.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	ch   chan struct{}
	refs int
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*userLock)}
}

func (m *MemoryLocker) Lock(ctx context.Context, userID string) (func(), error) {
	m.mu.Lock()
	l, ok := m.locks[userID]
	if !ok {
		l = &userLock{ch: make(chan struct{}, 1)}
		m.locks[userID] = l
	}
	l.refs++
	m.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
	case <-ctx.Done():
		m.release(userID, l)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.ch
			m.release(userID, l)
		})
	}, nil
}

func (m *MemoryLocker) release(userID string, l *userLock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, userID)
	}
}
