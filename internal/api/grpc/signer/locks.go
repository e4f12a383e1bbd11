package signer

import "sync"

// bundleLocks serializes work per bundle path. Entries are dropped once no
// caller holds or waits for them.
type bundleLocks struct {
	mu    sync.Mutex
	locks map[string]*bundleLock
}

type bundleLock struct {
	mu   sync.Mutex
	refs int
}

func newBundleLocks() *bundleLocks {
	return &bundleLocks{locks: make(map[string]*bundleLock)}
}

// lock blocks until key is free and returns the matching unlock.
func (b *bundleLocks) lock(key string) func() {
	b.mu.Lock()

	l, ok := b.locks[key]
	if !ok {
		l = new(bundleLock)
		b.locks[key] = l
	}

	l.refs++
	b.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		b.mu.Lock()
		defer b.mu.Unlock()

		l.refs--
		if l.refs == 0 {
			delete(b.locks, key)
		}
	}
}

func (b *bundleLocks) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.locks)
}
