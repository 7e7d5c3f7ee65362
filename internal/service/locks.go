package service

import "sync"

// keyedLocks serializes syncs per replacement key so two concurrent runs
// cannot interleave their delete/insert against the same console and
// sub-console. Different keys proceed independently.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire blocks until the key's lock is held and returns its release func.
func (k *keyedLocks) acquire(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
