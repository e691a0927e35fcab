package services

import "sync"

// accountLocker serializes reconciliation work per account. Checkpoint
// upserts, deletions, and recalculation passes against one account must never
// interleave (each step reads state the previous step wrote), while work on
// different accounts is free to run in parallel.
type accountLocker struct {
	mu    sync.Mutex
	locks map[string]*accountLock
}

// accountLock pairs the per-account mutex with a count of holders and
// waiters. An entry is evicted once the count drops to zero, so the registry
// never outgrows the set of accounts with work in flight.
type accountLock struct {
	mu   sync.Mutex
	refs int
}

func newAccountLocker() *accountLocker {
	return &accountLocker{locks: make(map[string]*accountLock)}
}

// Lock acquires the mutex for an account and returns its unlock function.
func (l *accountLocker) Lock(accountID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[accountID]
	if !ok {
		entry = &accountLock{}
		l.locks[accountID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, accountID)
		}
		l.mu.Unlock()
	}
}
