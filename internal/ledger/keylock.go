package ledger

import (
	"context"
	"sort"
	"sync"
	"time"
)

// lockTable hands out per-key mutual exclusion with a bounded wait. Keys are
// always acquired in sorted order so that two operations touching the same
// pair of records cannot deadlock each other.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: map[string]*lockEntry{}}
}

func (t *lockTable) entry(key string) *lockEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.locks[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		t.locks[key] = e
	}
	e.refs++
	return e
}

func (t *lockTable) put(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.locks[key]
	e.refs--
	if e.refs == 0 {
		delete(t.locks, key)
	}
}

// acquire locks every key or none of them. The wait bound covers the whole
// acquisition; on timeout or context cancellation all locks taken so far are
// released and an error is returned.
func (t *lockTable) acquire(ctx context.Context, wait time.Duration, keys ...string) (func(), error) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	type heldLock struct {
		key   string
		entry *lockEntry
	}
	var held []heldLock

	releaseAll := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i].entry.ch
			t.put(held[i].key)
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	for i, key := range sorted {
		if i > 0 && key == sorted[i-1] {
			continue
		}
		e := t.entry(key)
		select {
		case e.ch <- struct{}{}:
			held = append(held, heldLock{key: key, entry: e})
		case <-timer.C:
			t.put(key)
			releaseAll()
			return nil, ErrConflict
		case <-ctx.Done():
			t.put(key)
			releaseAll()
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() { once.Do(releaseAll) }, nil
}
