// Package keylock provides per-key mutual exclusion with deterministic
// multi-key acquisition order, used to serialize batch mutations per product.
package keylock

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// KeyedMutex hands out one mutex per key. Mutexes are created lazily and kept
// for the lifetime of the KeyedMutex; the key space (product ids) is small.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// New creates an empty KeyedMutex
func New() *KeyedMutex {
	return &KeyedMutex{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (k *KeyedMutex) mutex(key uuid.UUID) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// Lock acquires the mutex for a single key and returns its unlock function
func (k *KeyedMutex) Lock(key uuid.UUID) func() {
	m := k.mutex(key)
	m.Lock()
	return m.Unlock
}

// LockAll acquires the mutexes for every key in ascending key order, which
// keeps acquisition deterministic across callers and prevents deadlock when an
// operation spans multiple products. Duplicate keys are locked once. The
// returned function releases all held mutexes.
func (k *KeyedMutex) LockAll(keys []uuid.UUID) func() {
	uniq := make([]uuid.UUID, 0, len(keys))
	seen := make(map[uuid.UUID]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		uniq = append(uniq, key)
	}

	sort.Slice(uniq, func(i, j int) bool {
		return less(uniq[i], uniq[j])
	})

	held := make([]*sync.Mutex, 0, len(uniq))
	for _, key := range uniq {
		m := k.mutex(key)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func less(a, b uuid.UUID) bool {
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
