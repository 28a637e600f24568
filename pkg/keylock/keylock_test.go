package keylock

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLockSerializesSameKey(t *testing.T) {
	k := New()
	key := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(key)
			counter++
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestLockAllDeduplicatesKeys(t *testing.T) {
	k := New()
	key := uuid.New()

	// A duplicate key must not deadlock against itself.
	unlock := k.LockAll([]uuid.UUID{key, key, key})
	unlock()

	unlock = k.Lock(key)
	unlock()
}

func TestLockAllConcurrentDisjointOrders(t *testing.T) {
	k := New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	// Callers present keys in different orders; ordered acquisition must keep
	// them deadlock-free.
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		order := [][]uuid.UUID{{a, b, c}, {c, b, a}, {b, a, c}}[i%3]
		wg.Add(1)
		go func(keys []uuid.UUID) {
			defer wg.Done()
			unlock := k.LockAll(keys)
			unlock()
		}(order)
	}
	wg.Wait()
}
