// Package keylock provides per-(user, course) advisory locks. All progress
// mutations and certificate issuance for one enrollment serialize on the same
// key, so attempt numbers stay dense and check-then-act issuance never races
// in-process. The database unique constraints remain the cross-process guard.
package keylock

import (
	"fmt"
	"sync"
)

type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the (userID, courseID) pair and returns its
// unlock function. Entries are kept for the process lifetime; the map is
// bounded by the number of active enrollments.
func (k *KeyLock) Lock(userID, courseID uint) func() {
	key := fmt.Sprintf("%d:%d", userID, courseID)

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
