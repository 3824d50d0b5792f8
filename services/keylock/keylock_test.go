package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockSerializesSameKey(t *testing.T) {
	kl := New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := kl.Lock(1, 2)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestLockDifferentKeysIndependent(t *testing.T) {
	kl := New()

	unlockA := kl.Lock(1, 2)

	// A different pair must not block behind (1, 2)
	done := make(chan struct{})
	go func() {
		unlockB := kl.Lock(1, 3)
		unlockB()
		close(done)
	}()

	<-done
	unlockA()
}

func TestLockReusableAfterUnlock(t *testing.T) {
	kl := New()

	for i := 0; i < 3; i++ {
		unlock := kl.Lock(7, 7)
		unlock()
	}
}
