package chat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parley-ai/parley-backend/internal/domain"
)

func TestSessionLocksSerializeSameID(t *testing.T) {
	locks := newSessionLocks()

	const workers = 50
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("same-session")
			defer unlock()
			// Unguarded increment; only the per-session lock makes it safe.
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestSessionLocksDropIdleEntries(t *testing.T) {
	locks := newSessionLocks()

	unlock := locks.lock(domain.SessionID("s1"))
	unlock()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.entries, "idle entries should be removed")
}

func TestSessionLocksIndependentIDs(t *testing.T) {
	locks := newSessionLocks()

	unlockA := locks.lock("a")
	defer unlockA()

	// Locking a different id must not block.
	done := make(chan struct{})
	go func() {
		unlockB := locks.lock("b")
		unlockB()
		close(done)
	}()
	<-done
}
