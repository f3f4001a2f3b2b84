package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/repositories"
)

func TestTournamentLocksStayBoundedForUnknownIDs(t *testing.T) {
	locks := NewTournamentLocks()
	standings := NewStandingsService(repositories.NewMemoryStore(), locks, nil)

	for id := 1; id <= 100_000; id++ {
		_, err := standings.Rank(context.Background(), id)
		require.ErrorIs(t, err, ErrTournamentNotFound)
	}

	assert.Len(t, locks.stripes[:], lockStripes)
	for i := range locks.stripes {
		// ни одна блокировка не осталась захваченной
		require.True(t, locks.stripes[i].TryLock(), "stripe %d still held", i)
		locks.stripes[i].Unlock()
	}
}

func TestTournamentLocksSameIDExcludes(t *testing.T) {
	locks := NewTournamentLocks()
	unlock := locks.Lock(7)

	acquired := make(chan struct{})
	go func() {
		release := locks.RLock(7)
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("reader acquired the lock while a writer held it")
	case <-time.After(50 * time.Millisecond):
	}
	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("reader did not acquire the lock after release")
	}
}

func TestTournamentLocksNegativeID(t *testing.T) {
	locks := NewTournamentLocks()
	unlock := locks.Lock(-5)
	unlock()
	runlock := locks.RLock(-5)
	runlock()
}
