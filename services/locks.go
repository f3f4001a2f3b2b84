package services

import "sync"

// lockStripes is the fixed number of RWMutexes shared by all tournaments.
const lockStripes = 256

// TournamentLocks maps tournament ids onto a fixed array of RWMutexes. Writers
// (match recording, registration, reset) exclude readers of the same tournament,
// so a Ranking never observes half of a match. Two tournaments may share a
// stripe; they then serialize, which is safe because every operation holds at
// most one tournament lock.
type TournamentLocks struct {
	stripes [lockStripes]sync.RWMutex
}

func NewTournamentLocks() *TournamentLocks {
	return &TournamentLocks{}
}

func (l *TournamentLocks) get(tournamentID int) *sync.RWMutex {
	// uint: отрицательный id не должен дать отрицательный индекс
	return &l.stripes[uint(tournamentID)%lockStripes]
}

// Lock takes the write lock and returns its release func.
func (l *TournamentLocks) Lock(tournamentID int) func() {
	m := l.get(tournamentID)
	m.Lock()
	return m.Unlock
}

// RLock takes the read lock and returns its release func.
func (l *TournamentLocks) RLock(tournamentID int) func() {
	m := l.get(tournamentID)
	m.RLock()
	return m.RUnlock
}
