package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/swiss-tournament/models"
)

// memoryStore keeps everything in process memory. Each method runs under one
// lock, which is what makes AppendMatch atomic here.
type memoryStore struct {
	mu sync.RWMutex

	nextPlayerID     int
	nextTournamentID int
	nextMatchID      int

	players     map[int]*models.Player
	tournaments map[int]*models.Tournament
	standings   map[int]map[int]*models.TournamentStanding // tournament -> player -> standing
	matches     map[int][]*models.Match
}

// NewMemoryStore returns an empty in-memory Store. Useful for local runs and tests.
func NewMemoryStore() Store {
	return &memoryStore{
		players:     make(map[int]*models.Player),
		tournaments: make(map[int]*models.Tournament),
		standings:   make(map[int]map[int]*models.TournamentStanding),
		matches:     make(map[int][]*models.Match),
	}
}

func (s *memoryStore) Ping(context.Context) error { return nil }

func (s *memoryStore) Close() error { return nil }

func (s *memoryStore) CreatePlayer(_ context.Context, player *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPlayerID++
	player.ID = s.nextPlayerID
	player.CreatedAt = time.Now().UTC()
	p := *player
	s.players[p.ID] = &p
	return nil
}

func (s *memoryStore) GetPlayer(_ context.Context, id int) (*models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	c := *p
	return &c, nil
}

func (s *memoryStore) CreateTournament(_ context.Context, tournament *models.Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTournamentID++
	tournament.ID = s.nextTournamentID
	tournament.CreatedAt = time.Now().UTC()
	t := *tournament
	s.tournaments[t.ID] = &t
	return nil
}

func (s *memoryStore) GetTournament(_ context.Context, id int) (*models.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	c := *t
	return &c, nil
}

func (s *memoryStore) RegisterPlayer(_ context.Context, tournamentID, playerID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tournaments[tournamentID]; !ok {
		return ErrTournamentNotFound
	}
	player, ok := s.players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	byPlayer := s.standings[tournamentID]
	if byPlayer == nil {
		byPlayer = make(map[int]*models.TournamentStanding)
		s.standings[tournamentID] = byPlayer
	}
	if _, ok := byPlayer[playerID]; ok {
		return ErrRegistrationConflict
	}
	byPlayer[playerID] = &models.TournamentStanding{
		TournamentID: tournamentID,
		PlayerID:     playerID,
		PlayerName:   player.Name,
	}
	return nil
}

func (s *memoryStore) CountPlayers(_ context.Context, tournamentID int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.standings[tournamentID]), nil
}

func (s *memoryStore) GetRegisteredPlayers(_ context.Context, tournamentID int) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.standings[tournamentID]))
	for id := range s.standings[tournamentID] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

func (s *memoryStore) GetStandings(_ context.Context, tournamentID int) ([]*models.TournamentStanding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.standingsLocked(tournamentID), nil
}

func (s *memoryStore) standingsLocked(tournamentID int) []*models.TournamentStanding {
	standings := make([]*models.TournamentStanding, 0, len(s.standings[tournamentID]))
	for _, st := range s.standings[tournamentID] {
		standings = append(standings, copyStanding(st))
	}
	sort.Slice(standings, func(i, j int) bool { return standings[i].PlayerID < standings[j].PlayerID })
	return standings
}

func (s *memoryStore) AppendMatch(_ context.Context, match *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byPlayer := s.standings[match.TournamentID]
	incs := matchIncrements(match)
	// Сначала проверяем обе строки, потом меняем: частичного применения быть не должно
	for _, inc := range incs {
		if _, ok := byPlayer[inc.playerID]; !ok {
			return ErrStandingNotFound
		}
	}
	for _, inc := range incs {
		st := byPlayer[inc.playerID]
		switch inc.column {
		case columnWins:
			st.Wins++
		case columnDraws:
			st.Draws++
		case columnLosses:
			st.Losses++
		}
	}

	s.nextMatchID++
	match.ID = s.nextMatchID
	if match.PlayedAt.IsZero() {
		match.PlayedAt = time.Now().UTC()
	}
	s.matches[match.TournamentID] = append(s.matches[match.TournamentID], copyMatch(match))
	return nil
}

func (s *memoryStore) ListMatches(_ context.Context, tournamentID int) ([]*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matchesLocked(tournamentID), nil
}

func (s *memoryStore) matchesLocked(tournamentID int) []*models.Match {
	matches := make([]*models.Match, 0, len(s.matches[tournamentID]))
	for _, m := range s.matches[tournamentID] {
		matches = append(matches, copyMatch(m))
	}
	return matches
}

func (s *memoryStore) ReadSnapshot(_ context.Context, tournamentID int) ([]*models.TournamentStanding, []*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.standingsLocked(tournamentID), s.matchesLocked(tournamentID), nil
}

func (s *memoryStore) ResetTournament(_ context.Context, tournamentID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.matches, tournamentID)
	delete(s.standings, tournamentID)
	return nil
}
