package services

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"sort"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

// Ranking is an immutable, ordered view of a tournament's standings.
type Ranking struct {
	tournamentID int
	standings    []models.RankedStanding
}

func (r *Ranking) TournamentID() int { return r.tournamentID }

func (r *Ranking) Len() int { return len(r.standings) }

// All yields (rank, standing) pairs, rank starting at 1. Each call restarts from the top.
func (r *Ranking) All() iter.Seq2[int, models.RankedStanding] {
	return func(yield func(int, models.RankedStanding) bool) {
		for _, st := range r.standings {
			if !yield(st.Rank, st) {
				return
			}
		}
	}
}

// Standings returns a copy of the ordered rows.
func (r *Ranking) Standings() []models.RankedStanding {
	out := make([]models.RankedStanding, len(r.standings))
	copy(out, r.standings)
	return out
}

type StandingsService interface {
	Rank(ctx context.Context, tournamentID int) (*Ranking, error)
}

type standingsService struct {
	store  repositories.Store
	locks  *TournamentLocks
	logger *slog.Logger
}

func NewStandingsService(store repositories.Store, locks *TournamentLocks, logger *slog.Logger) StandingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &standingsService{store: store, locks: locks, logger: logger}
}

func (s *standingsService) Rank(ctx context.Context, tournamentID int) (*Ranking, error) {
	unlock := s.locks.RLock(tournamentID)
	defer unlock()
	return loadRanking(ctx, s.store, tournamentID)
}

// loadRanking expects the caller to hold the tournament lock.
func loadRanking(ctx context.Context, store repositories.Store, tournamentID int) (*Ranking, error) {
	if _, err := store.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	rows, err := store.GetStandings(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load standings for tournament %d: %w", tournamentID, err)
	}
	return newRanking(tournamentID, rows), nil
}

// newRanking сортирует по победам (по убыванию), при равенстве по id игрока.
// Ничьи в ключ сортировки не входят.
func newRanking(tournamentID int, rows []*models.TournamentStanding) *Ranking {
	sorted := make([]*models.TournamentStanding, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Wins != sorted[j].Wins {
			return sorted[i].Wins > sorted[j].Wins
		}
		return sorted[i].PlayerID < sorted[j].PlayerID
	})

	ranked := make([]models.RankedStanding, len(sorted))
	for i, st := range sorted {
		ranked[i] = models.NewRankedStanding(i+1, st)
	}
	return &Ranking{tournamentID: tournamentID, standings: ranked}
}
