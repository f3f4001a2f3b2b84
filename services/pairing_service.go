package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

type PairingService interface {
	PairNextRound(ctx context.Context, tournamentID int) ([]models.Pairing, error)
}

type pairingService struct {
	store     repositories.Store
	locks     *TournamentLocks
	generator brackets.PairingGenerator
	logger    *slog.Logger
}

func NewPairingService(store repositories.Store, locks *TournamentLocks, generator brackets.PairingGenerator, logger *slog.Logger) PairingService {
	if logger == nil {
		logger = slog.Default()
	}
	if generator == nil {
		generator = brackets.NewSwissGenerator()
	}
	return &pairingService{store: store, locks: locks, generator: generator, logger: logger}
}

// PairNextRound читает рейтинг и строит пары под одной read-блокировкой. Состояние не меняется.
func (s *pairingService) PairNextRound(ctx context.Context, tournamentID int) ([]models.Pairing, error) {
	unlock := s.locks.RLock(tournamentID)
	defer unlock()

	ranking, err := loadRanking(ctx, s.store, tournamentID)
	if err != nil {
		return nil, err
	}

	pairings, err := s.generator.GeneratePairings(ctx, brackets.GeneratePairingsParams{
		TournamentID: tournamentID,
		Standings:    ranking.standings,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("pairings generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("generator", s.generator.GetName()),
		slog.Int("pairs", len(pairings)))
	return pairings, nil
}
