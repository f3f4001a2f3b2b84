package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

type MatchService interface {
	// RecordMatch stores one result. winnerID == nil records a draw.
	RecordMatch(ctx context.Context, tournamentID, player1ID, player2ID int, winnerID *int) (*models.Match, error)
	ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error)
}

type matchService struct {
	store       repositories.Store
	locks       *TournamentLocks
	broadcaster Broadcaster
	logger      *slog.Logger
}

func NewMatchService(store repositories.Store, locks *TournamentLocks, broadcaster Broadcaster, logger *slog.Logger) MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	return &matchService{store: store, locks: locks, broadcaster: broadcaster, logger: logger}
}

func validateMatch(m *models.Match) error {
	if m.Player1ID == m.Player2ID {
		return fmt.Errorf("%w: player %d cannot play against themselves", ErrInvalidMatch, m.Player1ID)
	}
	if m.WinnerID != nil && !m.Involves(*m.WinnerID) {
		return fmt.Errorf("%w: winner %d is not one of %d, %d", ErrInvalidMatch, *m.WinnerID, m.Player1ID, m.Player2ID)
	}
	return nil
}

func (s *matchService) RecordMatch(ctx context.Context, tournamentID, player1ID, player2ID int, winnerID *int) (*models.Match, error) {
	match := &models.Match{
		TournamentID: tournamentID,
		Player1ID:    player1ID,
		Player2ID:    player2ID,
	}
	if winnerID != nil {
		w := *winnerID
		match.WinnerID = &w
	}
	if err := validateMatch(match); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(tournamentID)
	defer unlock()

	if _, err := s.store.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	if err := s.store.AppendMatch(ctx, match); err != nil {
		return nil, mapStoreError(err)
	}

	s.logger.Info("match recorded",
		slog.Int("tournament_id", tournamentID),
		slog.Int("match_id", match.ID),
		slog.Int("player1_id", player1ID),
		slog.Int("player2_id", player2ID),
		slog.Bool("draw", match.IsDraw()))

	s.notify(ctx, match)
	return match, nil
}

// notify рассылает событие со свежей таблицей. Ошибки только логируются: матч уже записан.
func (s *matchService) notify(ctx context.Context, match *models.Match) {
	ranking, err := loadRanking(ctx, s.store, match.TournamentID)
	if err != nil {
		s.logger.Warn("failed to load standings for broadcast",
			slog.Int("tournament_id", match.TournamentID), slog.Any("error", err))
		return
	}
	broadcast(s.broadcaster, match.TournamentID, brackets.EventMatchRecorded, MatchRecordedPayload{
		Match:     match,
		Standings: ranking.standings,
	})
}

func (s *matchService) ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	unlock := s.locks.RLock(tournamentID)
	defer unlock()

	if _, err := s.store.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	matches, err := s.store.ListMatches(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}
