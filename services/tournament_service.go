package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/storage"
)

// SnapshotArchiver сохраняет снимок турнира во внешнее хранилище перед сбросом.
// Discard удаляет загруженный снимок, если сам сброс не удался.
type SnapshotArchiver interface {
	Archive(ctx context.Context, snapshot *models.TournamentSnapshot) (*storage.UploadResult, error)
	Discard(ctx context.Context, key string) error
}

type TournamentService interface {
	CreateTournament(ctx context.Context, name string) (*models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	CreatePlayer(ctx context.Context, name string) (*models.Player, error)
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	RegisterPlayer(ctx context.Context, tournamentID, playerID int) error
	CountPlayers(ctx context.Context, tournamentID int) (int, error)
	Snapshot(ctx context.Context, tournamentID int) (*models.TournamentSnapshot, error)
	// ResetTournament removes matches, standings and registrations. Players and
	// the tournament itself are kept.
	ResetTournament(ctx context.Context, tournamentID int) (*models.TournamentSnapshot, error)
}

type tournamentService struct {
	store       repositories.Store
	locks       *TournamentLocks
	broadcaster Broadcaster
	archiver    SnapshotArchiver
	logger      *slog.Logger
}

// NewTournamentService: archiver may be nil, then resets are not archived.
func NewTournamentService(
	store repositories.Store,
	locks *TournamentLocks,
	broadcaster Broadcaster,
	archiver SnapshotArchiver,
	logger *slog.Logger,
) TournamentService {
	if logger == nil {
		logger = slog.Default()
	}
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	return &tournamentService{
		store:       store,
		locks:       locks,
		broadcaster: broadcaster,
		archiver:    archiver,
		logger:      logger,
	}
}

func normalizeName(kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: %s name is required", ErrValidationFailed, kind)
	}
	return name, nil
}

func (s *tournamentService) CreateTournament(ctx context.Context, name string) (*models.Tournament, error) {
	name, err := normalizeName("tournament", name)
	if err != nil {
		return nil, err
	}
	t := &models.Tournament{Name: name}
	if err := s.store.CreateTournament(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("tournament created", slog.Int("tournament_id", t.ID))
	return t, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	return s.store.GetTournament(ctx, id)
}

func (s *tournamentService) CreatePlayer(ctx context.Context, name string) (*models.Player, error) {
	name, err := normalizeName("player", name)
	if err != nil {
		return nil, err
	}
	p := &models.Player{Name: name}
	if err := s.store.CreatePlayer(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("player created", slog.Int("player_id", p.ID))
	return p, nil
}

func (s *tournamentService) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	return s.store.GetPlayer(ctx, id)
}

func (s *tournamentService) RegisterPlayer(ctx context.Context, tournamentID, playerID int) error {
	unlock := s.locks.Lock(tournamentID)
	defer unlock()

	if err := s.store.RegisterPlayer(ctx, tournamentID, playerID); err != nil {
		return err
	}
	s.logger.Info("player registered", slog.Int("tournament_id", tournamentID), slog.Int("player_id", playerID))
	return nil
}

func (s *tournamentService) CountPlayers(ctx context.Context, tournamentID int) (int, error) {
	unlock := s.locks.RLock(tournamentID)
	defer unlock()

	if _, err := s.store.GetTournament(ctx, tournamentID); err != nil {
		return 0, err
	}
	return s.store.CountPlayers(ctx, tournamentID)
}

func (s *tournamentService) Snapshot(ctx context.Context, tournamentID int) (*models.TournamentSnapshot, error) {
	unlock := s.locks.RLock(tournamentID)
	defer unlock()
	return s.snapshot(ctx, tournamentID)
}

// snapshot берёт таблицу и журнал матчей одним чтением хранилища. Вызывающий держит блокировку турнира.
func (s *tournamentService) snapshot(ctx context.Context, tournamentID int) (*models.TournamentSnapshot, error) {
	tournament, err := s.store.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	rows, matches, err := s.store.ReadSnapshot(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot of tournament %d: %w", tournamentID, err)
	}
	return &models.TournamentSnapshot{
		Tournament: tournament,
		Standings:  newRanking(tournamentID, rows).standings,
		Matches:    matches,
		TakenAt:    time.Now().UTC(),
	}, nil
}

func (s *tournamentService) ResetTournament(ctx context.Context, tournamentID int) (*models.TournamentSnapshot, error) {
	unlock := s.locks.Lock(tournamentID)
	defer unlock()

	snap, err := s.snapshot(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	payload := TournamentResetPayload{TournamentID: tournamentID}
	var archived *storage.UploadResult
	if s.archiver != nil {
		// Ошибка архивации отменяет сброс
		archived, err = s.archiver.Archive(ctx, snap)
		if err != nil {
			return nil, fmt.Errorf("reset of tournament %d aborted: %w", tournamentID, err)
		}
		payload.ArchiveURL = archived.Location
		s.logger.Info("tournament snapshot archived", slog.Int("tournament_id", tournamentID), slog.String("key", archived.Key))
	}

	if err := s.store.ResetTournament(ctx, tournamentID); err != nil {
		if archived != nil {
			s.discardArchive(ctx, tournamentID, archived.Key)
		}
		return nil, fmt.Errorf("failed to reset tournament %d: %w", tournamentID, err)
	}
	s.logger.Info("tournament reset",
		slog.Int("tournament_id", tournamentID),
		slog.Int("matches_removed", len(snap.Matches)),
		slog.Int("players_unregistered", len(snap.Standings)))

	broadcast(s.broadcaster, tournamentID, brackets.EventTournamentReset, payload)
	return snap, nil
}

// discardArchive удаляет снимок сброса, который так и не произошёл. Ошибка только логируется.
func (s *tournamentService) discardArchive(ctx context.Context, tournamentID int, key string) {
	if err := s.archiver.Discard(ctx, key); err != nil {
		s.logger.Warn("failed to discard archived snapshot",
			slog.Int("tournament_id", tournamentID), slog.String("key", key), slog.Any("error", err))
		return
	}
	s.logger.Info("archived snapshot discarded", slog.Int("tournament_id", tournamentID), slog.String("key", key))
}
