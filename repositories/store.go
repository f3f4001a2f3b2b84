package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/swiss-tournament/models"
)

var (
	ErrPlayerNotFound       = errors.New("player not found")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrRegistrationConflict = errors.New("player is already registered for this tournament")
	ErrStandingNotFound     = errors.New("standing not found: player is not registered for this tournament")
)

// SQLExecutor позволяет передавать в запросы как *sql.DB, так и *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type PlayerRepository interface {
	CreatePlayer(ctx context.Context, player *models.Player) error
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
}

type TournamentRepository interface {
	CreateTournament(ctx context.Context, tournament *models.Tournament) error
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
}

// StandingRepository is the persistence contract the standings and pairing engine relies on.
//
// AppendMatch must apply the match row and both standing increments as one atomic unit
// and fail with ErrStandingNotFound, leaving nothing behind, if either player has no
// standing row. ResetTournament removes matches first, then standings and registrations.
type StandingRepository interface {
	RegisterPlayer(ctx context.Context, tournamentID, playerID int) error
	CountPlayers(ctx context.Context, tournamentID int) (int, error)
	GetRegisteredPlayers(ctx context.Context, tournamentID int) ([]int, error)
	GetStandings(ctx context.Context, tournamentID int) ([]*models.TournamentStanding, error)
	AppendMatch(ctx context.Context, match *models.Match) error
	ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error)
	// ReadSnapshot returns standings and the match log as of one point in time.
	ReadSnapshot(ctx context.Context, tournamentID int) ([]*models.TournamentStanding, []*models.Match, error)
	ResetTournament(ctx context.Context, tournamentID int) error
}

// Store объединяет все репозитории одного бэкенда хранения.
type Store interface {
	PlayerRepository
	TournamentRepository
	StandingRepository
	Ping(ctx context.Context) error
	Close() error
}
