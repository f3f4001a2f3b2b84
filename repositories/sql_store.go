package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/swiss-tournament/models"
)

// sqlDialect описывает различия между Postgres и SQLite: плейсхолдеры и коды ошибок.
type sqlDialect struct {
	name                  string
	rebind                func(query string) string
	isUniqueViolation     func(err error) bool
	isForeignKeyViolation func(err error) bool
	// snapshotTx: параметры транзакции, в которой ReadSnapshot читает таблицу и матчи
	snapshotTx *sql.TxOptions
}

// sqlStore implements Store on top of database/sql. Queries are written with "?"
// placeholders and rebound per dialect.
type sqlStore struct {
	db      *sql.DB
	dialect sqlDialect
	now     func() time.Time
}

func newSQLStore(db *sql.DB, dialect sqlDialect) *sqlStore {
	return &sqlStore{
		db:      db,
		dialect: dialect,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *sqlStore) q(query string) string {
	return s.dialect.rebind(query)
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

func (s *sqlStore) CreatePlayer(ctx context.Context, player *models.Player) error {
	player.CreatedAt = s.now()
	err := s.db.QueryRowContext(ctx,
		s.q(`INSERT INTO players (name, created_at) VALUES (?, ?) RETURNING id`),
		player.Name, player.CreatedAt,
	).Scan(&player.ID)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (s *sqlStore) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	p := &models.Player{}
	err := s.db.QueryRowContext(ctx,
		s.q(`SELECT id, name, created_at FROM players WHERE id = ?`), id,
	).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	return p, nil
}

func (s *sqlStore) CreateTournament(ctx context.Context, tournament *models.Tournament) error {
	tournament.CreatedAt = s.now()
	err := s.db.QueryRowContext(ctx,
		s.q(`INSERT INTO tournaments (name, created_at) VALUES (?, ?) RETURNING id`),
		tournament.Name, tournament.CreatedAt,
	).Scan(&tournament.ID)
	if err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (s *sqlStore) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := s.db.QueryRowContext(ctx,
		s.q(`SELECT id, name, created_at FROM tournaments WHERE id = ?`), id,
	).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return t, nil
}

func (s *sqlStore) exists(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) (bool, error) {
	var one int
	err := exec.QueryRowContext(ctx, s.q(query), args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RegisterPlayer создаёт регистрацию и нулевую строку standings в одной транзакции.
func (s *sqlStore) RegisterPlayer(ctx context.Context, tournamentID, playerID int) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		ok, err := s.exists(ctx, tx, `SELECT 1 FROM tournaments WHERE id = ?`, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to check tournament %d: %w", tournamentID, err)
		}
		if !ok {
			return ErrTournamentNotFound
		}
		ok, err = s.exists(ctx, tx, `SELECT 1 FROM players WHERE id = ?`, playerID)
		if err != nil {
			return fmt.Errorf("failed to check player %d: %w", playerID, err)
		}
		if !ok {
			return ErrPlayerNotFound
		}
		ok, err = s.exists(ctx, tx,
			`SELECT 1 FROM registrations WHERE tournament_id = ? AND player_id = ?`, tournamentID, playerID)
		if err != nil {
			return fmt.Errorf("failed to check registration t:%d p:%d: %w", tournamentID, playerID, err)
		}
		if ok {
			return ErrRegistrationConflict
		}

		_, err = tx.ExecContext(ctx,
			s.q(`INSERT INTO registrations (tournament_id, player_id, registered_at) VALUES (?, ?, ?)`),
			tournamentID, playerID, s.now())
		if err != nil {
			// Параллельная регистрация могла успеть раньше нас
			if s.dialect.isUniqueViolation(err) {
				return ErrRegistrationConflict
			}
			return fmt.Errorf("failed to insert registration t:%d p:%d: %w", tournamentID, playerID, err)
		}
		_, err = tx.ExecContext(ctx,
			s.q(`INSERT INTO standings (tournament_id, player_id, wins, draws, losses) VALUES (?, ?, 0, 0, 0)`),
			tournamentID, playerID)
		if err != nil {
			return fmt.Errorf("failed to insert standing t:%d p:%d: %w", tournamentID, playerID, err)
		}
		return nil
	})
}

func (s *sqlStore) CountPlayers(ctx context.Context, tournamentID int) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		s.q(`SELECT count(*) FROM registrations WHERE tournament_id = ?`), tournamentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (s *sqlStore) GetRegisteredPlayers(ctx context.Context, tournamentID int) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT player_id FROM registrations WHERE tournament_id = ? ORDER BY player_id ASC`), tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during registration rows iteration: %w", err)
	}
	return ids, nil
}

// GetStandings returns one row per registered player. The row order carries no
// meaning; ranking is done by the caller.
func (s *sqlStore) GetStandings(ctx context.Context, tournamentID int) ([]*models.TournamentStanding, error) {
	return s.queryStandings(ctx, s.db, tournamentID)
}

func (s *sqlStore) queryStandings(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.TournamentStanding, error) {
	rows, err := exec.QueryContext(ctx, s.q(`
		SELECT st.tournament_id, st.player_id, p.name, st.wins, st.draws, st.losses
		FROM standings st
		JOIN players p ON p.id = st.player_id
		WHERE st.tournament_id = ?
		ORDER BY st.player_id ASC`), tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	standings := make([]*models.TournamentStanding, 0)
	for rows.Next() {
		var st models.TournamentStanding
		if err := rows.Scan(&st.TournamentID, &st.PlayerID, &st.PlayerName, &st.Wins, &st.Draws, &st.Losses); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		standings = append(standings, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during standing rows iteration: %w", err)
	}
	return standings, nil
}

// AppendMatch updates both standings and appends the match row in one transaction.
// A missing standing row aborts the whole transaction with ErrStandingNotFound.
func (s *sqlStore) AppendMatch(ctx context.Context, match *models.Match) error {
	if match.PlayedAt.IsZero() {
		match.PlayedAt = s.now()
	}
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, inc := range matchIncrements(match) {
			// column берётся из фиксированного набора констант, не из ввода пользователя
			query := fmt.Sprintf(`UPDATE standings SET %[1]s = %[1]s + 1 WHERE tournament_id = ? AND player_id = ?`, inc.column)
			result, err := tx.ExecContext(ctx, s.q(query), match.TournamentID, inc.playerID)
			if err != nil {
				return fmt.Errorf("failed to update %s for player %d: %w", inc.column, inc.playerID, err)
			}
			if err := checkAffectedRows(result, ErrStandingNotFound); err != nil {
				return err
			}
		}

		var winner interface{}
		if match.WinnerID != nil {
			winner = *match.WinnerID
		}
		err := tx.QueryRowContext(ctx, s.q(`
			INSERT INTO matches (tournament_id, player1_id, player2_id, winner_id, played_at)
			VALUES (?, ?, ?, ?, ?)
			RETURNING id`),
			match.TournamentID, match.Player1ID, match.Player2ID, winner, match.PlayedAt,
		).Scan(&match.ID)
		if err != nil {
			if s.dialect.isForeignKeyViolation(err) {
				return ErrStandingNotFound
			}
			return fmt.Errorf("failed to insert match: %w", err)
		}
		return nil
	})
}

func (s *sqlStore) ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	return s.queryMatches(ctx, s.db, tournamentID)
}

func (s *sqlStore) queryMatches(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error) {
	rows, err := exec.QueryContext(ctx, s.q(`
		SELECT id, tournament_id, player1_id, player2_id, winner_id, played_at
		FROM matches
		WHERE tournament_id = ?
		ORDER BY id ASC`), tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		var winner sql.NullInt64
		if err := rows.Scan(&m.ID, &m.TournamentID, &m.Player1ID, &m.Player2ID, &winner, &m.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		if winner.Valid {
			w := int(winner.Int64)
			m.WinnerID = &w
		}
		matches = append(matches, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

// ReadSnapshot reads standings and matches inside one transaction so both come
// from the same database snapshot.
func (s *sqlStore) ReadSnapshot(ctx context.Context, tournamentID int) ([]*models.TournamentStanding, []*models.Match, error) {
	var (
		standings []*models.TournamentStanding
		matches   []*models.Match
	)
	err := withTxOptions(ctx, s.db, s.dialect.snapshotTx, func(tx *sql.Tx) error {
		var err error
		if standings, err = s.queryStandings(ctx, tx, tournamentID); err != nil {
			return err
		}
		matches, err = s.queryMatches(ctx, tx, tournamentID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return standings, matches, nil
}

// ResetTournament удаляет матчи, затем standings и регистрации. Порядок важен:
// матчи ссылаются на регистрации.
func (s *sqlStore) ResetTournament(ctx context.Context, tournamentID int) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, table := range []string{"matches", "standings", "registrations"} {
			query := fmt.Sprintf(`DELETE FROM %s WHERE tournament_id = ?`, table)
			if _, err := tx.ExecContext(ctx, s.q(query), tournamentID); err != nil {
				return fmt.Errorf("failed to delete %s for tournament %d: %w", table, tournamentID, err)
			}
		}
		return nil
	})
}
