package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Dosada05/swiss-tournament/models"
)

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError // Возвращаем переданную ошибку "не найдено"
	}
	return nil
}

// withTx runs fn inside a transaction. fn's error (or a panic) rolls it back.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	return withTxOptions(ctx, db, nil, fn)
}

func withTxOptions(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// rebindDollar переписывает плейсхолдеры "?" в "$1, $2, ..." для Postgres.
func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// standingIncrement is one "column + 1" update applied by AppendMatch.
type standingIncrement struct {
	playerID int
	column   string
}

const (
	columnWins   = "wins"
	columnDraws  = "draws"
	columnLosses = "losses"
)

// matchIncrements returns the standing updates a match implies, ordered by player id
// so that concurrent writers always lock rows in the same order.
func matchIncrements(m *models.Match) []standingIncrement {
	var incs []standingIncrement
	if m.WinnerID == nil {
		incs = []standingIncrement{
			{playerID: m.Player1ID, column: columnDraws},
			{playerID: m.Player2ID, column: columnDraws},
		}
	} else {
		incs = []standingIncrement{
			{playerID: *m.WinnerID, column: columnWins},
			{playerID: m.LoserID(), column: columnLosses},
		}
	}
	sort.Slice(incs, func(i, j int) bool { return incs[i].playerID < incs[j].playerID })
	return incs
}

func copyStanding(s *models.TournamentStanding) *models.TournamentStanding {
	c := *s
	return &c
}

func copyMatch(m *models.Match) *models.Match {
	c := *m
	if m.WinnerID != nil {
		w := *m.WinnerID
		c.WinnerID = &w
	}
	return &c
}
