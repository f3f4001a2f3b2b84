package models

import "time"

// Match — сыгранная партия. Записывается один раз и больше не меняется.
// WinnerID == nil означает ничью.
type Match struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Player1ID    int       `json:"player1_id" db:"player1_id"`
	Player2ID    int       `json:"player2_id" db:"player2_id"`
	WinnerID     *int      `json:"winner_id,omitempty" db:"winner_id"`
	PlayedAt     time.Time `json:"played_at" db:"played_at"`
}

// IsDraw reports whether the match ended without a winner.
func (m *Match) IsDraw() bool {
	return m.WinnerID == nil
}

// LoserID returns the id of the losing player, or 0 for a draw.
func (m *Match) LoserID() int {
	if m.WinnerID == nil {
		return 0
	}
	if *m.WinnerID == m.Player1ID {
		return m.Player2ID
	}
	return m.Player1ID
}

// Involves reports whether playerID took part in the match.
func (m *Match) Involves(playerID int) bool {
	return m.Player1ID == playerID || m.Player2ID == playerID
}
