package models

// TournamentStanding хранит счёт игрока в рамках одного турнира.
// Создаётся вместе с регистрацией (все нули), меняется только при записи матча.
type TournamentStanding struct {
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	PlayerID     int    `json:"player_id" db:"player_id"`
	PlayerName   string `json:"name" db:"name"` // из players, только для чтения
	Wins         int    `json:"wins" db:"wins"`
	Draws        int    `json:"draws" db:"draws"`
	Losses       int    `json:"losses" db:"losses"`
}

// MatchesPlayed is always wins+draws+losses; it is not stored separately.
func (s *TournamentStanding) MatchesPlayed() int {
	return s.Wins + s.Draws + s.Losses
}

// RankedStanding is one row of an ordered standings table.
type RankedStanding struct {
	Rank          int    `json:"rank"`
	PlayerID      int    `json:"player_id"`
	PlayerName    string `json:"name"`
	Wins          int    `json:"wins"`
	Draws         int    `json:"draws"`
	Losses        int    `json:"losses"`
	MatchesPlayed int    `json:"matches_played"`
}

// NewRankedStanding builds a table row for the standing at the given 1-based position.
func NewRankedStanding(rank int, s *TournamentStanding) RankedStanding {
	return RankedStanding{
		Rank:          rank,
		PlayerID:      s.PlayerID,
		PlayerName:    s.PlayerName,
		Wins:          s.Wins,
		Draws:         s.Draws,
		Losses:        s.Losses,
		MatchesPlayed: s.MatchesPlayed(),
	}
}
