package models

import "time"

// Tournament — турнир. Кроме id и названия ничего не хранит:
// игроки, регистрации и матчи живут в своих таблицах.
type Tournament struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TournamentSnapshot is a point-in-time export of a tournament:
// the ordered standings table plus the full match log.
type TournamentSnapshot struct {
	Tournament *Tournament      `json:"tournament"`
	Standings  []RankedStanding `json:"standings"`
	Matches    []*Match         `json:"matches"`
	TakenAt    time.Time        `json:"taken_at"`
}
