package services

import (
	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/models"
)

// Broadcaster доставляет события подписчикам комнаты. Реализуется brackets.Hub.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToRoom(string, interface{}) {}

type MatchRecordedPayload struct {
	Match     *models.Match           `json:"match"`
	Standings []models.RankedStanding `json:"standings"`
}

type TournamentResetPayload struct {
	TournamentID int    `json:"tournament_id"`
	ArchiveURL   string `json:"archive_url,omitempty"`
}

func broadcast(b Broadcaster, tournamentID int, eventType string, payload interface{}) {
	room := brackets.TournamentRoom(tournamentID)
	b.BroadcastToRoom(room, brackets.WebSocketMessage{
		Type:    eventType,
		Payload: payload,
		RoomID:  room,
	})
}
