package brackets

import (
	"context"

	"github.com/Dosada05/swiss-tournament/models"
)

// GeneratePairingsParams carries the ranked field for the next round.
type GeneratePairingsParams struct {
	TournamentID int
	// Standings must already be in rank order.
	Standings []models.RankedStanding
}

type PairingGenerator interface {
	GeneratePairings(ctx context.Context, params GeneratePairingsParams) ([]models.Pairing, error)

	GetName() string
}
