package brackets

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

var ErrOddPlayerCount = errors.New("cannot pair an odd number of players")

// SwissGenerator pairs adjacent ranks: 1 with 2, 3 with 4 and so on.
// No byes and no rematch avoidance.
type SwissGenerator struct{}

func NewSwissGenerator() *SwissGenerator {
	return &SwissGenerator{}
}

func (g *SwissGenerator) GetName() string {
	return "swiss"
}

func (g *SwissGenerator) GeneratePairings(ctx context.Context, params GeneratePairingsParams) ([]models.Pairing, error) {
	n := len(params.Standings)
	if n%2 != 0 {
		return nil, fmt.Errorf("%w: tournament %d has %d registered players", ErrOddPlayerCount, params.TournamentID, n)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pairings := make([]models.Pairing, 0, n/2)
	for i := 0; i < n; i += 2 {
		a, b := params.Standings[i], params.Standings[i+1]
		pairings = append(pairings, models.Pairing{
			Player1ID:   a.PlayerID,
			Player1Name: a.PlayerName,
			Player2ID:   b.PlayerID,
			Player2Name: b.PlayerName,
		})
	}
	return pairings, nil
}
