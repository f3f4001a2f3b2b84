package brackets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/models"
)

func ranked(ids ...int) []models.RankedStanding {
	out := make([]models.RankedStanding, len(ids))
	for i, id := range ids {
		out[i] = models.RankedStanding{Rank: i + 1, PlayerID: id, PlayerName: string(rune('A' + i))}
	}
	return out
}

func TestSwissGenerator_PairsAdjacentRanks(t *testing.T) {
	g := NewSwissGenerator()
	pairings, err := g.GeneratePairings(context.Background(), GeneratePairingsParams{
		TournamentID: 1,
		Standings:    ranked(30, 10, 40, 20, 60, 50),
	})
	require.NoError(t, err)

	assert.Equal(t, []models.Pairing{
		{Player1ID: 30, Player1Name: "A", Player2ID: 10, Player2Name: "B"},
		{Player1ID: 40, Player1Name: "C", Player2ID: 20, Player2Name: "D"},
		{Player1ID: 60, Player1Name: "E", Player2ID: 50, Player2Name: "F"},
	}, pairings)
}

func TestSwissGenerator_EveryPlayerExactlyOnce(t *testing.T) {
	ids := []int{8, 3, 5, 1, 9, 2, 7, 4}
	pairings, err := NewSwissGenerator().GeneratePairings(context.Background(), GeneratePairingsParams{Standings: ranked(ids...)})
	require.NoError(t, err)
	require.Len(t, pairings, len(ids)/2)

	seen := map[int]int{}
	for _, p := range pairings {
		seen[p.Player1ID]++
		seen[p.Player2ID]++
	}
	assert.Len(t, seen, len(ids))
	for id, n := range seen {
		assert.Equal(t, 1, n, "player %d", id)
	}
}

func TestSwissGenerator_OddCount(t *testing.T) {
	for _, n := range []int{1, 3, 5} {
		ids := make([]int, n)
		for i := range ids {
			ids[i] = i + 1
		}
		pairings, err := NewSwissGenerator().GeneratePairings(context.Background(), GeneratePairingsParams{TournamentID: 2, Standings: ranked(ids...)})
		assert.ErrorIs(t, err, ErrOddPlayerCount, "n=%d", n)
		assert.Nil(t, pairings)
	}
}

func TestSwissGenerator_EmptyField(t *testing.T) {
	pairings, err := NewSwissGenerator().GeneratePairings(context.Background(), GeneratePairingsParams{})
	require.NoError(t, err)
	assert.Empty(t, pairings)
}

func TestSwissGenerator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSwissGenerator().GeneratePairings(ctx, GeneratePairingsParams{Standings: ranked(1, 2)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSwissGenerator_Name(t *testing.T) {
	var g PairingGenerator = NewSwissGenerator()
	assert.Equal(t, "swiss", g.GetName())
}
