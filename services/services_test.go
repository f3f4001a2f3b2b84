package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/storage"
)

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []brackets.WebSocketMessage
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, message.(brackets.WebSocketMessage))
}

func (b *recordingBroadcaster) all() []brackets.WebSocketMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]brackets.WebSocketMessage(nil), b.messages...)
}

type fakeArchiver struct {
	err       error
	snapshots []*models.TournamentSnapshot
	discarded []string
}

func (a *fakeArchiver) Discard(_ context.Context, key string) error {
	a.discarded = append(a.discarded, key)
	return nil
}

// failingResetStore делегирует всё хранилищу, кроме ResetTournament.
type failingResetStore struct {
	repositories.Store
}

func (failingResetStore) ResetTournament(context.Context, int) error {
	return errors.New("disk full")
}

func (a *fakeArchiver) Archive(_ context.Context, snapshot *models.TournamentSnapshot) (*storage.UploadResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	a.snapshots = append(a.snapshots, snapshot)
	key := storage.SnapshotKey(snapshot.Tournament.ID, snapshot.TakenAt)
	return &storage.UploadResult{Key: key, Location: "https://archive.example/" + key}, nil
}

type ServiceSuite struct {
	suite.Suite
	ctx         context.Context
	store       repositories.Store
	broadcaster *recordingBroadcaster
	archiver    *fakeArchiver

	tournaments TournamentService
	matches     MatchService
	standings   StandingsService
	pairings    PairingService
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = repositories.NewMemoryStore()
	s.broadcaster = &recordingBroadcaster{}
	s.archiver = &fakeArchiver{}
	locks := NewTournamentLocks()

	s.tournaments = NewTournamentService(s.store, locks, s.broadcaster, s.archiver, nil)
	s.matches = NewMatchService(s.store, locks, s.broadcaster, nil)
	s.standings = NewStandingsService(s.store, locks, nil)
	s.pairings = NewPairingService(s.store, locks, nil, nil)
}

// newTournament creates a tournament and registers one player per name, in order.
func (s *ServiceSuite) newTournament(names ...string) (int, []int) {
	t, err := s.tournaments.CreateTournament(s.ctx, "Test Open")
	s.Require().NoError(err)
	ids := make([]int, len(names))
	for i, name := range names {
		p, err := s.tournaments.CreatePlayer(s.ctx, name)
		s.Require().NoError(err)
		s.Require().NoError(s.tournaments.RegisterPlayer(s.ctx, t.ID, p.ID))
		ids[i] = p.ID
	}
	return t.ID, ids
}

func (s *ServiceSuite) win(tournamentID, winnerID, loserID int) {
	w := winnerID
	_, err := s.matches.RecordMatch(s.ctx, tournamentID, winnerID, loserID, &w)
	s.Require().NoError(err)
}

func (s *ServiceSuite) rankedIDs(tournamentID int) []int {
	ranking, err := s.standings.Rank(s.ctx, tournamentID)
	s.Require().NoError(err)
	var ids []int
	for _, st := range ranking.All() {
		ids = append(ids, st.PlayerID)
	}
	return ids
}

func (s *ServiceSuite) standingsByID(tournamentID int) map[int]models.RankedStanding {
	ranking, err := s.standings.Rank(s.ctx, tournamentID)
	s.Require().NoError(err)
	out := map[int]models.RankedStanding{}
	for _, st := range ranking.All() {
		out[st.PlayerID] = st
	}
	return out
}

// --- Players and registration ---

func (s *ServiceSuite) TestCreatePlayerTrimsName() {
	p, err := s.tournaments.CreatePlayer(s.ctx, "  Chandra Nalaar  ")
	s.Require().NoError(err)
	s.Equal("Chandra Nalaar", p.Name)
}

func (s *ServiceSuite) TestCreatePlayerRequiresName() {
	_, err := s.tournaments.CreatePlayer(s.ctx, "   ")
	s.ErrorIs(err, ErrValidationFailed)

	_, err = s.tournaments.CreateTournament(s.ctx, "")
	s.ErrorIs(err, ErrValidationFailed)
}

func (s *ServiceSuite) TestRegisterCountsAndZeroStandings() {
	tid, ids := s.newTournament("Melpomene Murray", "Randy Schwartz", "Jace Beleren", "Ajani Goldmane")

	count, err := s.tournaments.CountPlayers(s.ctx, tid)
	s.Require().NoError(err)
	s.Equal(4, count)

	ranking, err := s.standings.Rank(s.ctx, tid)
	s.Require().NoError(err)
	s.Equal(4, ranking.Len())
	s.Equal(tid, ranking.TournamentID())
	for rank, st := range ranking.All() {
		s.Zero(st.Wins)
		s.Zero(st.MatchesPlayed)
		s.Equal(ids[rank-1], st.PlayerID)
	}
}

func (s *ServiceSuite) TestRegisterDuplicate() {
	tid, ids := s.newTournament("A")
	err := s.tournaments.RegisterPlayer(s.ctx, tid, ids[0])
	s.ErrorIs(err, ErrRegistrationConflict)
}

func (s *ServiceSuite) TestUnknownTournament() {
	_, err := s.standings.Rank(s.ctx, 999)
	s.ErrorIs(err, ErrTournamentNotFound)
	_, err = s.pairings.PairNextRound(s.ctx, 999)
	s.ErrorIs(err, ErrTournamentNotFound)
	_, err = s.tournaments.CountPlayers(s.ctx, 999)
	s.ErrorIs(err, ErrTournamentNotFound)
	_, err = s.matches.RecordMatch(s.ctx, 999, 1, 2, nil)
	s.ErrorIs(err, ErrTournamentNotFound)
}

// --- Match recording ---

func (s *ServiceSuite) TestRecordWinTouchesOnlyTwoPlayers() {
	tid, ids := s.newTournament("A", "B", "C", "D")
	s.win(tid, ids[1], ids[2])

	byID := s.standingsByID(tid)
	s.Equal(1, byID[ids[1]].Wins)
	s.Equal(1, byID[ids[2]].Losses)
	s.Zero(byID[ids[1]].Losses)
	s.Zero(byID[ids[2]].Wins)
	for _, id := range []int{ids[0], ids[3]} {
		s.Zero(byID[id].MatchesPlayed)
	}
}

func (s *ServiceSuite) TestRecordDraw() {
	tid, ids := s.newTournament("A", "B")
	m, err := s.matches.RecordMatch(s.ctx, tid, ids[0], ids[1], nil)
	s.Require().NoError(err)
	s.True(m.IsDraw())

	byID := s.standingsByID(tid)
	for _, id := range ids {
		s.Equal(1, byID[id].Draws)
		s.Zero(byID[id].Wins)
		s.Zero(byID[id].Losses)
	}
}

func (s *ServiceSuite) TestRecordInvalidMatch() {
	tid, ids := s.newTournament("A", "B", "C")

	_, err := s.matches.RecordMatch(s.ctx, tid, ids[0], ids[0], nil)
	s.ErrorIs(err, ErrInvalidMatch)

	outsider := ids[2]
	_, err = s.matches.RecordMatch(s.ctx, tid, ids[0], ids[1], &outsider)
	s.ErrorIs(err, ErrInvalidMatch)

	matches, err := s.matches.ListMatches(s.ctx, tid)
	s.Require().NoError(err)
	s.Empty(matches)
	for _, st := range s.standingsByID(tid) {
		s.Zero(st.MatchesPlayed)
	}
}

func (s *ServiceSuite) TestRecordUnregisteredPlayer() {
	tid, ids := s.newTournament("A", "B")
	stranger, err := s.tournaments.CreatePlayer(s.ctx, "Stranger")
	s.Require().NoError(err)

	_, err = s.matches.RecordMatch(s.ctx, tid, ids[0], stranger.ID, nil)
	s.ErrorIs(err, ErrUnregisteredPlayer)

	for _, st := range s.standingsByID(tid) {
		s.Zero(st.MatchesPlayed)
	}
	s.Empty(s.broadcaster.all())
}

func (s *ServiceSuite) TestRecordBroadcastsStandings() {
	tid, ids := s.newTournament("A", "B")
	s.win(tid, ids[1], ids[0])

	msgs := s.broadcaster.all()
	s.Require().Len(msgs, 1)
	s.Equal(brackets.EventMatchRecorded, msgs[0].Type)
	s.Equal(brackets.TournamentRoom(tid), msgs[0].RoomID)
	payload, ok := msgs[0].Payload.(MatchRecordedPayload)
	s.Require().True(ok)
	s.Equal(ids[1], payload.Standings[0].PlayerID)
	s.Equal(1, payload.Standings[0].Wins)
}

func (s *ServiceSuite) TestPlayedSumIsTwiceMatchCount() {
	tid, ids := s.newTournament("A", "B", "C", "D", "E", "F")
	s.win(tid, ids[0], ids[1])
	s.win(tid, ids[2], ids[3])
	_, err := s.matches.RecordMatch(s.ctx, tid, ids[4], ids[5], nil)
	s.Require().NoError(err)
	s.win(tid, ids[0], ids[2])

	matches, err := s.matches.ListMatches(s.ctx, tid)
	s.Require().NoError(err)

	total := 0
	for _, st := range s.standingsByID(tid) {
		s.Equal(st.Wins+st.Draws+st.Losses, st.MatchesPlayed)
		total += st.MatchesPlayed
	}
	s.Equal(2*len(matches), total)
}

// --- Ranking ---

func (s *ServiceSuite) TestRankOrdersByWinsThenPlayerID() {
	tid, ids := s.newTournament("A", "B", "C", "D")
	s.win(tid, ids[3], ids[0])
	s.win(tid, ids[2], ids[1])

	// у ids[2] и ids[3] по победе: первым идёт меньший id
	s.Equal([]int{ids[2], ids[3], ids[0], ids[1]}, s.rankedIDs(tid))
}

func (s *ServiceSuite) TestDrawsDoNotAffectOrder() {
	tid, ids := s.newTournament("A", "B", "C", "D")
	_, err := s.matches.RecordMatch(s.ctx, tid, ids[2], ids[3], nil)
	s.Require().NoError(err)

	s.Equal(ids, s.rankedIDs(tid))
}

func (s *ServiceSuite) TestRankIsIdempotentAndRestartable() {
	tid, ids := s.newTournament("A", "B", "C", "D")
	s.win(tid, ids[2], ids[0])

	first, err := s.standings.Rank(s.ctx, tid)
	s.Require().NoError(err)
	second, err := s.standings.Rank(s.ctx, tid)
	s.Require().NoError(err)
	s.Equal(first.Standings(), second.Standings())

	var pass1, pass2 []int
	for _, st := range first.All() {
		pass1 = append(pass1, st.PlayerID)
	}
	for _, st := range first.All() {
		pass2 = append(pass2, st.PlayerID)
	}
	s.Equal(pass1, pass2)

	// early stop
	n := 0
	for range first.All() {
		n++
		if n == 2 {
			break
		}
	}
	s.Equal(2, n)
}

func (s *ServiceSuite) TestRankingStandingsIsACopy() {
	tid, _ := s.newTournament("A", "B")
	ranking, err := s.standings.Rank(s.ctx, tid)
	s.Require().NoError(err)

	rows := ranking.Standings()
	rows[0].Wins = 100
	s.Zero(ranking.Standings()[0].Wins)
}

// --- Pairing ---

func (s *ServiceSuite) TestPairAfterOneRound() {
	tid, ids := s.newTournament("Twilight Sparkle", "Fluttershy", "Applejack", "Pinkie Pie")
	s.win(tid, ids[0], ids[1])
	s.win(tid, ids[2], ids[3])

	pairings, err := s.pairings.PairNextRound(s.ctx, tid)
	s.Require().NoError(err)
	s.Equal([]models.Pairing{
		{Player1ID: ids[0], Player1Name: "Twilight Sparkle", Player2ID: ids[2], Player2Name: "Applejack"},
		{Player1ID: ids[1], Player1Name: "Fluttershy", Player2ID: ids[3], Player2Name: "Pinkie Pie"},
	}, pairings)
}

func (s *ServiceSuite) TestPairBeforeAnyMatch() {
	tid, ids := s.newTournament("A", "B", "C", "D")
	pairings, err := s.pairings.PairNextRound(s.ctx, tid)
	s.Require().NoError(err)
	s.Require().Len(pairings, 2)
	s.Equal(ids[0], pairings[0].Player1ID)
	s.Equal(ids[1], pairings[0].Player2ID)
	s.Equal(ids[2], pairings[1].Player1ID)
	s.Equal(ids[3], pairings[1].Player2ID)
}

func (s *ServiceSuite) TestPairRepeatsAllowed() {
	tid, ids := s.newTournament("A", "B")
	s.win(tid, ids[0], ids[1])

	pairings, err := s.pairings.PairNextRound(s.ctx, tid)
	s.Require().NoError(err)
	s.Require().Len(pairings, 1)
	s.Equal(ids[0], pairings[0].Player1ID)
	s.Equal(ids[1], pairings[0].Player2ID)
}

func (s *ServiceSuite) TestPairOddCountFailsWithoutMutation() {
	tid, ids := s.newTournament("A", "B", "C")
	s.win(tid, ids[0], ids[1])
	before := s.standingsByID(tid)

	_, err := s.pairings.PairNextRound(s.ctx, tid)
	s.ErrorIs(err, ErrOddPlayerCount)
	s.Equal(before, s.standingsByID(tid))
}

func (s *ServiceSuite) TestPairEmptyTournament() {
	tid, _ := s.newTournament()
	pairings, err := s.pairings.PairNextRound(s.ctx, tid)
	s.Require().NoError(err)
	s.Empty(pairings)
}

// --- Snapshot and reset ---

func (s *ServiceSuite) TestSnapshot() {
	tid, ids := s.newTournament("A", "B")
	s.win(tid, ids[1], ids[0])

	snap, err := s.tournaments.Snapshot(s.ctx, tid)
	s.Require().NoError(err)
	s.Equal(tid, snap.Tournament.ID)
	s.Len(snap.Matches, 1)
	s.Require().Len(snap.Standings, 2)
	s.Equal(ids[1], snap.Standings[0].PlayerID)
	s.False(snap.TakenAt.IsZero())
}

func (s *ServiceSuite) TestResetArchivesThenClears() {
	tid, ids := s.newTournament("A", "B")
	s.win(tid, ids[0], ids[1])

	snap, err := s.tournaments.ResetTournament(s.ctx, tid)
	s.Require().NoError(err)
	s.Len(snap.Matches, 1)

	s.Require().Len(s.archiver.snapshots, 1)
	s.Len(s.archiver.snapshots[0].Matches, 1)

	count, err := s.tournaments.CountPlayers(s.ctx, tid)
	s.Require().NoError(err)
	s.Zero(count)
	matches, err := s.matches.ListMatches(s.ctx, tid)
	s.Require().NoError(err)
	s.Empty(matches)

	msgs := s.broadcaster.all()
	last := msgs[len(msgs)-1]
	s.Equal(brackets.EventTournamentReset, last.Type)
	payload := last.Payload.(TournamentResetPayload)
	s.Contains(payload.ArchiveURL, "https://archive.example/tournaments/")
}

func (s *ServiceSuite) TestResetAbortsWhenArchiveFails() {
	tid, ids := s.newTournament("A", "B")
	s.win(tid, ids[0], ids[1])
	s.archiver.err = errors.New("bucket unavailable")

	_, err := s.tournaments.ResetTournament(s.ctx, tid)
	s.Require().Error(err)

	count, err := s.tournaments.CountPlayers(s.ctx, tid)
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *ServiceSuite) TestResetDiscardsArchiveWhenStoreFails() {
	tid, ids := s.newTournament("A", "B")
	s.win(tid, ids[0], ids[1])

	svc := NewTournamentService(failingResetStore{s.store}, NewTournamentLocks(), s.broadcaster, s.archiver, nil)
	_, err := svc.ResetTournament(s.ctx, tid)
	s.Require().Error(err)

	s.Require().Len(s.archiver.snapshots, 1)
	snap := s.archiver.snapshots[0]
	s.Equal([]string{storage.SnapshotKey(tid, snap.TakenAt)}, s.archiver.discarded)

	// турнир не тронут и событие сброса не отправлено
	count, err := s.tournaments.CountPlayers(s.ctx, tid)
	s.Require().NoError(err)
	s.Equal(2, count)
	for _, msg := range s.broadcaster.all() {
		s.NotEqual(brackets.EventTournamentReset, msg.Type)
	}
}

func (s *ServiceSuite) TestResetKeepsArchiveOnSuccess() {
	tid, _ := s.newTournament("A", "B")
	_, err := s.tournaments.ResetTournament(s.ctx, tid)
	s.Require().NoError(err)
	s.Empty(s.archiver.discarded)
}

func (s *ServiceSuite) TestResetWithoutArchiver() {
	svc := NewTournamentService(s.store, NewTournamentLocks(), nil, nil, nil)
	t, err := svc.CreateTournament(s.ctx, "No archive")
	s.Require().NoError(err)
	_, err = svc.ResetTournament(s.ctx, t.ID)
	s.NoError(err)
}

// --- Concurrency ---

func (s *ServiceSuite) TestConcurrentRecordingKeepsInvariant() {
	names := make([]string, 8)
	for i := range names {
		names[i] = string(rune('A' + i))
	}
	tid, ids := s.newTournament(names...)

	var wg sync.WaitGroup
	for round := 0; round < 10; round++ {
		for i := 0; i < len(ids); i += 2 {
			wg.Add(1)
			go func(a, b, round int) {
				defer wg.Done()
				var w *int
				if round%3 != 0 {
					w = &a
				}
				_, err := s.matches.RecordMatch(s.ctx, tid, a, b, w)
				s.NoError(err)
			}(ids[i], ids[i+1], round)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.standings.Rank(s.ctx, tid)
			s.NoError(err)
		}()
	}
	wg.Wait()

	matches, err := s.matches.ListMatches(s.ctx, tid)
	s.Require().NoError(err)
	s.Len(matches, 40)

	total := 0
	for _, st := range s.standingsByID(tid) {
		total += st.MatchesPlayed
	}
	s.Equal(80, total)
}
