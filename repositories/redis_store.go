package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dosada05/swiss-tournament/models"
)

// ErrTxConflict is returned when an optimistic Redis transaction keeps losing the race.
var ErrTxConflict = errors.New("redis transaction aborted by concurrent writes")

const maxTxAttempts = 5

// redisStore layout (prefix "swiss" by default):
//
//	{p}:seq:players, {p}:seq:tournaments, {p}:seq:matches   INCR counters
//	{p}:player:{id}                                          HASH name, created_at
//	{p}:tournament:{id}                                      HASH name, created_at
//	{p}:tournament:{id}:registered                           SET of player ids
//	{p}:tournament:{id}:standing:{player}                    HASH name, wins, draws, losses
//	{p}:tournament:{id}:matches                              LIST of JSON matches
type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns a Store on top of an existing go-redis client.
func NewRedisStore(client *redis.Client, prefix string) Store {
	if prefix == "" {
		prefix = "swiss"
	}
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}

func (s *redisStore) seqKey(name string) string { return s.prefix + ":seq:" + name }
func (s *redisStore) playerKey(id int) string   { return fmt.Sprintf("%s:player:%d", s.prefix, id) }
func (s *redisStore) tournamentKey(id int) string {
	return fmt.Sprintf("%s:tournament:%d", s.prefix, id)
}
func (s *redisStore) registeredKey(tournamentID int) string {
	return s.tournamentKey(tournamentID) + ":registered"
}
func (s *redisStore) standingKey(tournamentID, playerID int) string {
	return fmt.Sprintf("%s:standing:%d", s.tournamentKey(tournamentID), playerID)
}
func (s *redisStore) matchesKey(tournamentID int) string {
	return s.tournamentKey(tournamentID) + ":matches"
}

func (s *redisStore) CreatePlayer(ctx context.Context, player *models.Player) error {
	id, err := s.client.Incr(ctx, s.seqKey("players")).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate player id: %w", err)
	}
	player.ID = int(id)
	player.CreatedAt = time.Now().UTC()
	err = s.client.HSet(ctx, s.playerKey(player.ID),
		"name", player.Name,
		"created_at", player.CreatedAt.Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (s *redisStore) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	fields, err := s.client.HGetAll(ctx, s.playerKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, ErrPlayerNotFound
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, fields["created_at"])
	return &models.Player{ID: id, Name: fields["name"], CreatedAt: createdAt}, nil
}

func (s *redisStore) CreateTournament(ctx context.Context, tournament *models.Tournament) error {
	id, err := s.client.Incr(ctx, s.seqKey("tournaments")).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate tournament id: %w", err)
	}
	tournament.ID = int(id)
	tournament.CreatedAt = time.Now().UTC()
	err = s.client.HSet(ctx, s.tournamentKey(tournament.ID),
		"name", tournament.Name,
		"created_at", tournament.CreatedAt.Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (s *redisStore) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	fields, err := s.client.HGetAll(ctx, s.tournamentKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, ErrTournamentNotFound
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, fields["created_at"])
	return &models.Tournament{ID: id, Name: fields["name"], CreatedAt: createdAt}, nil
}

// watch runs fn under WATCH on keys and retries when the optimistic transaction is aborted.
func (s *redisStore) watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := s.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return ErrTxConflict
}

func (s *redisStore) RegisterPlayer(ctx context.Context, tournamentID, playerID int) error {
	exists, err := s.client.Exists(ctx, s.tournamentKey(tournamentID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check tournament %d: %w", tournamentID, err)
	}
	if exists == 0 {
		return ErrTournamentNotFound
	}
	name, err := s.client.HGet(ctx, s.playerKey(playerID), "name").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to check player %d: %w", playerID, err)
	}

	regKey := s.registeredKey(tournamentID)
	return s.watch(ctx, func(tx *redis.Tx) error {
		registered, err := tx.SIsMember(ctx, regKey, playerID).Result()
		if err != nil {
			return fmt.Errorf("failed to check registration t:%d p:%d: %w", tournamentID, playerID, err)
		}
		if registered {
			return ErrRegistrationConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SAdd(ctx, regKey, playerID)
			pipe.HSet(ctx, s.standingKey(tournamentID, playerID),
				"name", name, columnWins, 0, columnDraws, 0, columnLosses, 0)
			return nil
		})
		return err
	}, regKey)
}

func (s *redisStore) CountPlayers(ctx context.Context, tournamentID int) (int, error) {
	n, err := s.client.SCard(ctx, s.registeredKey(tournamentID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count players for tournament %d: %w", tournamentID, err)
	}
	return int(n), nil
}

func (s *redisStore) GetRegisteredPlayers(ctx context.Context, tournamentID int) ([]int, error) {
	members, err := s.client.SMembers(ctx, s.registeredKey(tournamentID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations for tournament %d: %w", tournamentID, err)
	}
	return parseIDs(members)
}

func parseIDs(members []string) ([]int, error) {
	ids := make([]int, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("corrupt player id %q in registration set: %w", m, err)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// GetStandings reads the registration set and every standing hash as one
// consistent view: the set is WATCHed and the hashes are read inside MULTI/EXEC.
func (s *redisStore) GetStandings(ctx context.Context, tournamentID int) ([]*models.TournamentStanding, error) {
	standings, _, err := s.readState(ctx, tournamentID, false)
	return standings, err
}

// ReadSnapshot returns standings and the match log from the same MULTI/EXEC.
func (s *redisStore) ReadSnapshot(ctx context.Context, tournamentID int) ([]*models.TournamentStanding, []*models.Match, error) {
	return s.readState(ctx, tournamentID, true)
}

// readState: если регистрации меняются между SMEMBERS и EXEC, транзакция
// прерывается и watch повторяет чтение.
func (s *redisStore) readState(ctx context.Context, tournamentID int, withMatches bool) ([]*models.TournamentStanding, []*models.Match, error) {
	regKey := s.registeredKey(tournamentID)

	var (
		ids      []int
		cmds     []*redis.MapStringStringCmd
		matchCmd *redis.StringSliceCmd
	)
	err := s.watch(ctx, func(tx *redis.Tx) error {
		members, err := tx.SMembers(ctx, regKey).Result()
		if err != nil {
			return fmt.Errorf("failed to query registrations for tournament %d: %w", tournamentID, err)
		}
		if ids, err = parseIDs(members); err != nil {
			return err
		}
		cmds = make([]*redis.MapStringStringCmd, len(ids))
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, id := range ids {
				cmds[i] = pipe.HGetAll(ctx, s.standingKey(tournamentID, id))
			}
			if withMatches {
				matchCmd = pipe.LRange(ctx, s.matchesKey(tournamentID), 0, -1)
			}
			return nil
		})
		return err
	}, regKey)
	if err != nil {
		if errors.Is(err, ErrTxConflict) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to read standings for tournament %d: %w", tournamentID, err)
	}

	standings := make([]*models.TournamentStanding, 0, len(ids))
	for i, id := range ids {
		st, err := parseStanding(tournamentID, id, cmds[i].Val())
		if err != nil {
			return nil, nil, err
		}
		standings = append(standings, st)
	}
	if !withMatches {
		return standings, nil, nil
	}
	matches, err := decodeMatches(tournamentID, matchCmd.Val())
	if err != nil {
		return nil, nil, err
	}
	return standings, matches, nil
}

func parseStanding(tournamentID, playerID int, fields map[string]string) (*models.TournamentStanding, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("registered player %d has no standing in tournament %d", playerID, tournamentID)
	}
	st := &models.TournamentStanding{TournamentID: tournamentID, PlayerID: playerID, PlayerName: fields["name"]}
	var err error
	if st.Wins, err = strconv.Atoi(fields[columnWins]); err != nil {
		return nil, fmt.Errorf("corrupt wins for player %d: %w", playerID, err)
	}
	if st.Draws, err = strconv.Atoi(fields[columnDraws]); err != nil {
		return nil, fmt.Errorf("corrupt draws for player %d: %w", playerID, err)
	}
	if st.Losses, err = strconv.Atoi(fields[columnLosses]); err != nil {
		return nil, fmt.Errorf("corrupt losses for player %d: %w", playerID, err)
	}
	return st, nil
}

func (s *redisStore) AppendMatch(ctx context.Context, match *models.Match) error {
	id, err := s.client.Incr(ctx, s.seqKey("matches")).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate match id: %w", err)
	}
	stored := copyMatch(match)
	stored.ID = int(id)
	if stored.PlayedAt.IsZero() {
		stored.PlayedAt = time.Now().UTC()
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode match: %w", err)
	}

	regKey := s.registeredKey(match.TournamentID)
	incs := matchIncrements(match)
	keys := []string{regKey}
	for _, inc := range incs {
		keys = append(keys, s.standingKey(match.TournamentID, inc.playerID))
	}

	err = s.watch(ctx, func(tx *redis.Tx) error {
		for _, inc := range incs {
			registered, err := tx.SIsMember(ctx, regKey, inc.playerID).Result()
			if err != nil {
				return fmt.Errorf("failed to check registration of player %d: %w", inc.playerID, err)
			}
			if !registered {
				return ErrStandingNotFound
			}
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, inc := range incs {
				pipe.HIncrBy(ctx, s.standingKey(match.TournamentID, inc.playerID), inc.column, 1)
			}
			pipe.RPush(ctx, s.matchesKey(match.TournamentID), data)
			return nil
		})
		return err
	}, keys...)
	if err != nil {
		return err
	}

	match.ID = stored.ID
	match.PlayedAt = stored.PlayedAt
	return nil
}

func (s *redisStore) ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	raw, err := s.client.LRange(ctx, s.matchesKey(tournamentID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	return decodeMatches(tournamentID, raw)
}

func decodeMatches(tournamentID int, raw []string) ([]*models.Match, error) {
	matches := make([]*models.Match, 0, len(raw))
	for _, item := range raw {
		var m models.Match
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("corrupt match entry in tournament %d: %w", tournamentID, err)
		}
		matches = append(matches, &m)
	}
	return matches, nil
}

func (s *redisStore) ResetTournament(ctx context.Context, tournamentID int) error {
	regKey := s.registeredKey(tournamentID)
	return s.watch(ctx, func(tx *redis.Tx) error {
		members, err := tx.SMembers(ctx, regKey).Result()
		if err != nil {
			return fmt.Errorf("failed to list registrations for tournament %d: %w", tournamentID, err)
		}
		ids, err := parseIDs(members)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, s.matchesKey(tournamentID))
			for _, id := range ids {
				pipe.Del(ctx, s.standingKey(tournamentID, id))
			}
			pipe.Del(ctx, regKey)
			return nil
		})
		return err
	}, regKey)
}
