package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-gameplay/apperror"
	"github.com/rocketscienceinc/tictactoe-gameplay/entity"
)

// maxUpdateRetries bounds optimistic retries when another writer touched the same game.
const maxUpdateRetries = 5

// UpdateFunc mutates a freshly loaded game. Returning an error aborts the update.
type UpdateFunc = func(game *entity.Game) error

type GameRepository interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Update(ctx context.Context, id string, apply UpdateFunc) (*entity.Game, error)
	GamesForUser(ctx context.Context, user string) ([]*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func gameKey(id string) string {
	return "game:" + id
}

func playerGamesKey(user string) string {
	return "player:" + user + ":games"
}

// Create - stores a new game. An existing game with the same ID is never overwritten.
func (that *dbGame) Create(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	key := gameKey(game.ID)

	err = that.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("failed to check game: %w", err)
		}

		if exists > 0 {
			return fmt.Errorf("%w: game id %s", apperror.ErrGameAlreadyExists, game.ID)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, gameJSON, 0)
			pipe.SAdd(ctx, playerGamesKey(game.FirstPlayer), game.ID)
			pipe.SAdd(ctx, playerGamesKey(game.SecondPlayer), game.ID)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		// someone else wrote the key between EXISTS and EXEC
		return fmt.Errorf("%w: game id %s", apperror.ErrGameAlreadyExists, game.ID)
	}

	if errors.Is(err, apperror.ErrGameAlreadyExists) {
		return err
	}

	if err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	return that.get(ctx, that.client, id)
}

func (that *dbGame) get(ctx context.Context, conn getter, id string) (*entity.Game, error) {
	response, err := conn.Get(ctx, gameKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return decodeGame(response)
}

// decodeGame - unmarshals a stored game and rejects histories the engine could not replay.
func decodeGame(raw string) (*entity.Game, error) {
	var game entity.Game
	if err := json.Unmarshal([]byte(raw), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	if err := game.ValidateMoves(); err != nil {
		return nil, fmt.Errorf("stored game %s is corrupt: %w", game.ID, err)
	}

	return &game, nil
}

// Update - loads the game under WATCH, applies the change and writes it back in MULTI.
func (that *dbGame) Update(ctx context.Context, id string, apply UpdateFunc) (*entity.Game, error) {
	key := gameKey(id)

	for range maxUpdateRetries {
		var updated *entity.Game

		err := that.client.Watch(ctx, func(tx *redis.Tx) error {
			game, err := that.get(ctx, tx, id)
			if err != nil {
				return err
			}

			if err = apply(game); err != nil {
				return err
			}

			gameJSON, err := json.Marshal(game)
			if err != nil {
				return fmt.Errorf("could not marshal game: %w", err)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, gameJSON, 0)
				return nil
			})
			if err != nil {
				return err
			}

			updated = game
			return nil
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		if err != nil {
			return nil, err
		}

		return updated, nil
	}

	return nil, fmt.Errorf("%w: game id %s", apperror.ErrConcurrentUpdate, id)
}

// GamesForUser - returns the games of user, most recently active first.
func (that *dbGame) GamesForUser(ctx context.Context, user string) ([]*entity.Game, error) {
	ids, err := that.client.SMembers(ctx, playerGamesKey(user)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get games of player: %w", err)
	}

	if len(ids) == 0 {
		return []*entity.Game{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, gameKey(id))
	}

	values, err := that.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}

	games := make([]*entity.Game, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			// deleted game still referenced by the index
			continue
		}

		game, err := decodeGame(raw)
		if err != nil {
			return nil, err
		}

		games = append(games, game)
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].LastActive.After(games[j].LastActive)
	})

	return games, nil
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	game, err := that.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, gameKey(id))
		pipe.SRem(ctx, playerGamesKey(game.FirstPlayer), id)
		pipe.SRem(ctx, playerGamesKey(game.SecondPlayer), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete game by ID: %w", err)
	}

	return nil
}
