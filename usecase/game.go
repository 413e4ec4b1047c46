package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-gameplay/apperror"
	"github.com/rocketscienceinc/tictactoe-gameplay/entity"
	"github.com/rocketscienceinc/tictactoe-gameplay/pkg"
	"github.com/rocketscienceinc/tictactoe-gameplay/tictactoe"
)

// maxCreateAttempts bounds how many fresh IDs CreateGame tries when an ID is already taken.
const maxCreateAttempts = 3

type GameUseCase interface {
	CreateGame(ctx context.Context, firstPlayer, secondPlayer string) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	Board(ctx context.Context, gameID string) (entity.Board, error)

	GamesForUser(ctx context.Context, user string) ([]*entity.Game, error)
	ActiveGamesForUser(ctx context.Context, user string) ([]*entity.Game, error)

	MakeMove(ctx context.Context, gameID, user string, x, y int, comments string) (*entity.Game, error)
}

type gameRepoDep interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Update(ctx context.Context, id string, apply func(game *entity.Game) error) (*entity.Game, error)
	GamesForUser(ctx context.Context, user string) ([]*entity.Game, error)
}

type gameUseCase struct {
	logger   *slog.Logger
	gameRepo gameRepoDep
	newID    func() (string, error)
}

func NewGameUseCase(logger *slog.Logger, gameRepo gameRepoDep) GameUseCase {
	return &gameUseCase{
		logger:   logger.With("component", "gameUseCase"),
		gameRepo: gameRepo,
		newID:    pkg.GenerateGameID,
	}
}

func (that *gameUseCase) CreateGame(ctx context.Context, firstPlayer, secondPlayer string) (*entity.Game, error) {
	if firstPlayer == "" || secondPlayer == "" {
		return nil, fmt.Errorf("%w: both players are required", apperror.ErrValidation)
	}

	if firstPlayer == secondPlayer {
		return nil, apperror.ErrSamePlayers
	}

	var err error

	for range maxCreateAttempts {
		var gameID string
		gameID, err = that.newID()
		if err != nil {
			return nil, fmt.Errorf("error generating game ID: %w", err)
		}

		game := entity.NewGame(gameID, firstPlayer, secondPlayer)

		err = that.gameRepo.Create(ctx, game)
		if errors.Is(err, apperror.ErrGameAlreadyExists) {
			that.logger.Warn("game id collision", "gameID", gameID)
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to create game: %w", err)
		}

		that.logger.Info("game created", "gameID", game.ID, "game", game.String())

		return game, nil
	}

	return nil, fmt.Errorf("failed to create game: %w", err)
}

func (that *gameUseCase) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) Board(ctx context.Context, gameID string) (entity.Board, error) {
	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return entity.Board{}, err
	}

	return tictactoe.ComputeBoard(game), nil
}

func (that *gameUseCase) GamesForUser(ctx context.Context, user string) ([]*entity.Game, error) {
	games, err := that.gameRepo.GamesForUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to get games for user: %w", err)
	}

	return games, nil
}

func (that *gameUseCase) ActiveGamesForUser(ctx context.Context, user string) ([]*entity.Game, error) {
	games, err := that.GamesForUser(ctx, user)
	if err != nil {
		return nil, err
	}

	active := make([]*entity.Game, 0, len(games))
	for _, game := range games {
		if game.IsOngoing() {
			active = append(active, game)
		}
	}

	return active, nil
}

// MakeMove - places a move for user and stores it together with the new game status.
func (that *gameUseCase) MakeMove(ctx context.Context, gameID, user string, x, y int, comments string) (*entity.Game, error) {
	log := that.logger.With("method", "MakeMove", "gameID", gameID, "user", user)

	game, err := that.gameRepo.Update(ctx, gameID, func(game *entity.Game) error {
		if !game.Involves(user) {
			return apperror.ErrNotAPlayer
		}

		if !tictactoe.IsUsersMove(game, user) {
			if game.IsFinished() {
				return fmt.Errorf("%w: %s", apperror.ErrInvalidState, game.Status)
			}
			return apperror.ErrNotYourTurn
		}

		move, err := tictactoe.CreateMove(game)
		if err != nil {
			return err
		}

		move.X, move.Y = x, y
		move.Comments = comments

		return tictactoe.SubmitMove(game, move)
	})
	if err != nil {
		log.Debug("move rejected", "x", x, "y", y, "error", err)
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	log.Info("move accepted", "x", x, "y", y, "status", game.Status)

	if game.IsFinished() {
		log.Info("game finished", "result", game.Status.String(), "moves", len(game.Moves))
	}

	return game, nil
}
