package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/rocketscienceinc/tictactoe-gameplay/apperror"
	"github.com/rocketscienceinc/tictactoe-gameplay/entity"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqliteGame struct {
	conn *sql.DB
}

// NewSQLiteGameRepository expects a database initialised by storage.SQLiteStorage.Init.
func NewSQLiteGameRepository(conn *sql.DB) GameRepository {
	return &sqliteGame{
		conn: conn,
	}
}

func (that *sqliteGame) Create(ctx context.Context, game *entity.Game) error {
	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint: errcheck // no-op after commit

	query := `INSERT INTO games (id, first_player, second_player, status, start_time, last_active) VALUES (?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, query,
		game.ID, game.FirstPlayer, game.SecondPlayer, string(game.Status), game.StartTime, game.LastActive)
	if isConstraint(err, sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique) {
		return fmt.Errorf("%w: game id %s", apperror.ErrGameAlreadyExists, game.ID)
	}
	if err != nil {
		return fmt.Errorf("can't save game: %w", err)
	}

	if err = insertMoves(ctx, tx, game.ID, game.Moves); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit game: %w", err)
	}

	return nil
}

func (that *sqliteGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	return loadGame(ctx, that.conn, id)
}

// Update - runs apply inside one write transaction and stores the moves it appended.
func (that *sqliteGame) Update(ctx context.Context, id string, apply UpdateFunc) (*entity.Game, error) {
	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("can't begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint: errcheck // no-op after commit

	game, err := loadGame(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	stored := len(game.Moves)

	if err = apply(game); err != nil {
		return nil, err
	}

	if len(game.Moves) < stored {
		return nil, fmt.Errorf("%w: moves can't be removed from game %s", apperror.ErrValidation, id)
	}

	if err = insertMoves(ctx, tx, id, game.Moves[stored:]); err != nil {
		return nil, err
	}

	query := `UPDATE games SET status = ?, last_active = ? WHERE id = ?`
	if _, err = tx.ExecContext(ctx, query, string(game.Status), game.LastActive, id); err != nil {
		return nil, fmt.Errorf("can't update game: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("can't commit game: %w", err)
	}

	return game, nil
}

func (that *sqliteGame) GamesForUser(ctx context.Context, user string) ([]*entity.Game, error) {
	query := `SELECT id FROM games WHERE first_player = ? OR second_player = ? ORDER BY last_active DESC`

	rows, err := that.conn.QueryContext(ctx, query, user, user)
	if err != nil {
		return nil, fmt.Errorf("can't find games of player: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("can't scan game id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read games of player: %w", err)
	}

	games := make([]*entity.Game, 0, len(ids))
	for _, id := range ids {
		game, err := loadGame(ctx, that.conn, id)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}

	return games, nil
}

func (that *sqliteGame) DeleteByID(ctx context.Context, id string) error {
	result, err := that.conn.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("can't delete game: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't delete game: %w", err)
	}

	if affected == 0 {
		return apperror.ErrGameNotFound
	}

	return nil
}

func loadGame(ctx context.Context, conn querier, id string) (*entity.Game, error) {
	query := `SELECT id, first_player, second_player, status, start_time, last_active FROM games WHERE id = ?`

	var (
		game   entity.Game
		status string
	)

	err := conn.QueryRowContext(ctx, query, id).
		Scan(&game.ID, &game.FirstPlayer, &game.SecondPlayer, &status, &game.StartTime, &game.LastActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find game: %w", err)
	}

	game.Status = entity.Status(status)

	rows, err := conn.QueryContext(ctx,
		`SELECT x, y, comments, by_first_player, created_at FROM moves WHERE game_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("can't find moves: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		move := &entity.Move{GameID: id}
		if err = rows.Scan(&move.X, &move.Y, &move.Comments, &move.ByFirstPlayer, &move.CreatedAt); err != nil {
			return nil, fmt.Errorf("can't scan move: %w", err)
		}
		game.Moves = append(game.Moves, move)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read moves: %w", err)
	}

	return &game, nil
}

func insertMoves(ctx context.Context, conn querier, gameID string, moves []*entity.Move) error {
	query := `INSERT INTO moves (game_id, x, y, comments, by_first_player, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	for _, move := range moves {
		_, err := conn.ExecContext(ctx, query, gameID, move.X, move.Y, move.Comments, move.ByFirstPlayer, move.CreatedAt)

		if isConstraint(err, sqlite3.ErrConstraintUnique) {
			return fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOccupied, move.X, move.Y)
		}

		if err != nil {
			return fmt.Errorf("can't save move: %w", err)
		}
	}

	return nil
}

// isConstraint reports whether err is a sqlite constraint violation with one of codes.
func isConstraint(err error, codes ...sqlite3.ErrNoExtended) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	for _, code := range codes {
		if sqliteErr.ExtendedCode == code {
			return true
		}
	}

	return false
}
