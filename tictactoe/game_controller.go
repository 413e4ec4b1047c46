package tictactoe

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-gameplay/apperror"
	"github.com/rocketscienceinc/tictactoe-gameplay/entity"
)

// drawThreshold is the move count at which a game without a winning line is a draw.
const drawThreshold = entity.BoardSize * 2

type line [entity.BoardSize][2]int

// CreateMove returns an unplaced move for whoever is to move in gameInstance.
// The caller fills in the coordinates and passes the move to SubmitMove.
func CreateMove(gameInstance *entity.Game) (*entity.Move, error) {
	if !gameInstance.IsOngoing() {
		return nil, fmt.Errorf("%w: status %q", apperror.ErrInvalidState, gameInstance.Status)
	}

	return &entity.Move{
		GameID:        gameInstance.ID,
		ByFirstPlayer: gameInstance.Status == entity.StatusFirstToMove,
	}, nil
}

// IsUsersMove - checks whether user is the one entitled to move now.
func IsUsersMove(gameInstance *entity.Game, user string) bool {
	return (user == gameInstance.FirstPlayer && gameInstance.Status == entity.StatusFirstToMove) ||
		(user == gameInstance.SecondPlayer && gameInstance.Status == entity.StatusSecondToMove)
}

// ComputeBoard replays every move of the game onto an empty board.
// A later move onto an already used cell overwrites the earlier one.
// Moves with coordinates off the board are skipped.
func ComputeBoard(gameInstance *entity.Game) entity.Board {
	var board entity.Board

	for _, move := range gameInstance.Moves {
		if !onBoard(move.X) || !onBoard(move.Y) {
			continue
		}

		board[move.Y][move.X] = entity.Occupied(move.Player())
	}

	return board
}

func onBoard(coordinate int) bool {
	return coordinate >= 0 && coordinate < entity.BoardSize
}

// SubmitMove accepts a move created by CreateMove and recomputes the game status.
// It is the only place where the status of a game changes.
func SubmitMove(gameInstance *entity.Game, move *entity.Move) error {
	if !gameInstance.IsOngoing() {
		return fmt.Errorf("%w: status %q", apperror.ErrInvalidState, gameInstance.Status)
	}

	if err := validateMove(gameInstance, move); err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	now := time.Now().UTC()
	move.CreatedAt = now

	gameInstance.Moves = append(gameInstance.Moves, move)
	gameInstance.LastActive = now
	gameInstance.Status = evaluateOutcome(gameInstance, move)

	return nil
}

// validateMove - checks that the move belongs to the game, the mover and a free cell.
func validateMove(gameInstance *entity.Game, move *entity.Move) error {
	if err := move.Validate(); err != nil {
		return err
	}

	if move.GameID != gameInstance.ID {
		return fmt.Errorf("%w: move belongs to game %q", apperror.ErrValidation, move.GameID)
	}

	if move.ByFirstPlayer != (gameInstance.Status == entity.StatusFirstToMove) {
		return apperror.ErrNotYourTurn
	}

	board := ComputeBoard(gameInstance)
	if !board.At(move.X, move.Y).IsEmpty() {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOccupied, move.X, move.Y)
	}

	return nil
}

// evaluateOutcome - computes the status after move has been appended to the game.
// Every row, both diagonals and only the column of the move are inspected.
func evaluateOutcome(gameInstance *entity.Game, move *entity.Move) entity.Status {
	board := ComputeBoard(gameInstance)

	for _, l := range linesFor(move.X) {
		if isWinningLine(board, l) {
			if move.ByFirstPlayer {
				return entity.StatusFirstWins
			}
			return entity.StatusSecondWins
		}
	}

	if len(gameInstance.Moves) >= drawThreshold {
		return entity.StatusDraw
	}

	if gameInstance.Status == entity.StatusFirstToMove {
		return entity.StatusSecondToMove
	}
	return entity.StatusFirstToMove
}

// linesFor - returns all rows, both diagonals and column x as (x, y) triples.
func linesFor(x int) []line {
	lines := make([]line, 0, entity.BoardSize+3)

	for y := range entity.BoardSize {
		var row line
		for i := range entity.BoardSize {
			row[i] = [2]int{i, y}
		}
		lines = append(lines, row)
	}

	var diagonal, antiDiagonal, column line
	for i := range entity.BoardSize {
		diagonal[i] = [2]int{i, i}
		antiDiagonal[i] = [2]int{entity.BoardSize - 1 - i, i}
		column[i] = [2]int{x, i}
	}

	return append(lines, diagonal, antiDiagonal, column)
}

func isWinningLine(board entity.Board, l line) bool {
	first := board.At(l[0][0], l[0][1])
	if first.IsEmpty() {
		return false
	}

	for _, point := range l[1:] {
		if board.At(point[0], point[1]) != first {
			return false
		}
	}

	return true
}
