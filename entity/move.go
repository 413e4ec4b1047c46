package entity

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rocketscienceinc/tictactoe-gameplay/apperror"
)

const MaxCommentsLength = 300

type Move struct {
	X             int       `json:"x"`
	Y             int       `json:"y"`
	Comments      string    `json:"comments,omitempty"`
	ByFirstPlayer bool      `json:"by_first_player"`
	GameID        string    `json:"game_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// Validate checks the move's coordinates and comments.
func (that *Move) Validate() error {
	if that.X < 0 || that.X >= BoardSize {
		return fmt.Errorf("%w: x=%d is outside [0, %d]", apperror.ErrValidation, that.X, BoardSize-1)
	}

	if that.Y < 0 || that.Y >= BoardSize {
		return fmt.Errorf("%w: y=%d is outside [0, %d]", apperror.ErrValidation, that.Y, BoardSize-1)
	}

	if utf8.RuneCountInString(that.Comments) > MaxCommentsLength {
		return fmt.Errorf("%w: comments longer than %d characters", apperror.ErrValidation, MaxCommentsLength)
	}

	return nil
}

func (that *Move) Player() Player {
	if that.ByFirstPlayer {
		return PlayerFirst
	}
	return PlayerSecond
}
