package entity

import (
	"fmt"
	"time"
)

// BoardSize is the side length of the square board.
const BoardSize = 3

type Status string

const (
	StatusFirstToMove  Status = "F"
	StatusSecondToMove Status = "S"
	StatusFirstWins    Status = "W"
	StatusSecondWins   Status = "L"
	StatusDraw         Status = "D"
)

// IsTerminal reports whether no further moves may be made.
func (that Status) IsTerminal() bool {
	switch that {
	case StatusFirstWins, StatusSecondWins, StatusDraw:
		return true
	default:
		return false
	}
}

func (that Status) IsValid() bool {
	switch that {
	case StatusFirstToMove, StatusSecondToMove, StatusFirstWins, StatusSecondWins, StatusDraw:
		return true
	default:
		return false
	}
}

func (that Status) String() string {
	switch that {
	case StatusFirstToMove:
		return "first player to move"
	case StatusSecondToMove:
		return "second player to move"
	case StatusFirstWins:
		return "first player wins"
	case StatusSecondWins:
		return "second player wins"
	case StatusDraw:
		return "draw"
	default:
		return fmt.Sprintf("unknown status %q", string(that))
	}
}

// Game is a single match between two users. The game owns its moves in the order
// they were accepted.
type Game struct {
	ID           string    `json:"id"`
	FirstPlayer  string    `json:"first_player"`
	SecondPlayer string    `json:"second_player"`
	Status       Status    `json:"status"`
	StartTime    time.Time `json:"start_time"`
	LastActive   time.Time `json:"last_active"`
	Moves        []*Move   `json:"moves,omitempty"`
}

func NewGame(id, firstPlayer, secondPlayer string) *Game {
	now := time.Now().UTC()

	return &Game{
		ID:           id,
		FirstPlayer:  firstPlayer,
		SecondPlayer: secondPlayer,
		Status:       StatusFirstToMove,
		StartTime:    now,
		LastActive:   now,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status.IsTerminal()
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusFirstToMove || that.Status == StatusSecondToMove
}

// Involves reports whether user plays in this game on either side.
func (that *Game) Involves(user string) bool {
	return user != "" && (user == that.FirstPlayer || user == that.SecondPlayer)
}

// ValidateMoves - checks every recorded move, e.g. after loading a game from storage.
func (that *Game) ValidateMoves() error {
	for i, move := range that.Moves {
		if err := move.Validate(); err != nil {
			return fmt.Errorf("move %d: %w", i, err)
		}
	}

	return nil
}

func (that *Game) String() string {
	return fmt.Sprintf("%s v/s %s", that.FirstPlayer, that.SecondPlayer)
}
