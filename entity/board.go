package entity

import "strings"

type Player int

const (
	PlayerFirst Player = iota + 1
	PlayerSecond
)

// Mark returns the symbol used when rendering the player on a board.
func (that Player) Mark() string {
	switch that {
	case PlayerFirst:
		return "X"
	case PlayerSecond:
		return "O"
	default:
		return "?"
	}
}

// Cell is either empty or occupied by exactly one player.
type Cell struct {
	owner Player
}

var EmptyCell = Cell{}

func Occupied(player Player) Cell {
	return Cell{owner: player}
}

func (that Cell) IsEmpty() bool {
	return that.owner == 0
}

func (that Cell) Owner() (Player, bool) {
	return that.owner, that.owner != 0
}

// Board is indexed as [y][x].
type Board [BoardSize][BoardSize]Cell

func (that Board) At(x, y int) Cell {
	return that[y][x]
}

func (that Board) String() string {
	var sb strings.Builder

	for y, row := range that {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range row {
			if owner, ok := cell.Owner(); ok {
				sb.WriteString(owner.Mark())
				continue
			}
			sb.WriteByte('.')
		}
	}

	return sb.String()
}
