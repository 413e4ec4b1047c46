package apperror

import "errors"

var (
	ErrInvalidState      = errors.New("cannot move on a finished game")
	ErrValidation        = errors.New("validation failed")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrGameNotFound      = errors.New("game not found")
	ErrGameAlreadyExists = errors.New("game already exists")
	ErrNotAPlayer        = errors.New("user is not a player of this game")
	ErrSamePlayers       = errors.New("players must be different users")
	ErrConcurrentUpdate  = errors.New("game was modified concurrently")
)
