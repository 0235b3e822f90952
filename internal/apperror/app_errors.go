package apperror

import "errors"

var (
	ErrInvalidMove  = errors.New("invalid move")
	ErrOutOfBounds  = errors.New("cell is out of bounds")
	ErrGameFinished = errors.New("game is already finished")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrCellOccupied = errors.New("cell is already occupied")
)
