package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const BoardSize = 3

type Mark string

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

// Opponent returns the other player's mark. EmptyCell has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func CellFromIndex(index int) Cell {
	return Cell{Row: index / BoardSize, Col: index % BoardSize}
}

func (that Cell) Index() int {
	return that.Row*BoardSize + that.Col
}

func (that Cell) InBounds() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

// Board is the 3x3 grid in row-major order plus the mark to move.
type Board struct {
	Cells [BoardSize * BoardSize]Mark `json:"cells"`
	Turn  Mark                        `json:"turn"`
}

func NewBoard() *Board {
	return &Board{Turn: PlayerX}
}

// NewBoardFrom builds an arbitrary position. The alternation of marks is not checked.
func NewBoardFrom(cells [BoardSize * BoardSize]Mark, turn Mark) *Board {
	return &Board{Cells: cells, Turn: turn}
}

// Place puts mark into the cell and passes the turn. The board is left untouched on error.
func (that *Board) Place(row, col int, mark Mark) error {
	cell := Cell{Row: row, Col: col}
	if !cell.InBounds() {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrOutOfBounds, row, col)
	}

	if that.Evaluate().IsTerminal() {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrGameFinished)
	}

	if that.Turn != mark {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrNotYourTurn)
	}

	if that.Cells[cell.Index()] != EmptyCell {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrCellOccupied)
	}

	that.Cells[cell.Index()] = mark
	that.Turn = mark.Opponent()

	return nil
}

// Unplace reverts a successful Place of the same cell.
func (that *Board) Unplace(row, col int) {
	index := Cell{Row: row, Col: col}.Index()

	that.Turn = that.Cells[index]
	that.Cells[index] = EmptyCell
}

// Evaluate scans WinLines in order: rows, then columns, then diagonals.
func (that Board) Evaluate() Outcome {
	for _, line := range WinLines {
		a, b, c := that.Cells[line[0].Index()], that.Cells[line[1].Index()], that.Cells[line[2].Index()]
		if a != EmptyCell && a == b && b == c {
			if a == PlayerX {
				return Outcome{Status: StatusXWins, Line: line}
			}
			return Outcome{Status: StatusOWins, Line: line}
		}
	}

	if that.IsFull() {
		return Outcome{Status: StatusDraw}
	}

	return Outcome{Status: StatusInProgress}
}

func (that Board) IsFull() bool {
	for _, cell := range that.Cells {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// EmptyCells lists the free cells in row-major order.
func (that Board) EmptyCells() []Cell {
	cells := make([]Cell, 0, len(that.Cells))
	for i, cell := range that.Cells {
		if cell == EmptyCell {
			cells = append(cells, CellFromIndex(i))
		}
	}

	return cells
}

func (that *Board) Reset() {
	that.Cells = [BoardSize * BoardSize]Mark{}
	that.Turn = PlayerX
}
