package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidNotation = errors.New("invalid board notation")

// Notation encodes the board like a FEN string: rows joined by '/', runs of
// empty cells as digits, marks as 'x'/'o', then the mover.
//
//	x2/1o1/3 x
func (that Board) Notation() string {
	builder := strings.Builder{}

	for row := 0; row < BoardSize; row++ {
		if row > 0 {
			builder.WriteByte('/')
		}

		empty := 0
		for col := 0; col < BoardSize; col++ {
			mark := that.Cells[Cell{Row: row, Col: col}.Index()]
			if mark == EmptyCell {
				empty++
				continue
			}

			if empty > 0 {
				builder.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			builder.WriteString(strings.ToLower(string(mark)))
		}

		if empty > 0 {
			builder.WriteString(strconv.Itoa(empty))
		}
	}

	builder.WriteByte(' ')
	builder.WriteString(strings.ToLower(string(that.Turn)))

	return builder.String()
}

func ParseNotation(notation string) (*Board, error) {
	parts := strings.Fields(notation)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
	}

	turn, err := parseMark(parts[1])
	if err != nil || turn == EmptyCell {
		return nil, fmt.Errorf("%w: bad turn %q", ErrInvalidNotation, parts[1])
	}

	rows := strings.Split(parts[0], "/")
	if len(rows) != BoardSize {
		return nil, fmt.Errorf("%w: want %d rows, got %d", ErrInvalidNotation, BoardSize, len(rows))
	}

	board := &Board{Turn: turn}
	for row, text := range rows {
		col := 0
		for _, r := range text {
			if r >= '1' && r <= '9' {
				col += int(r - '0')
				continue
			}

			mark, err := parseMark(string(r))
			if err != nil || mark == EmptyCell {
				return nil, fmt.Errorf("%w: bad symbol %q in row %d", ErrInvalidNotation, r, row)
			}

			if col >= BoardSize {
				return nil, fmt.Errorf("%w: row %d is too long", ErrInvalidNotation, row)
			}

			board.Cells[Cell{Row: row, Col: col}.Index()] = mark
			col++
		}

		if col != BoardSize {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrInvalidNotation, row, col)
		}
	}

	return board, nil
}

func parseMark(s string) (Mark, error) {
	switch strings.ToUpper(s) {
	case string(PlayerX):
		return PlayerX, nil
	case string(PlayerO):
		return PlayerO, nil
	case "":
		return EmptyCell, nil
	default:
		return EmptyCell, fmt.Errorf("%w: unknown mark %q", ErrInvalidNotation, s)
	}
}

// String renders the grid with '.' for empty cells, one row per line.
func (that Board) String() string {
	builder := strings.Builder{}

	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if col > 0 {
				builder.WriteByte(' ')
			}

			mark := that.Cells[Cell{Row: row, Col: col}.Index()]
			if mark == EmptyCell {
				builder.WriteByte('.')
			} else {
				builder.WriteString(string(mark))
			}
		}
		builder.WriteByte('\n')
	}

	return builder.String()
}
