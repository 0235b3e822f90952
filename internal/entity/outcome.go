package entity

const (
	StatusInProgress = "in_progress"
	StatusXWins      = "x_wins"
	StatusOWins      = "o_wins"
	StatusDraw       = "draw"
)

// WinLines holds the 8 winning lines: rows, columns, main diagonal, anti diagonal.
var WinLines = [8][3]Cell{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Outcome classifies a board. Line is set only for a win.
type Outcome struct {
	Status string  `json:"status"`
	Line   [3]Cell `json:"line"`
}

func (that Outcome) IsTerminal() bool {
	return that.Status != StatusInProgress
}

func (that Outcome) Winner() Mark {
	switch that.Status {
	case StatusXWins:
		return PlayerX
	case StatusOWins:
		return PlayerO
	default:
		return EmptyCell
	}
}

// Utility is the minimax score: -1 X wins, +1 O wins, 0 otherwise.
func (that Outcome) Utility() int {
	switch that.Status {
	case StatusXWins:
		return -1
	case StatusOWins:
		return 1
	default:
		return 0
	}
}

// HasLine reports whether cell is part of the winning line.
func (that Outcome) HasLine(cell Cell) bool {
	if that.Status != StatusXWins && that.Status != StatusOWins {
		return false
	}

	for _, c := range that.Line {
		if c == cell {
			return true
		}
	}

	return false
}

// SearchResult is the engine's answer for a position. Move is meaningful only when HasMove is set.
type SearchResult struct {
	Value   int  `json:"value"`
	Move    Cell `json:"move"`
	HasMove bool `json:"has_move"`
}
