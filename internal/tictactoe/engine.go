package tictactoe

import (
	"log/slog"
	"math"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Stats describes the work done by the last search.
type Stats struct {
	Nodes   int `json:"nodes"`
	Cutoffs int `json:"cutoffs"`
}

// Engine picks moves by exhaustive minimax search with alpha-beta pruning.
// O is the maximizing player, X the minimizing one. An Engine is not safe for
// concurrent use.
type Engine struct {
	logger *slog.Logger
	stats  Stats
}

func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{
		logger: logger.With("component", "engine"),
	}
}

// MarkFor returns the mark placed by the maximizing or minimizing side.
func MarkFor(maximizing bool) entity.Mark {
	if maximizing {
		return entity.PlayerO
	}
	return entity.PlayerX
}

// BestMove returns the value of the position and the first optimal move in
// row-major order. A terminal board yields its utility and no move. The
// search runs on a copy, the caller's board is never modified.
func (that *Engine) BestMove(board entity.Board, maximizing bool) entity.SearchResult {
	that.stats = Stats{}

	// the mover is dictated by the side being searched, not by board.Turn
	position := board
	position.Turn = MarkFor(maximizing)

	result := that.search(&position, maximizing, math.MinInt, math.MaxInt)

	that.logger.Debug("search finished",
		"position", board.Notation(),
		"value", result.Value,
		"move", result.Move,
		"has_move", result.HasMove,
		"nodes", that.stats.Nodes,
		"cutoffs", that.stats.Cutoffs,
	)

	return result
}

// Stats returns the counters of the last BestMove call.
func (that *Engine) Stats() Stats {
	return that.stats
}

func (that *Engine) search(position *entity.Board, maximizing bool, alpha, beta int) entity.SearchResult {
	that.stats.Nodes++

	if outcome := position.Evaluate(); outcome.IsTerminal() {
		return entity.SearchResult{Value: outcome.Utility()}
	}

	mark := MarkFor(maximizing)

	best := entity.SearchResult{Value: math.MaxInt}
	if maximizing {
		best.Value = math.MinInt
	}

	// a single loop over the 9 cells, so a cutoff skips every remaining candidate
	for index := range position.Cells {
		if position.Cells[index] != entity.EmptyCell {
			continue
		}

		cell := entity.CellFromIndex(index)

		position.Cells[index] = mark
		position.Turn = mark.Opponent()
		value := that.search(position, !maximizing, alpha, beta).Value
		position.Unplace(cell.Row, cell.Col)

		if maximizing {
			if value > best.Value {
				best = entity.SearchResult{Value: value, Move: cell, HasMove: true}
			}
			alpha = max(alpha, best.Value)
		} else {
			if value < best.Value {
				best = entity.SearchResult{Value: value, Move: cell, HasMove: true}
			}
			beta = min(beta, best.Value)
		}

		if beta <= alpha {
			that.stats.Cutoffs++
			break
		}
	}

	return best
}
