package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
)

const (
	HumanMark    = entity.PlayerX
	ComputerMark = entity.PlayerO
)

type moveSearcher interface {
	BestMove(board entity.Board, maximizing bool) entity.SearchResult
}

type searchCache interface {
	CreateOrUpdate(ctx context.Context, position string, result *entity.SearchResult) error
	GetByPosition(ctx context.Context, position string) (*entity.SearchResult, error)
	DeleteByPosition(ctx context.Context, position string) error
}

// Session owns the board of a single human versus computer game.
type Session struct {
	logger *slog.Logger

	engine moveSearcher
	cache  searchCache

	board *entity.Board
}

// NewSession starts a game with an empty board. cache may be nil.
func NewSession(logger *slog.Logger, engine moveSearcher, cache searchCache) *Session {
	return &Session{
		logger: logger.With("component", "session"),
		engine: engine,
		cache:  cache,
		board:  entity.NewBoard(),
	}
}

// PlaceHumanMove applies the human mark. It fails with ErrOutOfBounds or ErrInvalidMove.
func (that *Session) PlaceHumanMove(row, col int) error {
	if err := that.board.Place(row, col, HumanMark); err != nil {
		return fmt.Errorf("failed to place human move: %w", err)
	}

	that.logger.Info("human moved", "row", row, "col", col, "position", that.board.Notation())

	return nil
}

func (that *Session) CurrentOutcome() entity.Outcome {
	return that.board.Evaluate()
}

// RequestComputerMove searches and applies the computer's move. On a finished
// board it does nothing and reports no move.
func (that *Session) RequestComputerMove(ctx context.Context) (entity.Cell, bool, error) {
	if that.board.Evaluate().IsTerminal() {
		return entity.Cell{}, false, nil
	}

	if that.board.Turn != ComputerMark {
		return entity.Cell{}, false, apperror.ErrNotYourTurn
	}

	result := that.bestMove(ctx)
	if !result.HasMove {
		return entity.Cell{}, false, nil
	}

	if err := that.board.Place(result.Move.Row, result.Move.Col, ComputerMark); err != nil {
		return entity.Cell{}, false, fmt.Errorf("failed to place computer move: %w", err)
	}

	that.logger.Info("computer moved",
		"row", result.Move.Row,
		"col", result.Move.Col,
		"value", result.Value,
		"position", that.board.Notation(),
	)

	return result.Move, true, nil
}

// Play applies the human move and, if the game goes on, answers it.
func (that *Session) Play(ctx context.Context, row, col int) (entity.Cell, bool, error) {
	if err := that.PlaceHumanMove(row, col); err != nil {
		return entity.Cell{}, false, err
	}

	if that.CurrentOutcome().IsTerminal() {
		return entity.Cell{}, false, nil
	}

	return that.RequestComputerMove(ctx)
}

func (that *Session) ResetGame() {
	that.board.Reset()

	that.logger.Info("game reset")
}

// Board returns a copy of the current board.
func (that *Session) Board() entity.Board {
	return *that.board
}

// Message is the status line shown under the board.
func (that *Session) Message() string {
	switch that.CurrentOutcome().Status {
	case entity.StatusXWins:
		return "X Wins!"
	case entity.StatusOWins:
		return "Computer Wins!"
	case entity.StatusDraw:
		return "It's a Draw!"
	default:
		return ""
	}
}

func (that *Session) bestMove(ctx context.Context) entity.SearchResult {
	if that.cache == nil {
		return that.engine.BestMove(*that.board, true)
	}

	log := that.logger.With("method", "bestMove")
	position := that.board.Notation()

	cached, err := that.cache.GetByPosition(ctx, position)
	switch {
	case err == nil && that.isPlayable(cached):
		log.Debug("search cache hit", "position", position)
		return *cached
	case err == nil:
		log.Warn("dropping unplayable cached result", "position", position)
		if err = that.cache.DeleteByPosition(ctx, position); err != nil {
			log.Error("failed to delete cached result", "error", err)
		}
	case !errors.Is(err, repository.ErrSearchResultNotFound):
		log.Error("failed to read search cache", "error", err)
	}

	result := that.engine.BestMove(*that.board, true)

	if err = that.cache.CreateOrUpdate(ctx, position, &result); err != nil {
		log.Error("failed to write search cache", "error", err)
	}

	return result
}

func (that *Session) isPlayable(result *entity.SearchResult) bool {
	return result != nil && result.HasMove && result.Move.InBounds() && that.board.Cells[result.Move.Index()] == entity.EmptyCell
}
