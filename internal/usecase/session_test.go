package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell

	centerOpening = "3/1x1/3 o"
)

var errRedisDown = errors.New("redis down")

type mockSearchCache struct {
	mock.Mock
}

func (that *mockSearchCache) CreateOrUpdate(ctx context.Context, position string, result *entity.SearchResult) error {
	args := that.Called(ctx, position, result)
	return args.Error(0)
}

func (that *mockSearchCache) GetByPosition(ctx context.Context, position string) (*entity.SearchResult, error) {
	args := that.Called(ctx, position)

	result, _ := args.Get(0).(*entity.SearchResult)
	return result, args.Error(1)
}

func (that *mockSearchCache) DeleteByPosition(ctx context.Context, position string) error {
	args := that.Called(ctx, position)
	return args.Error(0)
}

func newTestSession(cache searchCache) *Session {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewSession(logger, tictactoe.NewEngine(logger), cache)
}

func TestNewSession(t *testing.T) {
	// Given: a new session
	session := newTestSession(nil)

	// Then: the board is empty, X moves and the game is in progress
	assert.Equal(t, *entity.NewBoard(), session.Board())
	assert.Equal(t, entity.StatusInProgress, session.CurrentOutcome().Status)
	assert.Empty(t, session.Message())
}

func TestSession_PlaceHumanMove(t *testing.T) {
	t.Run("Places the human mark", func(t *testing.T) {
		// Given: a new session
		session := newTestSession(nil)

		// When: the human plays the center
		err := session.PlaceHumanMove(1, 1)

		// Then: X is placed and the computer is to move
		require.NoError(t, err)
		board := session.Board()
		assert.Equal(t, entity.PlayerX, board.Cells[4])
		assert.Equal(t, entity.PlayerO, board.Turn)
	})

	t.Run("Error on out of bounds cell", func(t *testing.T) {
		// Given: a new session
		session := newTestSession(nil)

		// When: the human clicks outside the grid
		err := session.PlaceHumanMove(3, 0)

		// Then: ErrOutOfBounds is returned and nothing changes
		require.ErrorIs(t, err, apperror.ErrOutOfBounds)
		assert.Equal(t, *entity.NewBoard(), session.Board())
	})

	t.Run("Error on playing out of turn", func(t *testing.T) {
		// Given: the human already moved
		session := newTestSession(nil)
		require.NoError(t, session.PlaceHumanMove(0, 0))

		// When: the human tries to move again before the computer
		err := session.PlaceHumanMove(0, 1)

		// Then: an invalid move is returned
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Error on occupied cell", func(t *testing.T) {
		// Given: the computer answered the center opening in the top left corner
		session := newTestSession(nil)
		_, _, err := session.Play(context.Background(), 1, 1)
		require.NoError(t, err)

		// When: the human clicks the computer's cell
		err = session.PlaceHumanMove(0, 0)

		// Then: an invalid move is returned
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
	})

	t.Run("Error on finished game", func(t *testing.T) {
		// Given: the computer already won
		session := newTestSession(nil)
		session.board = entity.NewBoardFrom([9]entity.Mark{
			o, o, o,
			x, x, e,
			x, e, e,
		}, entity.PlayerX)

		// When: the human tries to keep playing
		err := session.PlaceHumanMove(1, 2)

		// Then: an invalid move is returned
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, "Computer Wins!", session.Message())
	})
}

func TestSession_RequestComputerMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Answers the center opening with a corner", func(t *testing.T) {
		// Given: the human played the center
		session := newTestSession(nil)
		require.NoError(t, session.PlaceHumanMove(1, 1))

		// When: the computer is asked to move
		cell, ok, err := session.RequestComputerMove(ctx)

		// Then: it plays the top left corner and passes the turn back
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, entity.Cell{Row: 0, Col: 0}, cell)

		board := session.Board()
		assert.Equal(t, entity.PlayerO, board.Cells[0])
		assert.Equal(t, entity.PlayerX, board.Turn)
	})

	t.Run("Blocks a column threat", func(t *testing.T) {
		// Given: X threatens the left column
		session := newTestSession(nil)
		session.board = entity.NewBoardFrom([9]entity.Mark{
			x, e, e,
			x, o, e,
			e, e, e,
		}, entity.PlayerO)

		// When: the computer is asked to move
		cell, ok, err := session.RequestComputerMove(ctx)

		// Then: the column is blocked
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, entity.Cell{Row: 2, Col: 0}, cell)
	})

	t.Run("Error when it is the human's turn", func(t *testing.T) {
		// Given: a new session
		session := newTestSession(nil)

		// When: the computer is asked to move first
		_, ok, err := session.RequestComputerMove(ctx)

		// Then: ErrNotYourTurn is returned
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.False(t, ok)
	})

	t.Run("No move on a full board", func(t *testing.T) {
		// Given: a drawn game
		session := newTestSession(nil)
		session.board = entity.NewBoardFrom([9]entity.Mark{
			x, o, x,
			x, o, o,
			o, x, x,
		}, entity.PlayerO)
		before := session.Board()

		// When: the computer is asked to move
		_, ok, err := session.RequestComputerMove(ctx)

		// Then: nothing happens
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, before, session.Board())
		assert.Equal(t, entity.StatusDraw, session.CurrentOutcome().Status)
		assert.Equal(t, "It's a Draw!", session.Message())
	})
}

func TestSession_RequestComputerMove_Cache(t *testing.T) {
	ctx := context.Background()
	engineAnswer := &entity.SearchResult{Value: 0, Move: entity.Cell{Row: 0, Col: 0}, HasMove: true}

	t.Run("Uses a cached result", func(t *testing.T) {
		// Given: the cache knows an answer to the center opening
		cache := &mockSearchCache{}
		cache.On("GetByPosition", mock.Anything, centerOpening).
			Return(&entity.SearchResult{Value: 0, Move: entity.Cell{Row: 2, Col: 2}, HasMove: true}, nil).
			Once()

		session := newTestSession(cache)
		require.NoError(t, session.PlaceHumanMove(1, 1))

		// When: the computer is asked to move
		cell, ok, err := session.RequestComputerMove(ctx)

		// Then: the cached move is played without searching or writing
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, entity.Cell{Row: 2, Col: 2}, cell)
		cache.AssertExpectations(t)
		cache.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Stores the result on a miss", func(t *testing.T) {
		// Given: an empty cache
		cache := &mockSearchCache{}
		cache.On("GetByPosition", mock.Anything, centerOpening).
			Return(nil, repository.ErrSearchResultNotFound).
			Once()
		cache.On("CreateOrUpdate", mock.Anything, centerOpening, engineAnswer).
			Return(nil).
			Once()

		session := newTestSession(cache)
		require.NoError(t, session.PlaceHumanMove(1, 1))

		// When: the computer is asked to move
		cell, ok, err := session.RequestComputerMove(ctx)

		// Then: the engine answer is played and cached
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, engineAnswer.Move, cell)
		cache.AssertExpectations(t)
	})

	t.Run("Ignores cache failures", func(t *testing.T) {
		// Given: a cache that is down
		cache := &mockSearchCache{}
		cache.On("GetByPosition", mock.Anything, centerOpening).
			Return(nil, errRedisDown).
			Once()
		cache.On("CreateOrUpdate", mock.Anything, centerOpening, engineAnswer).
			Return(errRedisDown).
			Once()

		session := newTestSession(cache)
		require.NoError(t, session.PlaceHumanMove(1, 1))

		// When: the computer is asked to move
		cell, ok, err := session.RequestComputerMove(ctx)

		// Then: the engine still answers
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, engineAnswer.Move, cell)
		cache.AssertExpectations(t)
	})

	t.Run("Drops an unplayable cached result", func(t *testing.T) {
		// Given: the cache points at the occupied center
		cache := &mockSearchCache{}
		cache.On("GetByPosition", mock.Anything, centerOpening).
			Return(&entity.SearchResult{Value: 0, Move: entity.Cell{Row: 1, Col: 1}, HasMove: true}, nil).
			Once()
		cache.On("DeleteByPosition", mock.Anything, centerOpening).
			Return(nil).
			Once()
		cache.On("CreateOrUpdate", mock.Anything, centerOpening, engineAnswer).
			Return(nil).
			Once()

		session := newTestSession(cache)
		require.NoError(t, session.PlaceHumanMove(1, 1))

		// When: the computer is asked to move
		cell, ok, err := session.RequestComputerMove(ctx)

		// Then: the entry is replaced by the engine answer
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, engineAnswer.Move, cell)
		cache.AssertExpectations(t)
	})
}

func TestSession_Play(t *testing.T) {
	ctx := context.Background()

	t.Run("Human never wins by taking the first free cell", func(t *testing.T) {
		// Given: a new session
		session := newTestSession(nil)

		// When: the human always plays the first free cell
		for !session.CurrentOutcome().IsTerminal() {
			cell := session.Board().EmptyCells()[0]
			_, _, err := session.Play(ctx, cell.Row, cell.Col)
			require.NoError(t, err)
		}

		// Then: the computer wins
		assert.Equal(t, entity.StatusOWins, session.CurrentOutcome().Status)
		assert.Equal(t, "Computer Wins!", session.Message())
	})

	t.Run("No computer reply after a winning human move", func(t *testing.T) {
		// Given: X can complete the top row
		session := newTestSession(nil)
		session.board = entity.NewBoardFrom([9]entity.Mark{
			x, x, e,
			o, o, e,
			e, e, e,
		}, entity.PlayerX)

		// When: the human completes it
		_, ok, err := session.Play(ctx, 0, 2)

		// Then: the game ends with the winning line and no reply
		require.NoError(t, err)
		assert.False(t, ok)

		outcome := session.CurrentOutcome()
		assert.Equal(t, entity.StatusXWins, outcome.Status)
		assert.Equal(t, [3]entity.Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}, outcome.Line)
		assert.Equal(t, "X Wins!", session.Message())
	})

	t.Run("Human error is returned unchanged", func(t *testing.T) {
		session := newTestSession(nil)

		_, ok, err := session.Play(ctx, -1, 5)

		require.ErrorIs(t, err, apperror.ErrOutOfBounds)
		assert.False(t, ok)
	})
}

func TestSession_ResetGame(t *testing.T) {
	// Given: a session after a few moves
	session := newTestSession(nil)
	_, _, err := session.Play(context.Background(), 1, 1)
	require.NoError(t, err)
	_, _, err = session.Play(context.Background(), 2, 2)
	require.NoError(t, err)

	// When: the game is reset
	session.ResetGame()

	// Then: the board is empty and the game is in progress
	assert.Equal(t, *entity.NewBoard(), session.Board())
	assert.Equal(t, entity.StatusInProgress, session.CurrentOutcome().Status)
	assert.Empty(t, session.Message())
}
