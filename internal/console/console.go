package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var ErrBadCommand = errors.New("expected \"<row> <col>\", \"retry\" or \"quit\"")

type gameSession interface {
	Play(ctx context.Context, row, col int) (entity.Cell, bool, error)
	ResetGame()
	Board() entity.Board
	CurrentOutcome() entity.Outcome
	Message() string
}

// Console drives a session from line based text input.
type Console struct {
	logger  *slog.Logger
	session gameSession

	in  *bufio.Scanner
	out io.Writer
}

func New(logger *slog.Logger, session gameSession, in io.Reader, out io.Writer) *Console {
	return &Console{
		logger:  logger.With("component", "console"),
		session: session,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run reads commands until quit, end of input or ctx cancellation.
func (that *Console) Run(ctx context.Context) error {
	if err := that.render(); err != nil {
		return err
	}

	for that.in.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		quit, err := that.handle(ctx, strings.TrimSpace(that.in.Text()))
		if err != nil {
			return err
		}

		if quit {
			return nil
		}

		if err = that.render(); err != nil {
			return err
		}
	}

	if err := that.in.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

func (that *Console) handle(ctx context.Context, line string) (bool, error) {
	log := that.logger.With("method", "handle")

	switch line {
	case "quit", "exit":
		return true, nil
	case "retry":
		if !that.session.CurrentOutcome().IsTerminal() {
			return false, that.println("retry is available once the game is over")
		}
		that.session.ResetGame()
		return false, nil
	}

	row, col, err := parseCell(line)
	if err != nil {
		return false, that.println(err.Error())
	}

	_, _, err = that.session.Play(ctx, row, col)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, apperror.ErrInvalidMove), errors.Is(err, apperror.ErrOutOfBounds):
		// a bad click is ignored
		log.Debug("move ignored", "row", row, "col", col, "error", err)
		return false, nil
	default:
		return false, fmt.Errorf("failed to play: %w", err)
	}
}

func parseCell(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, ErrBadCommand
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, ErrBadCommand
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, ErrBadCommand
	}

	return row, col, nil
}

func (that *Console) render() error {
	board := that.session.Board()
	outcome := that.session.CurrentOutcome()

	builder := strings.Builder{}
	for row := 0; row < entity.BoardSize; row++ {
		if row > 0 {
			builder.WriteString("---+---+---\n")
		}

		cells := make([]string, 0, entity.BoardSize)
		for col := 0; col < entity.BoardSize; col++ {
			cell := entity.Cell{Row: row, Col: col}
			cells = append(cells, renderCell(board.Cells[cell.Index()], outcome.HasLine(cell)))
		}

		builder.WriteString(strings.Join(cells, "|"))
		builder.WriteByte('\n')
	}

	if message := that.session.Message(); message != "" {
		builder.WriteString(message)
		builder.WriteString(" Type retry to play again.\n")
	}

	builder.WriteString("> ")

	if _, err := io.WriteString(that.out, builder.String()); err != nil {
		return fmt.Errorf("failed to write board: %w", err)
	}

	return nil
}

// renderCell brackets the cells of the winning line.
func renderCell(mark entity.Mark, highlighted bool) string {
	symbol := string(mark)
	if mark == entity.EmptyCell {
		symbol = "."
	}

	if highlighted {
		return "[" + symbol + "]"
	}

	return " " + symbol + " "
}

func (that *Console) println(text string) error {
	if _, err := fmt.Fprintln(that.out, text); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
