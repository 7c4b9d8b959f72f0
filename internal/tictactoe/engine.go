package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// MoveResult tells the caller what ApplyMove did with a move.
type MoveResult int

const (
	MoveAccepted MoveResult = iota
	MoveRejectedOccupied
	MoveRejectedTerminal
	MoveRejectedInvalid
)

func (that MoveResult) String() string {
	switch that {
	case MoveAccepted:
		return "accepted"
	case MoveRejectedOccupied:
		return "rejected_occupied"
	case MoveRejectedTerminal:
		return "rejected_terminal"
	case MoveRejectedInvalid:
		return "rejected_invalid"
	default:
		return "unknown"
	}
}

// Engine holds a single game. It is not safe for concurrent use.
type Engine struct {
	board  entity.Board
	turn   entity.Mark
	status entity.Status

	observers []subscription
	nextObsID int
}

func NewEngine() *Engine {
	engine := &Engine{}
	engine.clear()

	return engine
}

// ApplyMove places the current player's mark at (row, col).
// A move on an occupied cell or a finished game changes nothing and is
// reported through MoveResult, not as an error.
func (that *Engine) ApplyMove(row, col int) (MoveResult, error) {
	if !entity.InBounds(row, col) {
		return MoveRejectedInvalid, fmt.Errorf("%w: row %d, col %d", apperror.ErrInvalidCoordinate, row, col)
	}

	if that.IsTerminal() {
		return MoveRejectedTerminal, nil
	}

	if that.board[row][col] != entity.EmptyCell {
		return MoveRejectedOccupied, nil
	}

	that.board[row][col] = that.turn
	that.status = evaluate(that.board)

	// the turn holder is frozen once the game is over
	if !that.IsTerminal() {
		that.turn = that.turn.Opponent()
	}

	that.notify(Event{Type: EventMoveApplied, Row: row, Col: col, Snapshot: that.Snapshot()})
	if that.IsTerminal() {
		that.notify(Event{Type: EventGameOver, Row: row, Col: col, Snapshot: that.Snapshot()})
	}

	return MoveAccepted, nil
}

// Reset starts a new game with X to move.
func (that *Engine) Reset() {
	that.clear()
	that.notify(Event{Type: EventReset, Snapshot: that.Snapshot()})
}

func (that *Engine) IsTerminal() bool {
	return that.status.IsTerminal()
}

func (that *Engine) StatusDescription() string {
	return that.status.Description()
}

func (that *Engine) Board() entity.Board {
	return that.board
}

func (that *Engine) Turn() entity.Mark {
	return that.turn
}

func (that *Engine) Status() entity.Status {
	return that.status
}

func (that *Engine) Snapshot() entity.Snapshot {
	return entity.Snapshot{
		Board:  that.board,
		Turn:   that.turn,
		Status: that.status,
	}
}

func (that *Engine) clear() {
	that.board = entity.Board{}
	that.turn = entity.PlayerX
	that.status = entity.StatusOngoing
}

// evaluate returns the status of the board after a move.
func evaluate(board entity.Board) entity.Status {
	if winner := findWinner(board); winner != entity.EmptyCell {
		return winner.WinStatus()
	}

	if board.IsFull() {
		return entity.StatusDraw
	}

	return entity.StatusOngoing
}

// findWinner runs the line checks in order and keeps the first winner found,
// so a later check reporting no win cannot undo an earlier one.
func findWinner(board entity.Board) entity.Mark {
	checks := []func(entity.Board) entity.Mark{
		checkDiagonals,
		checkColumns,
		checkRows,
	}

	for _, check := range checks {
		if winner := check(board); winner != entity.EmptyCell {
			return winner
		}
	}

	return entity.EmptyCell
}

func checkDiagonals(board entity.Board) entity.Mark {
	center := board[1][1]
	if center == entity.EmptyCell {
		return entity.EmptyCell
	}

	if (board[0][0] == center && board[2][2] == center) || (board[2][0] == center && board[0][2] == center) {
		return center
	}

	return entity.EmptyCell
}

func checkColumns(board entity.Board) entity.Mark {
	for col := range entity.BoardSize {
		top := board[0][col]
		if top != entity.EmptyCell && top == board[1][col] && top == board[2][col] {
			return top
		}
	}

	return entity.EmptyCell
}

func checkRows(board entity.Board) entity.Mark {
	for row := range entity.BoardSize {
		left := board[row][0]
		if left != entity.EmptyCell && left == board[row][1] && left == board[row][2] {
			return left
		}
	}

	return entity.EmptyCell
}
