package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Restore rebuilds an engine from a stored snapshot.
// The snapshot must describe a position reachable by legal play from an empty board.
func Restore(snapshot entity.Snapshot) (*Engine, error) {
	if err := validateSnapshot(snapshot); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidSnapshot, err)
	}

	engine := NewEngine()
	engine.board = snapshot.Board
	engine.turn = snapshot.Turn
	engine.status = snapshot.Status

	return engine, nil
}

func validateSnapshot(snapshot entity.Snapshot) error {
	for _, cell := range snapshot.Board.Flatten() {
		if cell != entity.EmptyCell && !cell.IsPlayer() {
			return fmt.Errorf("unknown mark %q", cell)
		}
	}

	if !snapshot.Status.IsValid() {
		return fmt.Errorf("unknown status %q", snapshot.Status)
	}

	if !snapshot.Turn.IsPlayer() {
		return fmt.Errorf("unknown turn holder %q", snapshot.Turn)
	}

	// X always moves first
	xCount, oCount := snapshot.Board.Count(entity.PlayerX), snapshot.Board.Count(entity.PlayerO)
	if xCount != oCount && xCount != oCount+1 {
		return fmt.Errorf("impossible mark counts: X=%d, O=%d", xCount, oCount)
	}

	if status := evaluate(snapshot.Board); status != snapshot.Status {
		return fmt.Errorf("status %q does not match board (%q)", snapshot.Status, status)
	}

	lastMover := entity.PlayerO
	if xCount > oCount {
		lastMover = entity.PlayerX
	}

	if !snapshot.Status.IsTerminal() {
		if snapshot.Turn != lastMover.Opponent() {
			return fmt.Errorf("turn holder %q, expected %q", snapshot.Turn, lastMover.Opponent())
		}

		return nil
	}

	// the turn holder is frozen on the player who made the final move
	if snapshot.Turn != lastMover {
		return fmt.Errorf("turn holder %q, expected %q", snapshot.Turn, lastMover)
	}

	winner := snapshot.Status.Winner()
	if winner == entity.EmptyCell {
		return nil
	}

	if winner != lastMover {
		return fmt.Errorf("winner %q did not make the final move", winner)
	}

	// the loser can never complete a line, and five marks cannot hold two disjoint lines
	if len(linesOf(snapshot.Board, winner.Opponent())) > 0 {
		return fmt.Errorf("both players have a line")
	}

	return nil
}

type cell struct {
	row, col int
}

var allLines = [][entity.BoardSize]cell{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{2, 0}, {1, 1}, {0, 2}},
}

// linesOf returns every line fully held by mark.
func linesOf(board entity.Board, mark entity.Mark) [][entity.BoardSize]cell {
	var lines [][entity.BoardSize]cell

	for _, line := range allLines {
		held := true
		for _, c := range line {
			if board[c.row][c.col] != mark {
				held = false
				break
			}
		}

		if held {
			lines = append(lines, line)
		}
	}

	return lines
}
