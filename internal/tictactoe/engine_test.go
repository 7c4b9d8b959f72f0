package tictactoe

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

type move struct {
	row, col int
}

// play applies the moves in order and fails the test if any of them is not accepted.
func play(t *testing.T, engine *Engine, moves ...move) {
	t.Helper()

	for _, m := range moves {
		result, err := engine.ApplyMove(m.row, m.col)
		require.NoError(t, err)
		require.Equal(t, MoveAccepted, result, "move (%d, %d)", m.row, m.col)
	}
}

func TestNewEngine(t *testing.T) {
	// When: create a new engine
	engine := NewEngine()

	// Then: the board is empty, X moves first and the game is in progress
	expected := entity.Snapshot{
		Board:  entity.Board{},
		Turn:   entity.PlayerX,
		Status: entity.StatusOngoing,
	}

	require.Equal(t, expected, engine.Snapshot())
	assert.False(t, engine.IsTerminal())
	assert.Equal(t, "Game in Progress", engine.StatusDescription())
}

func TestEngine_ApplyMove(t *testing.T) {
	t.Run("Accepted move places the mark and flips the turn", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()

		// When: X plays the center
		result, err := engine.ApplyMove(1, 1)

		// Then: the mark is placed and it is O's turn
		require.NoError(t, err)
		assert.Equal(t, MoveAccepted, result)
		assert.Equal(t, x, engine.Board().Cell(1, 1))
		assert.Equal(t, o, engine.Turn())
		assert.Equal(t, entity.StatusOngoing, engine.Status())
	})

	t.Run("X wins on the top row", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()

		// When: X completes the top row
		play(t, engine, move{0, 0}, move{1, 0}, move{0, 1}, move{1, 1}, move{0, 2})

		// Then: X has won and the turn holder stays on X
		assert.Equal(t, entity.StatusXWon, engine.Status())
		assert.True(t, engine.IsTerminal())
		assert.Equal(t, x, engine.Turn())
		assert.Equal(t, "X has Won the Game", engine.StatusDescription())
	})

	t.Run("X wins on the main diagonal", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()

		// When: X completes the diagonal
		play(t, engine, move{0, 0}, move{0, 1}, move{1, 1}, move{0, 2}, move{2, 2})

		// Then: X has won
		assert.Equal(t, entity.StatusXWon, engine.Status())
	})

	t.Run("X wins on the anti diagonal", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()

		// When: X completes the anti diagonal
		play(t, engine, move{2, 0}, move{0, 0}, move{1, 1}, move{0, 1}, move{0, 2})

		// Then: X has won
		assert.Equal(t, entity.StatusXWon, engine.Status())
	})

	t.Run("X wins on a column", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()

		// When: X completes the middle column
		play(t, engine, move{0, 1}, move{0, 0}, move{1, 1}, move{1, 0}, move{2, 1})

		// Then: X has won
		assert.Equal(t, entity.StatusXWon, engine.Status())
	})

	t.Run("O wins on the bottom row", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()

		// When: O completes the bottom row
		play(t, engine, move{0, 0}, move{2, 0}, move{0, 1}, move{2, 1}, move{1, 2}, move{2, 2})

		// Then: O has won and the turn holder stays on O
		assert.Equal(t, entity.StatusOWon, engine.Status())
		assert.Equal(t, o, engine.Turn())
		assert.Equal(t, "O has Won the Game", engine.StatusDescription())
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()

		// When: all nine cells are filled without three in a row
		play(t, engine,
			move{0, 0}, move{0, 1}, move{0, 2},
			move{1, 1}, move{1, 0}, move{1, 2},
			move{2, 1}, move{2, 0}, move{2, 2},
		)

		// Then: the game is a draw
		expected := entity.Board{
			{x, o, x},
			{x, o, o},
			{o, x, x},
		}

		assert.Equal(t, expected, engine.Board())
		assert.Equal(t, entity.StatusDraw, engine.Status())
		assert.True(t, engine.IsTerminal())
		assert.Equal(t, "Game Results in a Tie", engine.StatusDescription())
	})

	t.Run("Win on the last free cell is a win, not a draw", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()

		// When: X fills the ninth cell and completes the diagonal
		play(t, engine,
			move{0, 0}, move{0, 1}, move{0, 2},
			move{1, 0}, move{1, 1}, move{1, 2},
			move{2, 1}, move{2, 0}, move{2, 2},
		)

		// Then: X has won
		assert.True(t, engine.Board().IsFull())
		assert.Equal(t, entity.StatusXWon, engine.Status())
	})

	t.Run("Move on an occupied cell is a no-op", func(t *testing.T) {
		// Given: X(0,0), O(1,1), X(0,1)
		engine := NewEngine()
		play(t, engine, move{0, 0}, move{1, 1}, move{0, 1})
		before := engine.Snapshot()

		// When: O tries to play (0,1) again
		result, err := engine.ApplyMove(0, 1)

		// Then: nothing changes and O still holds the turn
		require.NoError(t, err)
		assert.Equal(t, MoveRejectedOccupied, result)
		assert.Equal(t, before, engine.Snapshot())
		assert.Equal(t, o, engine.Turn())
		assert.Equal(t, entity.StatusOngoing, engine.Status())
	})

	t.Run("Move after the game is over is a no-op", func(t *testing.T) {
		// Given: X has won on the top row
		engine := NewEngine()
		play(t, engine, move{0, 0}, move{1, 0}, move{0, 1}, move{1, 1}, move{0, 2})
		before := engine.Snapshot()

		// When: any free cell is played
		for row := range entity.BoardSize {
			for col := range entity.BoardSize {
				result, err := engine.ApplyMove(row, col)

				// Then: the move is rejected and nothing changes
				require.NoError(t, err)
				assert.Equal(t, MoveRejectedTerminal, result)
			}
		}

		assert.Equal(t, before, engine.Snapshot())
	})

	t.Run("Out of range coordinates fail with ErrInvalidCoordinate", func(t *testing.T) {
		// Given: a game in progress
		engine := NewEngine()
		play(t, engine, move{0, 0})
		before := engine.Snapshot()

		for _, m := range []move{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {20, 20}} {
			// When: the move is out of the grid
			result, err := engine.ApplyMove(m.row, m.col)

			// Then: an error is returned and nothing changes
			require.ErrorIs(t, err, apperror.ErrInvalidCoordinate)
			assert.Equal(t, MoveRejectedInvalid, result)
		}

		assert.Equal(t, before, engine.Snapshot())
	})

	t.Run("Occupied cells never decrease until reset", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()
		moves := []move{{1, 1}, {1, 1}, {0, 0}, {0, 0}, {2, 2}, {0, 2}, {2, 0}, {1, 0}, {2, 1}}

		occupied := 0
		for _, m := range moves {
			// When: moves, some of them rejected, are applied
			turn := engine.Turn()
			result, err := engine.ApplyMove(m.row, m.col)
			require.NoError(t, err)

			// Then: occupancy grows by one only on accepted moves
			current := engine.Board().Occupied()
			if result == MoveAccepted {
				assert.Equal(t, occupied+1, current)
			} else {
				assert.Equal(t, occupied, current)
				assert.Equal(t, turn, engine.Turn())
			}

			occupied = current
		}
	})
}

func TestEngine_Reset(t *testing.T) {
	t.Run("Reset after a win starts a new game", func(t *testing.T) {
		// Given: X has won on the top row
		engine := NewEngine()
		play(t, engine, move{0, 0}, move{1, 0}, move{0, 1}, move{1, 1}, move{0, 2})

		// When: the game is reset
		engine.Reset()

		// Then: the board is empty, X moves and the game is in progress
		assert.Equal(t, entity.Board{}, engine.Board())
		assert.Equal(t, x, engine.Turn())
		assert.Equal(t, entity.StatusOngoing, engine.Status())
		assert.False(t, engine.IsTerminal())
	})

	t.Run("Reset is idempotent", func(t *testing.T) {
		// Given: a game in progress
		engine := NewEngine()
		play(t, engine, move{0, 0}, move{2, 2})

		// When: reset is called twice
		engine.Reset()
		once := engine.Snapshot()
		engine.Reset()

		// Then: the state is the same as after one reset
		assert.Equal(t, once, engine.Snapshot())
		assert.Equal(t, NewEngine().Snapshot(), engine.Snapshot())
	})

	t.Run("Moves are accepted again after reset", func(t *testing.T) {
		// Given: a finished game that was reset
		engine := NewEngine()
		play(t, engine, move{0, 0}, move{0, 1}, move{1, 1}, move{0, 2}, move{2, 2})
		engine.Reset()

		// When: X plays a cell that was occupied before the reset
		result, err := engine.ApplyMove(0, 0)

		// Then: the move is accepted
		require.NoError(t, err)
		assert.Equal(t, MoveAccepted, result)
	})
}

func TestEngine_Snapshot(t *testing.T) {
	// Given: a game in progress
	engine := NewEngine()
	play(t, engine, move{0, 0})

	// When: the snapshot is modified by the caller
	snapshot := engine.Snapshot()
	snapshot.Board[1][1] = o
	snapshot.Status = entity.StatusOWon

	// Then: the engine state is untouched
	assert.Equal(t, e, engine.Board().Cell(1, 1))
	assert.Equal(t, entity.StatusOngoing, engine.Status())
}

func TestEngine_evaluate(t *testing.T) {
	tests := []struct {
		name     string
		board    entity.Board
		expected entity.Status
	}{
		{
			name:     "empty board",
			board:    entity.Board{},
			expected: entity.StatusOngoing,
		},
		{
			name:     "middle row O",
			board:    entity.Board{{x, e, x}, {o, o, o}, {x, e, e}},
			expected: entity.StatusOWon,
		},
		{
			name:     "bottom row X",
			board:    entity.Board{{o, o, e}, {e, e, e}, {x, x, x}},
			expected: entity.StatusXWon,
		},
		{
			name:     "right column O",
			board:    entity.Board{{x, x, o}, {e, e, o}, {x, e, o}},
			expected: entity.StatusOWon,
		},
		{
			name:     "no line yet",
			board:    entity.Board{{x, o, x}, {e, o, e}, {o, x, e}},
			expected: entity.StatusOngoing,
		},
		{
			name:     "full board without a line",
			board:    entity.Board{{o, x, o}, {o, x, x}, {x, o, x}},
			expected: entity.StatusDraw,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// When: the board is evaluated
			status := evaluate(tt.board)

			// Then: the status matches
			assert.Equal(t, tt.expected, status)
		})
	}
}
