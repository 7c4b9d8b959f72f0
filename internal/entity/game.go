package entity

// Mark is the occupant of a board cell.
type Mark string

// Status is the state of a single game.
type Status string

const (
	StatusOngoing Status = "ongoing"
	StatusXWon    Status = "x_won"
	StatusOWon    Status = "o_won"
	StatusDraw    Status = "draw"

	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	EmptyCell Mark = ""
)

const BoardSize = 3

// Board is a fixed 3x3 grid indexed as [row][col].
type Board [BoardSize][BoardSize]Mark

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	Board  Board  `json:"board"`
	Turn   Mark   `json:"turn"`
	Status Status `json:"status"`
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

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

// WinStatus maps a winning mark to its terminal status.
func (that Mark) WinStatus() Status {
	switch that {
	case PlayerX:
		return StatusXWon
	case PlayerO:
		return StatusOWon
	default:
		return StatusOngoing
	}
}

func (that Status) IsTerminal() bool {
	return that != StatusOngoing
}

func (that Status) IsValid() bool {
	switch that {
	case StatusOngoing, StatusXWon, StatusOWon, StatusDraw:
		return true
	default:
		return false
	}
}

// Winner returns the mark that won the game or EmptyCell.
func (that Status) Winner() Mark {
	switch that {
	case StatusXWon:
		return PlayerX
	case StatusOWon:
		return PlayerO
	default:
		return EmptyCell
	}
}

// Description returns the end-of-game text shown to players.
func (that Status) Description() string {
	switch that {
	case StatusOngoing:
		return "Game in Progress"
	case StatusXWon:
		return "X has Won the Game"
	case StatusOWon:
		return "O has Won the Game"
	case StatusDraw:
		return "Game Results in a Tie"
	default:
		return "Unknown Game Status"
	}
}

func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

func (that Board) Cell(row, col int) Mark {
	return that[row][col]
}

func (that Board) IsFull() bool {
	return that.Count(EmptyCell) == 0
}

// Count returns the number of cells holding the given mark.
func (that Board) Count(mark Mark) int {
	n := 0
	for _, row := range that {
		for _, cell := range row {
			if cell == mark {
				n++
			}
		}
	}

	return n
}

func (that Board) Occupied() int {
	return BoardSize*BoardSize - that.Count(EmptyCell)
}

// Flatten returns the board in row-major order.
func (that Board) Flatten() [BoardSize * BoardSize]Mark {
	var cells [BoardSize * BoardSize]Mark
	for row := range BoardSize {
		for col := range BoardSize {
			cells[row*BoardSize+col] = that[row][col]
		}
	}

	return cells
}
