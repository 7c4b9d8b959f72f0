package entity

import "time"

// Session is a single hosted game as seen by adapters and storage.
type Session struct {
	ID        string    `json:"id"`
	Snapshot  Snapshot  `json:"snapshot"`
	UpdatedAt time.Time `json:"updated_at"`

	// GameOver is set only on the response to the move that ended the game.
	GameOver bool `json:"game_over,omitempty"`
}

func (that *Session) IsFinished() bool {
	return that.Snapshot.Status.IsTerminal()
}

func (that *Session) Description() string {
	return that.Snapshot.Status.Description()
}
