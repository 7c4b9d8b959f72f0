package tictactoe

import (
	"slices"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type EventType string

const (
	EventMoveApplied EventType = "move_applied"
	EventGameOver    EventType = "game_over"
	EventReset       EventType = "reset"
)

// Event describes a state transition of the engine.
type Event struct {
	Type     EventType       `json:"type"`
	Row      int             `json:"row"`
	Col      int             `json:"col"`
	Snapshot entity.Snapshot `json:"snapshot"`
}

// Observer receives engine events synchronously, after the transition is complete.
type Observer interface {
	Notify(event Event)
}

type ObserverFunc func(event Event)

func (that ObserverFunc) Notify(event Event) {
	that(event)
}

type subscription struct {
	id       int
	observer Observer
}

// Subscribe registers an observer and returns a function that removes it.
// Observers are notified in subscription order.
func (that *Engine) Subscribe(observer Observer) func() {
	id := that.nextObsID
	that.nextObsID++
	that.observers = append(that.observers, subscription{id: id, observer: observer})

	return func() {
		for i, sub := range that.observers {
			if sub.id == id {
				that.observers = slices.Delete(slices.Clone(that.observers), i, i+1)
				return
			}
		}
	}
}

func (that *Engine) notify(event Event) {
	// an observer may unsubscribe while being notified
	for _, sub := range that.observers {
		sub.observer.Notify(event)
	}
}
