package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

// Publisher fans engine events out over Redis pub/sub so adapters in other
// processes can follow a session.
type Publisher struct {
	logger *slog.Logger
	client *redis.Client
}

func NewPublisher(logger *slog.Logger, client *redis.Client) *Publisher {
	return &Publisher{
		logger: logger.With("component", "publisher"),
		client: client,
	}
}

func channelName(sessionID string) string {
	return "session:" + sessionID + ":events"
}

// Publish - sends one event to the session channel.
func (that *Publisher) Publish(ctx context.Context, sessionID string, event tictactoe.Event) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err = that.client.Publish(ctx, channelName(sessionID), eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Subscribe - returns the events of a session until ctx is done.
func (that *Publisher) Subscribe(ctx context.Context, sessionID string) (<-chan tictactoe.Event, error) {
	log := that.logger.With("method", "Subscribe", "sessionID", sessionID)

	pubsub := that.client.Subscribe(ctx, channelName(sessionID))

	// wait for the subscription to be confirmed so no event published after return is lost
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	events := make(chan tictactoe.Event)

	go func() {
		defer close(events)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				var event tictactoe.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Error("failed to unmarshal event", "error", err)
					continue
				}

				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}

// NopPublisher drops every event and refuses subscriptions.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, tictactoe.Event) error {
	return nil
}

func (NopPublisher) Subscribe(context.Context, string) (<-chan tictactoe.Event, error) {
	return nil, apperror.ErrEventsDisabled
}
