package usecase

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/stretchr/testify/mock"
)

type mockSessionRepo struct {
	mock.Mock
}

func (that *mockSessionRepo) Save(ctx context.Context, session *entity.Session) error {
	args := that.Called(ctx, session)
	return args.Error(0)
}

func (that *mockSessionRepo) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	args := that.Called(ctx, id)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (that *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (that *mockPublisher) Publish(ctx context.Context, sessionID string, event tictactoe.Event) error {
	args := that.Called(ctx, sessionID, event)
	return args.Error(0)
}

// events returns the types of every published event in order.
func (that *mockPublisher) events() []tictactoe.EventType {
	var types []tictactoe.EventType
	for _, call := range that.Calls {
		if call.Method == "Publish" {
			types = append(types, call.Arguments.Get(2).(tictactoe.Event).Type)
		}
	}

	return types
}
