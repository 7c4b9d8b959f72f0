package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"nhooyr.io/websocket"
)

var errMissingCoordinate = errors.New("row and col are required")

func (that *Server) handleNewGame(ctx context.Context, _ *websocket.Conn, _ *Request) (Response, error) {
	session, err := that.sessions.NewSession(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("failed to create session: %w", err)
	}

	return newResponse(session), nil
}

func (that *Server) handleState(ctx context.Context, _ *websocket.Conn, req *Request) (Response, error) {
	session, err := that.sessions.GetSession(ctx, req.SessionID)
	if err != nil {
		return Response{}, fmt.Errorf("failed to get session: %w", err)
	}

	return newResponse(session), nil
}

func (that *Server) handleMove(ctx context.Context, _ *websocket.Conn, req *Request) (Response, error) {
	if req.Row == nil || req.Col == nil {
		return Response{}, errMissingCoordinate
	}

	session, result, err := that.sessions.ApplyMove(ctx, req.SessionID, *req.Row, *req.Col)
	if err != nil {
		return Response{}, fmt.Errorf("failed to apply move: %w", err)
	}

	resp := newResponse(session)
	resp.Result = result.String()

	return resp, nil
}

func (that *Server) handleReset(ctx context.Context, _ *websocket.Conn, req *Request) (Response, error) {
	session, err := that.sessions.Reset(ctx, req.SessionID)
	if err != nil {
		return Response{}, fmt.Errorf("failed to reset session: %w", err)
	}

	return newResponse(session), nil
}

// handleWatch - answers with the current state, then streams every event of the
// session as game:event messages until the connection closes.
func (that *Server) handleWatch(ctx context.Context, conn *websocket.Conn, req *Request) (Response, error) {
	session, err := that.sessions.GetSession(ctx, req.SessionID)
	if err != nil {
		return Response{}, fmt.Errorf("failed to get session: %w", err)
	}

	events, err := that.feed.Subscribe(ctx, req.SessionID)
	if err != nil {
		return Response{}, fmt.Errorf("failed to watch session: %w", err)
	}

	go that.forwardEvents(ctx, conn, req.SessionID, events)

	return newResponse(session), nil
}

func (that *Server) forwardEvents(ctx context.Context, conn *websocket.Conn, sessionID string, events <-chan tictactoe.Event) {
	log := that.logger.With("method", "forwardEvents", "sessionID", sessionID)

	for event := range events {
		resp := Response{Event: &event, Description: event.Snapshot.Status.Description()}
		if err := that.sendMessage(ctx, conn, actionEvent, resp); err != nil {
			log.Warn("stopped forwarding events", "error", err)
			return
		}
	}
}

// errorMessage - maps errors to the text shown to clients.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, errMissingCoordinate):
		return errMissingCoordinate.Error()
	case errors.Is(err, apperror.ErrInvalidCoordinate):
		return apperror.ErrInvalidCoordinate.Error()
	case errors.Is(err, apperror.ErrSessionIDRequired):
		return apperror.ErrSessionIDRequired.Error()
	case errors.Is(err, apperror.ErrSessionNotFound), errors.Is(err, apperror.ErrInvalidSnapshot):
		return apperror.ErrSessionNotFound.Error()
	case errors.Is(err, apperror.ErrEventsDisabled):
		return apperror.ErrEventsDisabled.Error()
	default:
		return "internal error"
	}
}
