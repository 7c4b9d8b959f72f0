package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"nhooyr.io/websocket"
)

const (
	actionNewGame = "game:new"
	actionState   = "game:state"
	actionMove    = "game:move"
	actionReset   = "game:reset"
	actionWatch   = "game:watch"
	actionEvent   = "game:event"
	actionError   = "error"

	writeTimeout = 5 * time.Second
)

// Message is the envelope of every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Request is the payload sent by clients.
type Request struct {
	SessionID string `json:"session_id,omitempty"`
	Row       *int   `json:"row,omitempty"`
	Col       *int   `json:"col,omitempty"`
}

// Response is the payload sent back to clients.
type Response struct {
	Session     *entity.Session  `json:"session,omitempty"`
	Event       *tictactoe.Event `json:"event,omitempty"`
	Result      string           `json:"result,omitempty"`
	Description string           `json:"description,omitempty"`
	Error       string           `json:"error,omitempty"`
}

func newResponse(session *entity.Session) Response {
	return Response{
		Session:     session,
		Description: session.Description(),
	}
}

func (that *Server) sendMessage(ctx context.Context, conn *websocket.Conn, action string, payload Response) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	responseJSON, err := json.Marshal(Message{Action: action, Payload: payloadJSON})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err = conn.Write(ctx, websocket.MessageText, responseJSON); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(ctx context.Context, conn *websocket.Conn, action, message string) error {
	return that.sendMessage(ctx, conn, action, Response{Error: message})
}
