package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"nhooyr.io/websocket"
)

type sessionUseCase interface {
	NewSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	ApplyMove(ctx context.Context, id string, row, col int) (*entity.Session, tictactoe.MoveResult, error)
	Reset(ctx context.Context, id string) (*entity.Session, error)
}

type eventFeed interface {
	Subscribe(ctx context.Context, sessionID string) (<-chan tictactoe.Event, error)
}

type handlerFunc func(ctx context.Context, conn *websocket.Conn, req *Request) (Response, error)

// Server is the WebSocket adapter in front of the session manager.
type Server struct {
	logger   *slog.Logger
	sessions sessionUseCase
	feed     eventFeed

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, sessions sessionUseCase, feed eventFeed) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,
		feed:     feed,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionNewGame] = server.handleNewGame
	server.handlers[actionState] = server.handleState
	server.handlers[actionMove] = server.handleMove
	server.handlers[actionReset] = server.handleReset
	server.handlers[actionWatch] = server.handleWatch

	return server
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", that)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeHTTP - upgrades the connection and serves messages until the client leaves.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := websocket.Accept(writer, req, nil)
	if err != nil {
		log.Error("failed to accept connection", "error", err)
		return
	}

	defer conn.CloseNow()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(req.Context(), conn); err != nil {
		log.Error("error handling messages", "error", err)
		return
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleMessages")

	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				log.Info("client closed connection")
				return nil
			default:
				return fmt.Errorf("failed to read message: %w", err)
			}
		}

		if msgType != websocket.MessageText {
			if err = that.sendErrorResponse(ctx, conn, actionError, "text messages only"); err != nil {
				return err
			}
			continue
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			if err = that.sendErrorResponse(ctx, conn, actionError, "invalid message"); err != nil {
				return err
			}
			continue
		}

		if err = that.dispatch(ctx, conn, &message); err != nil {
			return err
		}
	}
}

// dispatch - runs the handler for the action and writes its answer.
func (that *Server) dispatch(ctx context.Context, conn *websocket.Conn, message *Message) error {
	log := that.logger.With("method", "dispatch", "action", message.Action)

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action")
		return that.sendErrorResponse(ctx, conn, message.Action, "unknown action")
	}

	var req Request
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &req); err != nil {
			return that.sendErrorResponse(ctx, conn, message.Action, "invalid payload")
		}
	}

	resp, err := handler(ctx, conn, &req)
	if err != nil {
		log.Error("error processing message", "error", err)
		return that.sendErrorResponse(ctx, conn, message.Action, errorMessage(err))
	}

	return that.sendMessage(ctx, conn, message.Action, resp)
}
