package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type sessionRepo interface {
	Save(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type eventPublisher interface {
	Publish(ctx context.Context, sessionID string, event tictactoe.Event) error
}

// session pairs an engine with the lock that serializes access to it.
type session struct {
	mu      sync.Mutex
	id      string
	engine  *tictactoe.Engine
	pending []tictactoe.Event

	// evicted sessions are no longer served; callers resume from storage instead
	evicted bool
}

func newSession(id string, engine *tictactoe.Engine) *session {
	s := &session{
		id:     id,
		engine: engine,
	}

	engine.Subscribe(tictactoe.ObserverFunc(func(event tictactoe.Event) {
		s.pending = append(s.pending, event)
	}))

	return s
}

// drain returns the events emitted since the last call. Caller holds mu.
func (that *session) drain() []tictactoe.Event {
	events := that.pending
	that.pending = nil

	return events
}

func (that *session) view(now time.Time) *entity.Session {
	return &entity.Session{
		ID:        that.id,
		Snapshot:  that.engine.Snapshot(),
		UpdatedAt: now,
	}
}

// SessionManager hosts one engine per session and is safe for concurrent use.
type SessionManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	publisher   eventPublisher
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionManager(logger *slog.Logger, sessionRepo sessionRepo, publisher eventPublisher) *SessionManager {
	return &SessionManager{
		logger: logger.With("component", "session_manager"),

		sessionRepo: sessionRepo,
		publisher:   publisher,
		now:         time.Now,

		sessions: make(map[string]*session),
	}
}

func (that *SessionManager) NewSession(ctx context.Context) (*entity.Session, error) {
	id := uuid.NewString()
	log := that.logger.With("method", "NewSession", "sessionID", id)

	s := newSession(id, tictactoe.NewEngine())

	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.view(that.now())
	if err := that.save(ctx, view); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.mu.Lock()
	that.sessions[id] = s
	that.mu.Unlock()

	log.Info("session created")

	return view, nil
}

// ApplyMove - plays the current turn of the session at (row, col).
// Rejected moves return the unchanged session and a nil error.
func (that *SessionManager) ApplyMove(ctx context.Context, id string, row, col int) (*entity.Session, tictactoe.MoveResult, error) {
	log := that.logger.With("method", "ApplyMove", "sessionID", id)

	s, err := that.lockSession(ctx, id)
	if err != nil {
		return nil, tictactoe.MoveRejectedInvalid, err
	}
	defer s.mu.Unlock()

	result, err := s.engine.ApplyMove(row, col)
	if err != nil {
		return nil, result, fmt.Errorf("failed to apply move: %w", err)
	}

	view := s.view(that.now())
	if result != tictactoe.MoveAccepted {
		log.Debug("move rejected", "row", row, "col", col, "result", result.String())
		return view, result, nil
	}

	events := s.drain()
	for _, event := range events {
		if event.Type == tictactoe.EventGameOver {
			view.GameOver = true
		}
	}

	if err = that.save(ctx, view); err != nil {
		that.evict(s)
		log.Warn("session evicted after failed save", "error", err)

		return nil, result, fmt.Errorf("failed to update session: %w", err)
	}

	that.publish(ctx, id, events)

	if view.GameOver {
		log.Info("game over", "status", view.Snapshot.Status)
	}

	return view, result, nil
}

func (that *SessionManager) Reset(ctx context.Context, id string) (*entity.Session, error) {
	log := that.logger.With("method", "Reset", "sessionID", id)

	s, err := that.lockSession(ctx, id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	s.engine.Reset()

	view := s.view(that.now())
	events := s.drain()

	if err = that.save(ctx, view); err != nil {
		that.evict(s)
		log.Warn("session evicted after failed save", "error", err)

		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	that.publish(ctx, id, events)

	log.Info("session reset")

	return view, nil
}

func (that *SessionManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	s, err := that.lockSession(ctx, id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	return s.view(that.now()), nil
}

func (that *SessionManager) CloseSession(ctx context.Context, id string) error {
	log := that.logger.With("method", "CloseSession", "sessionID", id)

	if id == "" {
		return apperror.ErrSessionIDRequired
	}

	that.mu.Lock()
	s, inMemory := that.sessions[id]
	that.mu.Unlock()

	if inMemory {
		s.mu.Lock()
		that.evict(s)
		s.mu.Unlock()
	}

	err := that.sessionRepo.DeleteByID(ctx, id)
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound) && inMemory:
		// the snapshot already expired
	case err != nil:
		return fmt.Errorf("failed to delete session: %w", err)
	}

	log.Info("session closed")

	return nil
}

// lockSession - returns the live session with its lock held.
func (that *SessionManager) lockSession(ctx context.Context, id string) (*session, error) {
	for {
		s, err := that.getSession(ctx, id)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if !s.evicted {
			return s, nil
		}
		s.mu.Unlock()
	}
}

// evict - drops the session from memory and discards its unpublished events.
// Caller holds s.mu.
func (that *SessionManager) evict(s *session) {
	s.evicted = true
	s.drain()

	that.mu.Lock()
	if that.sessions[s.id] == s {
		delete(that.sessions, s.id)
	}
	that.mu.Unlock()
}

// getSession - returns the live session, resuming it from storage if needed.
func (that *SessionManager) getSession(ctx context.Context, id string) (*session, error) {
	if id == "" {
		return nil, apperror.ErrSessionIDRequired
	}

	that.mu.Lock()
	s, ok := that.sessions[id]
	that.mu.Unlock()

	if ok {
		return s, nil
	}

	stored, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	engine, err := tictactoe.Restore(stored.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	// another request may have resumed it in the meantime
	if existing, ok := that.sessions[id]; ok {
		return existing, nil
	}

	s = newSession(id, engine)
	that.sessions[id] = s

	that.logger.Info("session resumed", "sessionID", id)

	return s, nil
}

func (that *SessionManager) save(ctx context.Context, view *entity.Session) error {
	stored := *view
	stored.GameOver = false

	if err := that.sessionRepo.Save(ctx, &stored); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// publish - events are best effort, the stored snapshot stays the source of truth.
func (that *SessionManager) publish(ctx context.Context, id string, events []tictactoe.Event) {
	log := that.logger.With("method", "publish", "sessionID", id)

	for _, event := range events {
		if err := that.publisher.Publish(ctx, id, event); err != nil {
			log.Error("failed to publish event", "event", event.Type, "error", err)
		}
	}
}
