package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type moveRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type sessionResponse struct {
	Session     *entity.Session `json:"session"`
	Result      string          `json:"result,omitempty"`
	Description string          `json:"description"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write ping response", "error", err)
	}
}

func (that *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.NewSession(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, sessionResponse{Session: session, Description: session.Description()})
}

func (that *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, sessionResponse{Session: session, Description: session.Description()})
}

func (that *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Row == nil || req.Col == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "row and col are required"})
		return
	}

	session, result, err := that.sessions.ApplyMove(r.Context(), r.PathValue("id"), *req.Row, *req.Col)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, sessionResponse{
		Session:     session,
		Result:      result.String(),
		Description: session.Description(),
	})
}

func (that *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.Reset(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, sessionResponse{Session: session, Description: session.Description()})
}

func (that *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := that.sessions.CloseSession(r.Context(), r.PathValue("id")); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError - maps errors to status codes.
func (that *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperror.ErrInvalidCoordinate):
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: apperror.ErrInvalidCoordinate.Error()})
	case errors.Is(err, apperror.ErrSessionIDRequired):
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: apperror.ErrSessionIDRequired.Error()})
	case errors.Is(err, apperror.ErrSessionNotFound), errors.Is(err, apperror.ErrInvalidSnapshot):
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrSessionNotFound.Error()})
	default:
		that.logger.Error("request failed", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
