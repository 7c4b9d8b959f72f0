package apperror

import "errors"

var (
	ErrInvalidCoordinate = errors.New("invalid cell coordinate")
	ErrInvalidSnapshot   = errors.New("invalid game snapshot")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionIDRequired = errors.New("session id is required")
	ErrEventsDisabled    = errors.New("session events are disabled")
)
