package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m4dpr0f/cjsr-sub004/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeRoomNotFound        = "ROOM_NOT_FOUND"
	CodeRoomFull            = "ROOM_FULL"
	CodeRoomClosed          = "ROOM_CLOSED"
	CodeAlreadyJoined       = "ALREADY_JOINED"
	CodeNotInRoom           = "NOT_IN_ROOM"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeRaceFinished        = "RACE_FINISHED"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeUnrecognizedCommand = "UNRECOGNIZED_COMMAND"
	CodeUnknownDifficulty   = "UNKNOWN_DIFFICULTY"
	CodeNoPrompts           = "NO_PROMPTS"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Describe maps an error to its wire code and message, for surfaces that
// are not plain HTTP responses
func Describe(err error) APIError {
	return toHTTPError(err).apiError
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrRoomClosed):
		return &httpError{http.StatusGone, APIError{CodeRoomClosed, "Room has been closed"}}
	case errors.Is(err, model.ErrAlreadyJoined):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyJoined, "Already in this room"}}
	case errors.Is(err, model.ErrNotInRoom):
		return &httpError{http.StatusNotFound, APIError{CodeNotInRoom, "Not in this room"}}
	case errors.Is(err, model.ErrInvalidTransition):
		return &httpError{http.StatusConflict, APIError{CodeInvalidTransition, "Race is not in a state that allows this"}}
	case errors.Is(err, model.ErrRaceFinished):
		return &httpError{http.StatusConflict, APIError{CodeRaceFinished, "Race has already finished"}}
	case errors.Is(err, model.ErrNeedMorePlayers):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPlayers, "Not enough players to start"}}
	case errors.Is(err, model.ErrUnrecognizedCommand):
		return &httpError{http.StatusBadRequest, APIError{CodeUnrecognizedCommand, "Unrecognized command"}}
	case errors.Is(err, model.ErrUnknownDifficulty):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownDifficulty, "Unknown NPC difficulty"}}
	case errors.Is(err, model.ErrNoPrompts):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeNoPrompts, "No prompts are loaded"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
