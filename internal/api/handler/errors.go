package handler

import (
	"net/http"

	"github.com/m4dpr0f/cjsr-sub004/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest      = apierr.CodeInvalidRequest
	CodeRoomNotFound        = apierr.CodeRoomNotFound
	CodeRoomFull            = apierr.CodeRoomFull
	CodeRoomClosed          = apierr.CodeRoomClosed
	CodeAlreadyJoined       = apierr.CodeAlreadyJoined
	CodeNotInRoom           = apierr.CodeNotInRoom
	CodeInvalidTransition   = apierr.CodeInvalidTransition
	CodeRaceFinished        = apierr.CodeRaceFinished
	CodeInsufficientPlayers = apierr.CodeInsufficientPlayers
	CodeUnrecognizedCommand = apierr.CodeUnrecognizedCommand
	CodeUnknownDifficulty   = apierr.CodeUnknownDifficulty
	CodeNoPrompts           = apierr.CodeNoPrompts
	CodeInternalError       = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
