package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
	ErrRoomClosed   = errors.New("room session has shut down")

	// Roster errors
	ErrAlreadyJoined = errors.New("player is already in the room")
	ErrNotInRoom     = errors.New("player is not in the room")

	// Race errors
	ErrInvalidTransition = errors.New("operation not valid in current race state")
	ErrRaceFinished      = errors.New("race has already finished")
	ErrNeedMorePlayers   = errors.New("not enough players to start")

	// Command errors
	ErrUnrecognizedCommand = errors.New("unrecognized command")

	// NPC errors
	ErrUnknownDifficulty = errors.New("unknown npc difficulty")

	// Prompt errors
	ErrNoPrompts = errors.New("no prompts loaded")
)
