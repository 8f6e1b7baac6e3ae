package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Roster events
	EventPlayerList EventType = "player_list"

	// Race lifecycle events
	EventCountdown EventType = "countdown"
	EventRaceStart EventType = "race_start"
	EventRaceEnd   EventType = "race_end"

	// Progress events
	EventPlayerProgress EventType = "player_progress"
	EventPlayerFinished EventType = "player_finished"

	// Connection-local events
	EventError EventType = "error"
)

// Event is the base structure for everything a session broadcasts.
// All subscribers of a room observe events in apply order.
type Event struct {
	Type      EventType
	Timestamp time.Time
	RoomID    RoomID
	Payload   any
}

// PlayerListPayload carries the full roster snapshot
type PlayerListPayload struct {
	State   RaceState `json:"state"`
	Players []Player  `json:"players"`
}

// CountdownPayload carries one countdown tick
type CountdownPayload struct {
	TicksRemaining int `json:"ticksRemaining"`
}

// RaceStartPayload announces the frozen prompt and official start instant
type RaceStartPayload struct {
	Prompt    string    `json:"prompt"`
	StartedAt time.Time `json:"startedAt"`
}

// PlayerProgressPayload carries one racer's live progress
type PlayerProgressPayload struct {
	PlayerID PlayerID `json:"playerId"`
	Progress int      `json:"progress"`
	WPM      int      `json:"wpm"`
	Accuracy int      `json:"accuracy"`
}

// PlayerFinishedPayload announces a racer crossing the line
type PlayerFinishedPayload struct {
	PlayerID PlayerID `json:"playerId"`
	Position int      `json:"position"`
}

// RaceEndPayload carries the final standings; exactly one is emitted per
// session and it is the last event the session emits
type RaceEndPayload struct {
	Results  []RaceResult `json:"results"`
	WinnerID PlayerID     `json:"winnerId"`
}

// ErrorPayload is sent only to the originating connection
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
