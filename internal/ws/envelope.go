// Package ws is the realtime surface: every subscriber of a room holds a
// websocket over which JSON envelopes flow in both directions.
package ws

import (
	"encoding/json"

	"github.com/m4dpr0f/cjsr-sub004/internal/model"
)

// Message is the wire envelope for both directions. The payload stays raw
// until the type is known.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound message types
const (
	TypeJoinRace       = "join_race"
	TypePlayerReady    = "player_ready"
	TypeUpdateProgress = "update_progress"
	// Some clients report progress under the broadcast name
	TypeProgressAlias  = "player_progress"
	TypeFinishRace     = "finish_race"
	TypeAddNPC         = "add_npc"
	TypeLeaveRace      = "leave_race"
	TypeCommand        = "command"
)

// JoinRacePayload identifies the joining racer. An empty player ID asks
// the server to mint a guest identity.
type JoinRacePayload struct {
	PlayerID    string `json:"player_id,omitempty"`
	DisplayName string `json:"display_name"`
	ChickenType string `json:"chicken_type,omitempty"`
	JockeyType  string `json:"jockey_type,omitempty"`
}

// UpdateProgressPayload carries a racer's self-reported live stats
type UpdateProgressPayload struct {
	Progress int `json:"progress"`
	WPM      int `json:"wpm"`
	Accuracy int `json:"accuracy"`
}

// FinishRacePayload carries the final stats of a completed run
type FinishRacePayload struct {
	WPM      int `json:"wpm"`
	Accuracy int `json:"accuracy"`
}

// AddNPCPayload selects the difficulty tier of a summoned opponent
type AddNPCPayload struct {
	Difficulty string `json:"difficulty"`
}

// CommandPayload carries a free-text line for the command interpreter
type CommandPayload struct {
	Text string `json:"text"`
}

// EncodeEvent wraps a session event in the wire envelope
func EncodeEvent(event model.Event) ([]byte, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{
		Type:    string(event.Type),
		Payload: payload,
	})
}

// EncodeError wraps an error payload in the wire envelope
func EncodeError(code, message string) ([]byte, error) {
	payload, err := json.Marshal(model.ErrorPayload{Code: code, Message: message})
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{
		Type:    string(model.EventError),
		Payload: payload,
	})
}
