package response

import (
	"time"

	"github.com/m4dpr0f/cjsr-sub004/internal/model"
)

// Player represents a racer in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ChickenType string `json:"chicken_type,omitempty"`
	JockeyType  string `json:"jockey_type,omitempty"`
	IsNPC       bool   `json:"is_npc,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	WPM         int    `json:"wpm"`
	Accuracy    int    `json:"accuracy"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		ChickenType: p.ChickenType,
		JockeyType:  p.JockeyType,
		IsNPC:       p.IsNPC,
		Difficulty:  string(p.Difficulty),
		Status:      string(p.Status),
		Progress:    p.Progress,
		WPM:         p.WPM,
		Accuracy:    p.Accuracy,
	}
}

// Room represents one live room's state
type Room struct {
	ID      string   `json:"id"`
	State   string   `json:"state"`
	Players []Player `json:"players"`
}

// RoomFromModel builds a Room response from a session snapshot
func RoomFromModel(roomID model.RoomID, state model.RaceState, roster []model.Player) Room {
	players := make([]Player, len(roster))
	for i, p := range roster {
		players[i] = PlayerFromModel(p)
	}
	return Room{
		ID:      string(roomID),
		State:   string(state),
		Players: players,
	}
}

// RoomList lists the live rooms
type RoomList struct {
	Rooms []string `json:"rooms"`
}

// RaceResult represents one finisher in a completed race
type RaceResult struct {
	PlayerID    string    `json:"player_id"`
	DisplayName string    `json:"display_name"`
	Position    int       `json:"position"`
	WPM         int       `json:"wpm"`
	Accuracy    int       `json:"accuracy"`
	IsNPC       bool      `json:"is_npc,omitempty"`
	XPHint      int       `json:"xp_hint"`
	FinishedAt  time.Time `json:"finished_at"`
}

// RaceResultFromModel converts model.RaceResult
func RaceResultFromModel(r model.RaceResult) RaceResult {
	return RaceResult{
		PlayerID:    string(r.PlayerID),
		DisplayName: r.DisplayName,
		Position:    r.Position,
		WPM:         r.WPM,
		Accuracy:    r.Accuracy,
		IsNPC:       r.IsNPC,
		XPHint:      r.XPHint,
		FinishedAt:  r.FinishedAt,
	}
}

// RaceSummary represents a completed race
type RaceSummary struct {
	RoomID       string       `json:"room_id"`
	Results      []RaceResult `json:"results"`
	WinnerID     string       `json:"winner_id,omitempty"`
	PromptLength int          `json:"prompt_length"`
	StartedAt    time.Time    `json:"started_at"`
	CompletedAt  time.Time    `json:"completed_at"`
}

// RaceSummaryFromModel converts model.RaceSummary
func RaceSummaryFromModel(s model.RaceSummary) RaceSummary {
	results := make([]RaceResult, len(s.Results))
	for i, r := range s.Results {
		results[i] = RaceResultFromModel(r)
	}
	return RaceSummary{
		RoomID:       string(s.RoomID),
		Results:      results,
		WinnerID:     string(s.WinnerID),
		PromptLength: s.PromptLength,
		StartedAt:    s.StartedAt,
		CompletedAt:  s.CompletedAt,
	}
}

// RaceHistory lists a room's completed races
type RaceHistory struct {
	RoomID    string        `json:"room_id"`
	Summaries []RaceSummary `json:"summaries"`
}

// PromptsLoaded reports the size of the prompt pool after a reload
type PromptsLoaded struct {
	Count int `json:"count"`
}
