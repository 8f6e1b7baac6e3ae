package model

import "time"

// PlayerID uniquely identifies a racer for the lifetime of its connection
type PlayerID string

// PlayerStatus represents where a racer is in the race lifecycle
type PlayerStatus string

const (
	StatusWaiting  PlayerStatus = "waiting"
	StatusReady    PlayerStatus = "ready"
	StatusTyping   PlayerStatus = "typing"
	StatusFinished PlayerStatus = "finished"
)

// Player represents a race participant, human or NPC.
// It is owned exclusively by the session hosting it.
type Player struct {
	ID          PlayerID      `json:"id"`
	DisplayName string        `json:"displayName"`
	ChickenType string        `json:"chickenType"` // cosmetic label, never interpreted
	JockeyType  string        `json:"jockeyType"`  // cosmetic label, never interpreted
	IsNPC       bool          `json:"isNpc"`
	Difficulty  NPCDifficulty `json:"difficulty,omitempty"` // empty for humans
	Status      PlayerStatus  `json:"status"`
	Progress    int           `json:"progress"` // 0-100
	WPM         int           `json:"wpm"`
	Accuracy    int           `json:"accuracy"`
	JoinedAt    time.Time     `json:"joinedAt"`
}
