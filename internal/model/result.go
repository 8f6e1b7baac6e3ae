package model

import "time"

// RaceResult records one racer's final standing. Computed once when the
// racer reaches 100% progress; immutable thereafter.
type RaceResult struct {
	PlayerID    PlayerID  `json:"playerId"`
	DisplayName string    `json:"displayName"`
	Position    int       `json:"position"` // 1-based, arrival order
	WPM         int       `json:"wpm"`
	Accuracy    int       `json:"accuracy"`
	IsNPC       bool      `json:"isNpc"`
	XPHint      int       `json:"xpHint"` // informational; applied by an external collaborator
	FinishedAt  time.Time `json:"finishedAt"`
}

// RaceSummary is a lightweight record of a completed race
type RaceSummary struct {
	RoomID       RoomID       `json:"roomId"`
	Results      []RaceResult `json:"results"`
	WinnerID     PlayerID     `json:"winnerId"` // Empty for abandoned races
	PromptLength int          `json:"promptLength"`
	StartedAt    time.Time    `json:"startedAt"`
	CompletedAt  time.Time    `json:"completedAt"`
}
