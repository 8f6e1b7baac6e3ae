package model

import "time"

// RoomID identifies an isolated race instance
type RoomID string

// RaceState represents the phase of a room's race session.
// Transitions only move forward; Finished is terminal.
type RaceState string

const (
	RaceStateOpen      RaceState = "open"      // Accepting joins
	RaceStateCountdown RaceState = "countdown" // Roster locked, timer running
	RaceStateActive    RaceState = "active"    // Typing in progress
	RaceStateFinished  RaceState = "finished"  // Terminal
)

// RaceConfig holds per-room tunables
type RaceConfig struct {
	// Capacity is the maximum roster size
	Capacity int
	// CountdownTicks is the number of 1s ticks before the race starts
	CountdownTicks int
	// TickInterval drives countdown and NPC progress ticks
	TickInterval time.Duration
	// TimeLimit is the ceiling on race duration once Active
	TimeLimit time.Duration
	// AutoStart begins the countdown once all humans are ready
	// (roster >= 2 with at least one human); ForceStart always works
	AutoStart bool
}

// DefaultRaceConfig returns the standard room configuration
func DefaultRaceConfig() RaceConfig {
	return RaceConfig{
		Capacity:       8,
		CountdownTicks: 3,
		TickInterval:   time.Second,
		TimeLimit:      10 * time.Minute,
		AutoStart:      true,
	}
}
