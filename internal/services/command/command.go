// Package command consolidates free-text player commands into a closed
// set of typed intents consumed by the race session.
package command

import (
	"strings"

	"github.com/m4dpr0f/cjsr-sub004/internal/model"
)

// IntentKind identifies the type of a parsed intent
type IntentKind string

const (
	IntentMarkReady    IntentKind = "mark_ready"
	IntentSummonNPC    IntentKind = "summon_npc"
	IntentForceStart   IntentKind = "force_start"
	IntentUnrecognized IntentKind = "unrecognized"
)

// Intent is the result of parsing one line of player input.
// Unrecognized input is still an Intent, never an error; the caller
// decides whether to ignore or surface it.
type Intent struct {
	Kind       IntentKind
	PlayerID   model.PlayerID
	Difficulty model.NPCDifficulty // set for IntentSummonNPC
	Text       string              // original input, set for IntentUnrecognized
}

// Parse narrows a raw line of text into a typed intent.
// Recognized forms: "/ready" (alias "ready"), "/summon npc_<difficulty>",
// and "start_race". Matching is case-insensitive on the command word.
func Parse(playerID model.PlayerID, line string) Intent {
	trimmed := strings.TrimSpace(line)
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return unrecognized(playerID, line)
	}

	switch strings.ToLower(fields[0]) {
	case "/ready", "ready":
		if len(fields) == 1 {
			return Intent{Kind: IntentMarkReady, PlayerID: playerID}
		}

	case "start_race":
		if len(fields) == 1 {
			return Intent{Kind: IntentForceStart, PlayerID: playerID}
		}

	case "/summon":
		if len(fields) == 2 {
			if difficulty, ok := parseNPCArg(fields[1]); ok {
				return Intent{
					Kind:       IntentSummonNPC,
					PlayerID:   playerID,
					Difficulty: difficulty,
				}
			}
		}
	}

	return unrecognized(playerID, line)
}

// parseNPCArg extracts the difficulty from a "npc_<difficulty>" argument
func parseNPCArg(arg string) (model.NPCDifficulty, bool) {
	rest, ok := strings.CutPrefix(strings.ToLower(arg), "npc_")
	if !ok {
		return "", false
	}
	difficulty := model.NPCDifficulty(rest)
	if !difficulty.Valid() {
		return "", false
	}
	return difficulty, true
}

func unrecognized(playerID model.PlayerID, line string) Intent {
	return Intent{Kind: IntentUnrecognized, PlayerID: playerID, Text: line}
}
