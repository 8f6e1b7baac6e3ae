// Package npc generates synthetic progress updates for computer-controlled
// racers. Updates are funneled through the same intake path as real
// players, so the session cannot tell NPC traffic from human traffic.
package npc

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/m4dpr0f/cjsr-sub004/internal/dependencies/random"
	"github.com/m4dpr0f/cjsr-sub004/internal/model"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/scoring"
)

const (
	// IDAlphabet is the character set for generated NPC player IDs
	IDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// IDLength is the length of generated NPC player IDs
	IDLength = 16
	// VarianceBand is the per-tick pace jitter around the target WPM
	VarianceBand = 0.20
)

// runner tracks one NPC's pacing state across a race.
// Typed characters are kept fractional so slow tiers still advance.
type runner struct {
	playerID   model.PlayerID
	difficulty model.NPCDifficulty
	accuracy   int
	chars      float64
	done       bool
}

// Simulator drives NPC racers for a single session
type Simulator struct {
	random  random.Random
	logger  *slog.Logger
	runners []*runner
}

// New creates a Simulator
func New(rnd random.Random, logger *slog.Logger) *Simulator {
	return &Simulator{
		random: rnd,
		logger: logger.With(slog.String("component", "npc-simulator")),
	}
}

// NewRacer creates an NPC player record for the given difficulty tier.
// seq is a per-room counter used only for the display name.
func (s *Simulator) NewRacer(difficulty model.NPCDifficulty, seq int, now time.Time) (*model.Player, error) {
	if !difficulty.Valid() {
		return nil, model.ErrUnknownDifficulty
	}

	return &model.Player{
		ID:          model.PlayerID("npc-" + s.random.String(IDLength, IDAlphabet)),
		DisplayName: fmt.Sprintf("NPC %d (%s)", seq, difficulty),
		IsNPC:       true,
		Difficulty:  difficulty,
		Status:      model.StatusReady,
		JoinedAt:    now,
	}, nil
}

// Track registers an NPC for the run that is about to start.
// NPC accuracy is fixed per racer in the 95-100 range; bots do not
// accumulate errors as they go.
func (s *Simulator) Track(p model.Player) {
	if !p.IsNPC {
		return
	}
	s.runners = append(s.runners, &runner{
		playerID:   p.ID,
		difficulty: p.Difficulty,
		accuracy:   95 + s.random.Intn(6),
	})
	s.logger.Debug("npc tracked",
		slog.String("player_id", string(p.ID)),
		slog.String("difficulty", string(p.Difficulty)),
	)
}

// Untrack stops driving the given NPC (finished or removed)
func (s *Simulator) Untrack(playerID model.PlayerID) {
	for _, r := range s.runners {
		if r.playerID == playerID {
			r.done = true
		}
	}
}

// Reset drops all tracked NPCs
func (s *Simulator) Reset() {
	s.runners = nil
}

// Tick advances every tracked NPC by one tick interval and returns the
// progress updates to feed through the session's normal intake path.
// elapsed is the time since the official race start.
func (s *Simulator) Tick(tick time.Duration, promptLength int, elapsed time.Duration) []model.PlayerProgressPayload {
	var updates []model.PlayerProgressPayload

	for _, r := range s.runners {
		if r.done {
			continue
		}

		// Jittered pace for this tick: target +/- VarianceBand
		jitter := (s.random.Float64()*2 - 1) * VarianceBand
		wpm := float64(r.difficulty.TargetWPM()) * (1 + jitter)

		r.chars += wpm / 60 * scoring.CharsPerWord * tick.Seconds()
		typed := int(math.Round(r.chars))
		progress := scoring.ComputeProgress(typed, promptLength)
		if progress >= 100 {
			progress = 100
			r.done = true
		}

		updates = append(updates, model.PlayerProgressPayload{
			PlayerID: r.playerID,
			Progress: progress,
			WPM:      scoring.ComputeWPM(typed, elapsed),
			Accuracy: r.accuracy,
		})
	}

	return updates
}
