// Package race owns the lifecycle of one room: roster, prompt, countdown,
// live progress and final results.
//
// The Race type is the deterministic state machine; every mutating method
// takes the current time and returns the events it emitted. The Session
// type wraps a Race in a single goroutine with a mailbox, which is the only
// concurrency mechanism rooms need: all mutation of a room is serialized
// through its session worker.
package race

import (
	"time"

	"github.com/m4dpr0f/cjsr-sub004/internal/model"
)

// PromptPicker selects the text a room will type. It is called exactly
// once per race, at the moment the countdown begins.
type PromptPicker func() (model.Prompt, error)

// Race is the state machine for one room. Not safe for concurrent use;
// the Session actor serializes all access.
type Race struct {
	roomID model.RoomID
	config model.RaceConfig
	state  model.RaceState

	pickPrompt PromptPicker

	// roster in insertion order; the only meaningful order
	roster []*model.Player

	prompt             model.Prompt
	countdownRemaining int
	startedAt          time.Time // zero until Active
	results            []model.RaceResult
	npcSeq             int
}

// New creates a Race in the Open state
func New(roomID model.RoomID, config model.RaceConfig, pickPrompt PromptPicker) *Race {
	return &Race{
		roomID:     roomID,
		config:     config,
		state:      model.RaceStateOpen,
		pickPrompt: pickPrompt,
	}
}

// State returns the current race state
func (r *Race) State() model.RaceState {
	return r.state
}

// Prompt returns the frozen prompt; zero before the countdown begins
func (r *Race) Prompt() model.Prompt {
	return r.prompt
}

// StartedAt returns the official race start instant; zero until Active
func (r *Race) StartedAt() time.Time {
	return r.startedAt
}

// Results returns the final standings accumulated so far
func (r *Race) Results() []model.RaceResult {
	out := make([]model.RaceResult, len(r.results))
	copy(out, r.results)
	return out
}

// Roster returns a snapshot of the roster in insertion order
func (r *Race) Roster() []model.Player {
	out := make([]model.Player, len(r.roster))
	for i, p := range r.roster {
		out[i] = *p
	}
	return out
}

// HumanCount returns the number of non-NPC roster entries
func (r *Race) HumanCount() int {
	n := 0
	for _, p := range r.roster {
		if !p.IsNPC {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the roster holds no players at all
func (r *Race) IsEmpty() bool {
	return len(r.roster) == 0
}

// NextNPCSeq returns a per-room counter for NPC display names
func (r *Race) NextNPCSeq() int {
	r.npcSeq++
	return r.npcSeq
}

func (r *Race) find(playerID model.PlayerID) *model.Player {
	for _, p := range r.roster {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// requireOpen distinguishes a room that has merely locked its roster from
// one whose race is already over
func (r *Race) requireOpen() error {
	switch r.state {
	case model.RaceStateOpen:
		return nil
	case model.RaceStateFinished:
		return model.ErrRaceFinished
	default:
		return model.ErrInvalidTransition
	}
}

// Join appends a player to the roster in waiting status.
// Rejected with ErrRoomFull at capacity and ErrInvalidTransition once the
// roster has been locked by a countdown.
func (r *Race) Join(player model.Player, now time.Time) ([]model.Event, error) {
	if err := r.requireOpen(); err != nil {
		return nil, err
	}
	if len(r.roster) >= r.config.Capacity {
		return nil, model.ErrRoomFull
	}
	if r.find(player.ID) != nil {
		return nil, model.ErrAlreadyJoined
	}

	player.Status = model.StatusWaiting
	if player.IsNPC {
		// NPCs never need to ready up
		player.Status = model.StatusReady
	}
	player.Progress = 0
	player.JoinedAt = now
	r.roster = append(r.roster, &player)

	events := []model.Event{r.playerListEvent(now)}

	// Reaching capacity locks the roster and starts the countdown,
	// provided the roster is startable at all
	if len(r.roster) == r.config.Capacity && r.HumanCount() > 0 {
		countdownEvents, err := r.beginCountdown(now)
		if err != nil {
			return events, err
		}
		events = append(events, countdownEvents...)
	}

	return events, nil
}

// Ready marks a player as ready. Outside the Open state this is an
// invalid transition; callers ignore it rather than failing the room.
func (r *Race) Ready(playerID model.PlayerID, now time.Time) ([]model.Event, error) {
	if err := r.requireOpen(); err != nil {
		return nil, err
	}
	player := r.find(playerID)
	if player == nil {
		return nil, model.ErrNotInRoom
	}

	player.Status = model.StatusReady
	events := []model.Event{r.playerListEvent(now)}

	if r.canAutoStart() {
		countdownEvents, err := r.beginCountdown(now)
		if err != nil {
			return events, err
		}
		events = append(events, countdownEvents...)
	}

	return events, nil
}

// ForceStart begins the countdown immediately, overriding the usual
// roster-size requirement. The requesting player must be in the room and
// at least one human must be present.
func (r *Race) ForceStart(playerID model.PlayerID, now time.Time) ([]model.Event, error) {
	if err := r.requireOpen(); err != nil {
		return nil, err
	}
	if r.find(playerID) == nil {
		return nil, model.ErrNotInRoom
	}
	if r.HumanCount() == 0 {
		return nil, model.ErrNeedMorePlayers
	}
	return r.beginCountdown(now)
}

// canAutoStart reports whether the session should advance to Countdown on
// its own: all humans ready, at least two racers, at least one human
func (r *Race) canAutoStart() bool {
	if !r.config.AutoStart {
		return false
	}
	if len(r.roster) < 2 || r.HumanCount() == 0 {
		return false
	}
	for _, p := range r.roster {
		if !p.IsNPC && p.Status != model.StatusReady {
			return false
		}
	}
	return true
}

// beginCountdown freezes the prompt and locks the roster.
// Open -> Countdown.
func (r *Race) beginCountdown(now time.Time) ([]model.Event, error) {
	prompt, err := r.pickPrompt()
	if err != nil {
		return nil, err
	}

	r.prompt = prompt
	r.state = model.RaceStateCountdown
	r.countdownRemaining = r.config.CountdownTicks

	return []model.Event{
		r.playerListEvent(now),
		r.event(model.EventCountdown, model.CountdownPayload{TicksRemaining: r.countdownRemaining}, now),
	}, nil
}

// Tick advances the room's timers by one interval. In Countdown it counts
// down toward the start; in Active it enforces the session-wide ceiling.
// Any other state is a no-op.
func (r *Race) Tick(now time.Time) []model.Event {
	switch r.state {
	case model.RaceStateCountdown:
		r.countdownRemaining--
		if r.countdownRemaining > 0 {
			return []model.Event{
				r.event(model.EventCountdown, model.CountdownPayload{TicksRemaining: r.countdownRemaining}, now),
			}
		}
		return r.start(now)

	case model.RaceStateActive:
		if now.Sub(r.startedAt) >= r.config.TimeLimit {
			return r.finish(now)
		}
	}
	return nil
}

// start records the official race start timestamp, which is the zero
// point for every participant's elapsed-time calculation.
// Countdown -> Active.
func (r *Race) start(now time.Time) []model.Event {
	r.state = model.RaceStateActive
	r.startedAt = now
	for _, p := range r.roster {
		p.Status = model.StatusTyping
	}

	return []model.Event{
		r.event(model.EventRaceStart, model.RaceStartPayload{
			Prompt:    r.prompt.Text,
			StartedAt: now,
		}, now),
	}
}

// ApplyProgress updates one racer's live progress. Progress is clamped so
// it never moves backward; a racer reaching 100 is appended to the results
// in arrival order, which determines finishing position.
func (r *Race) ApplyProgress(update model.PlayerProgressPayload, now time.Time) ([]model.Event, error) {
	if r.state == model.RaceStateFinished {
		return nil, model.ErrRaceFinished
	}
	if r.state != model.RaceStateActive {
		return nil, model.ErrInvalidTransition
	}
	player := r.find(update.PlayerID)
	if player == nil {
		return nil, model.ErrNotInRoom
	}
	if player.Status == model.StatusFinished {
		// Late updates after crossing the line are dropped
		return nil, nil
	}

	progress := update.Progress
	if progress > 100 {
		progress = 100
	}
	if progress < player.Progress {
		// Silently clamp: progress is monotonically non-decreasing
		progress = player.Progress
	}

	player.Progress = progress
	player.WPM = update.WPM
	player.Accuracy = update.Accuracy
	player.Status = model.StatusTyping

	events := []model.Event{
		r.event(model.EventPlayerProgress, model.PlayerProgressPayload{
			PlayerID: player.ID,
			Progress: progress,
			WPM:      player.WPM,
			Accuracy: player.Accuracy,
		}, now),
	}

	if progress >= 100 {
		events = append(events, r.finishPlayer(player, now)...)
	}

	return events, nil
}

// finishPlayer records a completed run and closes the race once every
// remaining racer has crossed the line
func (r *Race) finishPlayer(player *model.Player, now time.Time) []model.Event {
	player.Status = model.StatusFinished
	position := len(r.results) + 1

	r.results = append(r.results, model.RaceResult{
		PlayerID:    player.ID,
		DisplayName: player.DisplayName,
		Position:    position,
		WPM:         player.WPM,
		Accuracy:    player.Accuracy,
		IsNPC:       player.IsNPC,
		XPHint:      xpHintForPosition(position),
		FinishedAt:  now,
	})

	events := []model.Event{
		r.event(model.EventPlayerFinished, model.PlayerFinishedPayload{
			PlayerID: player.ID,
			Position: position,
		}, now),
	}

	if r.allFinished() {
		events = append(events, r.finish(now)...)
	}
	return events
}

func (r *Race) allFinished() bool {
	for _, p := range r.roster {
		if p.Status != model.StatusFinished {
			return false
		}
	}
	return true
}

// Leave removes a player at any point. If the departure drops the real
// player count to zero in a non-terminal state, the session is abandoned:
// terminal with an empty result set.
func (r *Race) Leave(playerID model.PlayerID, now time.Time) ([]model.Event, error) {
	player := r.find(playerID)
	if player == nil {
		return nil, model.ErrNotInRoom
	}

	for i, p := range r.roster {
		if p.ID == playerID {
			r.roster = append(r.roster[:i], r.roster[i+1:]...)
			break
		}
	}

	if r.state == model.RaceStateFinished {
		return []model.Event{r.playerListEvent(now)}, nil
	}

	events := []model.Event{r.playerListEvent(now)}

	if r.HumanCount() == 0 {
		events = append(events, r.abandon(now)...)
		return events, nil
	}

	if r.state == model.RaceStateActive && r.allFinished() {
		events = append(events, r.finish(now)...)
	}

	return events, nil
}

// finish closes the race with whatever results exist.
// Exactly one race_end is emitted per session, and it is always the last
// event the state machine produces.
func (r *Race) finish(now time.Time) []model.Event {
	r.state = model.RaceStateFinished

	var winnerID model.PlayerID
	if len(r.results) > 0 {
		winnerID = r.results[0].PlayerID
	}

	return []model.Event{
		r.event(model.EventRaceEnd, model.RaceEndPayload{
			Results:  r.Results(),
			WinnerID: winnerID,
		}, now),
	}
}

// abandon finalizes a session whose real players all left. The result set
// is emptied: an abandoned race is indistinguishable from one nobody ran.
func (r *Race) abandon(now time.Time) []model.Event {
	r.results = nil
	return r.finish(now)
}

// Snapshot returns the current-state event sent to late subscribers
func (r *Race) Snapshot(now time.Time) model.Event {
	return r.playerListEvent(now)
}

func (r *Race) playerListEvent(now time.Time) model.Event {
	return r.event(model.EventPlayerList, model.PlayerListPayload{
		State:   r.state,
		Players: r.Roster(),
	}, now)
}

func (r *Race) event(eventType model.EventType, payload any, now time.Time) model.Event {
	return model.Event{
		Type:      eventType,
		Timestamp: now,
		RoomID:    r.roomID,
		Payload:   payload,
	}
}

// xpHintForPosition returns the informational reward hint attached to a
// result. Applying rewards is an external collaborator's concern.
func xpHintForPosition(position int) int {
	switch position {
	case 1:
		return 50
	case 2:
		return 30
	case 3:
		return 20
	default:
		return 10
	}
}
