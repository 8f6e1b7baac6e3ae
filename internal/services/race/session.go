package race

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/m4dpr0f/cjsr-sub004/internal/dependencies/clock"
	"github.com/m4dpr0f/cjsr-sub004/internal/model"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/command"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/npc"
	"github.com/m4dpr0f/cjsr-sub004/internal/storage"
)

// Broadcaster fans a session event out to every subscriber of the room
type Broadcaster interface {
	Publish(event model.Event)
}

// saveTimeout bounds the summary write when a race completes
const saveTimeout = 5 * time.Second

// Session is the single worker owning one room's Race. Every inbound
// message is applied one-at-a-time in arrival order by the Run loop, so
// the state machine itself needs no locking.
type Session struct {
	roomID  model.RoomID
	race    *Race
	config  model.RaceConfig
	casters Broadcaster
	sim     *npc.Simulator
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	inbox chan func()
	done  chan struct{}
	once  sync.Once

	// onEmpty tells the registry this session can be disposed.
	// Invoked at most once, from the session worker.
	onEmpty func(model.RoomID)

	summarySaved bool
	emptied      bool
}

// NewSession creates a session for a room. Run must be started on its own
// goroutine before any operation is posted.
func NewSession(
	roomID model.RoomID,
	config model.RaceConfig,
	pickPrompt PromptPicker,
	broadcaster Broadcaster,
	sim *npc.Simulator,
	store storage.Storage,
	clk clock.Clock,
	logger *slog.Logger,
	onEmpty func(model.RoomID),
) *Session {
	return &Session{
		roomID:  roomID,
		race:    New(roomID, config, pickPrompt),
		config:  config,
		casters: broadcaster,
		sim:     sim,
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("room", string(roomID))),
		inbox:   make(chan func(), 64),
		done:    make(chan struct{}),
		onEmpty: onEmpty,
	}
}

// Run is the session's event loop: inbox messages and timer ticks,
// strictly serialized
func (s *Session) Run() {
	s.logger.Info("session started")

	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case fn := <-s.inbox:
			fn()
		case <-ticker.C:
			s.handleTick()
		case <-s.done:
			s.logger.Info("session stopped")
			return
		}
	}
}

// Close shuts the session down. Pending and future operations fail with
// ErrRoomClosed.
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}

// post schedules fn on the session worker
func (s *Session) post(fn func()) error {
	select {
	case s.inbox <- fn:
		return nil
	case <-s.done:
		return model.ErrRoomClosed
	}
}

// call runs fn on the session worker and waits for its result
func (s *Session) call(fn func() error) error {
	reply := make(chan error, 1)
	if err := s.post(func() { reply <- fn() }); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-s.done:
		// The operation itself may have closed the session, e.g. the
		// last player leaving; its reply is still in flight
		select {
		case err := <-reply:
			return err
		case <-time.After(100 * time.Millisecond):
			return model.ErrRoomClosed
		}
	}
}

// Join adds a player to the roster. Fails with ErrRoomFull at capacity or
// ErrInvalidTransition once the race has been locked.
func (s *Session) Join(player model.Player) error {
	return s.call(func() error {
		events, err := s.race.Join(player, s.clock.Now())
		s.publish(events)
		s.afterApply()
		return err
	})
}

// Ready marks a player ready and may auto-advance to the countdown
func (s *Session) Ready(playerID model.PlayerID) error {
	return s.call(func() error {
		events, err := s.race.Ready(playerID, s.clock.Now())
		s.publish(events)
		s.afterApply()
		return err
	})
}

// ForceStart begins the countdown regardless of roster size
func (s *Session) ForceStart(playerID model.PlayerID) error {
	return s.call(func() error {
		events, err := s.race.ForceStart(playerID, s.clock.Now())
		s.publish(events)
		s.afterApply()
		return err
	})
}

// AddNPC summons a computer-controlled racer into the room
func (s *Session) AddNPC(difficulty model.NPCDifficulty) error {
	return s.call(func() error {
		return s.applyAddNPC(difficulty)
	})
}

func (s *Session) applyAddNPC(difficulty model.NPCDifficulty) error {
	now := s.clock.Now()
	racer, err := s.sim.NewRacer(difficulty, s.race.NextNPCSeq(), now)
	if err != nil {
		return err
	}

	events, err := s.race.Join(*racer, now)
	s.publish(events)
	s.afterApply()
	if err != nil {
		return err
	}

	s.logger.Info("npc summoned",
		slog.String("npc_id", string(racer.ID)),
		slog.String("difficulty", string(difficulty)),
	)
	return nil
}

// ApplyProgress feeds one progress update through the intake path.
// NPC updates arrive here too, via the session's own tick handling.
func (s *Session) ApplyProgress(update model.PlayerProgressPayload) error {
	return s.call(func() error {
		events, err := s.race.ApplyProgress(update, s.clock.Now())
		s.publish(events)
		s.afterApply()
		return err
	})
}

// Finish records an explicit finish report from a client. It is the same
// intake as a 100% progress update.
func (s *Session) Finish(playerID model.PlayerID, wpm, accuracy int) error {
	return s.ApplyProgress(model.PlayerProgressPayload{
		PlayerID: playerID,
		Progress: 100,
		WPM:      wpm,
		Accuracy: accuracy,
	})
}

// Leave removes a player. Unconditionally accepted; may abandon the race.
func (s *Session) Leave(playerID model.PlayerID) error {
	return s.call(func() error {
		events, err := s.race.Leave(playerID, s.clock.Now())
		s.publish(events)
		if err == nil {
			s.sim.Untrack(playerID)
		}
		s.afterApply()
		return err
	})
}

// HandleCommand routes a free-text line through the command interpreter
func (s *Session) HandleCommand(playerID model.PlayerID, line string) error {
	return s.call(func() error {
		return s.applyCommand(playerID, line)
	})
}

func (s *Session) applyCommand(playerID model.PlayerID, line string) error {
	now := s.clock.Now()
	intent := command.Parse(playerID, line)

	switch intent.Kind {
	case command.IntentMarkReady:
		events, err := s.race.Ready(playerID, now)
		s.publish(events)
		s.afterApply()
		return err

	case command.IntentForceStart:
		events, err := s.race.ForceStart(playerID, now)
		s.publish(events)
		s.afterApply()
		return err

	case command.IntentSummonNPC:
		return s.applyAddNPC(intent.Difficulty)

	default:
		s.logger.Debug("unrecognized command",
			slog.String("player_id", string(playerID)),
			slog.String("text", intent.Text),
		)
		return model.ErrUnrecognizedCommand
	}
}

// Snapshot returns the current-state event for a fresh subscriber, so a
// mid-race joiner is never permanently behind.
func (s *Session) Snapshot() (model.Event, error) {
	var snapshot model.Event
	err := s.call(func() error {
		snapshot = s.race.Snapshot(s.clock.Now())
		return nil
	})
	return snapshot, err
}

// State returns the race state (for the REST surface)
func (s *Session) State() (model.RaceState, []model.Player, error) {
	var (
		state  model.RaceState
		roster []model.Player
	)
	err := s.call(func() error {
		state = s.race.State()
		roster = s.race.Roster()
		return nil
	})
	return state, roster, err
}

// handleTick drives timers: the countdown, NPC pacing and the
// session-wide ceiling
func (s *Session) handleTick() {
	now := s.clock.Now()

	switch s.race.State() {
	case model.RaceStateCountdown:
		s.publish(s.race.Tick(now))
		if s.race.State() == model.RaceStateActive {
			// Race just started: begin driving the NPCs
			for _, p := range s.race.Roster() {
				s.sim.Track(p)
			}
		}

	case model.RaceStateActive:
		elapsed := now.Sub(s.race.StartedAt())
		promptLength := s.race.Prompt().Length()

		for _, update := range s.sim.Tick(s.config.TickInterval, promptLength, elapsed) {
			events, err := s.race.ApplyProgress(update, now)
			if err != nil {
				break // Race ended mid-batch
			}
			s.publish(events)
		}

		if s.race.State() == model.RaceStateActive {
			s.publish(s.race.Tick(now)) // Enforce the time ceiling
		}
	}

	s.afterApply()
}

// publish fans events out in apply order
func (s *Session) publish(events []model.Event) {
	for _, event := range events {
		s.casters.Publish(event)
	}
}

// afterApply handles the consequences of a state change: persisting the
// summary on the terminal transition and reporting disposability.
// Runs on the session worker after every applied message.
func (s *Session) afterApply() {
	if s.race.State() == model.RaceStateFinished && !s.summarySaved {
		s.summarySaved = true
		s.sim.Reset()
		s.saveSummary()
	}

	disposable := s.race.IsEmpty() ||
		(s.race.State() == model.RaceStateFinished && s.race.HumanCount() == 0)
	if disposable && !s.emptied {
		s.emptied = true
		if s.onEmpty != nil {
			s.onEmpty(s.roomID)
		}
	}
}

func (s *Session) saveSummary() {
	results := s.race.Results()

	var winnerID model.PlayerID
	if len(results) > 0 {
		winnerID = results[0].PlayerID
	}

	summary := &model.RaceSummary{
		RoomID:       s.roomID,
		Results:      results,
		WinnerID:     winnerID,
		PromptLength: s.race.Prompt().Length(),
		StartedAt:    s.race.StartedAt(),
		CompletedAt:  s.clock.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := s.storage.SaveRaceSummary(ctx, summary); err != nil {
		s.logger.Error("failed to save race summary", slog.Any("error", err))
		return
	}

	s.logger.Info("race completed",
		slog.String("winner", string(winnerID)),
		slog.Int("finishers", len(results)),
	)
}
