package race

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/m4dpr0f/cjsr-sub004/internal/dependencies/clock"
	"github.com/m4dpr0f/cjsr-sub004/internal/dependencies/random"
	"github.com/m4dpr0f/cjsr-sub004/internal/model"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/npc"
	"github.com/m4dpr0f/cjsr-sub004/internal/storage/memory"
	"github.com/m4dpr0f/cjsr-sub004/internal/testutil"
)

// captureBroadcaster buffers published events for assertion
type captureBroadcaster struct {
	events chan model.Event
}

func newCaptureBroadcaster() *captureBroadcaster {
	return &captureBroadcaster{events: make(chan model.Event, 1024)}
}

func (b *captureBroadcaster) Publish(event model.Event) {
	b.events <- event
}

type SessionSuite struct {
	suite.Suite
	session     *Session
	broadcaster *captureBroadcaster
	storage     *memory.Storage
	emptied     chan model.RoomID
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.startSession(s.testConfig(), "a very short text")
}

func (s *SessionSuite) testConfig() model.RaceConfig {
	cfg := model.DefaultRaceConfig()
	cfg.TickInterval = 10 * time.Millisecond
	return cfg
}

func (s *SessionSuite) startSession(cfg model.RaceConfig, promptText string) {
	s.broadcaster = newCaptureBroadcaster()
	s.storage = memory.New()
	s.emptied = make(chan model.RoomID, 1)

	logger := testutil.NopLogger()
	sim := npc.New(random.New(), logger)

	s.session = NewSession(
		"room-1",
		cfg,
		func() (model.Prompt, error) { return model.Prompt{Text: promptText}, nil },
		s.broadcaster,
		sim,
		s.storage,
		clock.New(),
		logger,
		func(roomID model.RoomID) {
			select {
			case s.emptied <- roomID:
			default:
			}
		},
	)
	go s.session.Run()
	s.T().Cleanup(s.session.Close)
}

// waitFor drains the event stream until an event of the given type arrives
func (s *SessionSuite) waitFor(eventType model.EventType) model.Event {
	deadline := time.After(5 * time.Second)
	for {
		select {
		case event := <-s.broadcaster.events:
			if event.Type == eventType {
				return event
			}
		case <-deadline:
			s.Require().FailNowf("timeout", "no %s event arrived", eventType)
			return model.Event{}
		}
	}
}

func (s *SessionSuite) human(id string) model.Player {
	return model.Player{
		ID:          model.PlayerID(id),
		DisplayName: "Racer " + id,
		ChickenType: "black",
		JockeyType:  "alex",
	}
}

func (s *SessionSuite) TestTwoHumanRaceLifecycle() {
	s.Require().NoError(s.session.Join(s.human("p1")))
	s.Require().NoError(s.session.Join(s.human("p2")))
	s.Require().NoError(s.session.Ready("p1"))
	s.Require().NoError(s.session.Ready("p2"))

	start := s.waitFor(model.EventRaceStart)
	s.Equal("a very short text", start.Payload.(model.RaceStartPayload).Prompt)

	s.Require().NoError(s.session.ApplyProgress(model.PlayerProgressPayload{
		PlayerID: "p1", Progress: 100, WPM: 72, Accuracy: 98,
	}))
	finished := s.waitFor(model.EventPlayerFinished)
	s.Equal(1, finished.Payload.(model.PlayerFinishedPayload).Position)

	s.Require().NoError(s.session.Finish("p2", 60, 95))

	end := s.waitFor(model.EventRaceEnd)
	payload := end.Payload.(model.RaceEndPayload)
	s.Equal(model.PlayerID("p1"), payload.WinnerID)
	s.Require().Len(payload.Results, 2)
	s.Equal(model.PlayerID("p2"), payload.Results[1].PlayerID)

	// The terminal transition persists the summary
	s.Eventually(func() bool {
		summaries, err := s.storage.GetRaceSummaries(context.Background(), "room-1")
		return err == nil && len(summaries) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *SessionSuite) TestNPCRacesToCompletion() {
	s.startSession(s.testConfig(), "go fast")

	s.Require().NoError(s.session.Join(s.human("p1")))
	s.Require().NoError(s.session.AddNPC(model.DifficultyInsane))
	s.Require().NoError(s.session.ForceStart("p1"))

	s.waitFor(model.EventRaceStart)
	s.Require().NoError(s.session.Finish("p1", 80, 99))

	end := s.waitFor(model.EventRaceEnd)
	payload := end.Payload.(model.RaceEndPayload)
	s.Require().Len(payload.Results, 2)

	var sawNPC bool
	for _, result := range payload.Results {
		if result.IsNPC {
			sawNPC = true
			s.GreaterOrEqual(result.Accuracy, 95)
		}
	}
	s.True(sawNPC)
}

func (s *SessionSuite) TestCommandsDriveReadiness() {
	s.Require().NoError(s.session.Join(s.human("p1")))
	s.Require().NoError(s.session.Join(s.human("p2")))

	s.Require().NoError(s.session.HandleCommand("p1", "/ready"))
	s.Require().NoError(s.session.HandleCommand("p2", "ready"))

	countdown := s.waitFor(model.EventCountdown)
	s.Equal(3, countdown.Payload.(model.CountdownPayload).TicksRemaining)
}

func (s *SessionSuite) TestCommandSummonsNPC() {
	s.Require().NoError(s.session.Join(s.human("p1")))
	s.Require().NoError(s.session.HandleCommand("p1", "/summon npc_hard"))

	_, roster, err := s.session.State()
	s.Require().NoError(err)
	s.Require().Len(roster, 2)
	s.True(roster[1].IsNPC)
	s.Equal(model.DifficultyHard, roster[1].Difficulty)
}

func (s *SessionSuite) TestUnrecognizedCommandRejected() {
	s.Require().NoError(s.session.Join(s.human("p1")))
	s.ErrorIs(s.session.HandleCommand("p1", "/dance"), model.ErrUnrecognizedCommand)
}

func (s *SessionSuite) TestAddNPCUnknownDifficulty() {
	s.ErrorIs(s.session.AddNPC("impossible"), model.ErrUnknownDifficulty)
}

func (s *SessionSuite) TestClosedSessionRejectsOperations() {
	s.session.Close()
	s.ErrorIs(s.session.Join(s.human("p1")), model.ErrRoomClosed)
}

func (s *SessionSuite) TestOnEmptyFiresWhenLastPlayerLeaves() {
	s.Require().NoError(s.session.Join(s.human("p1")))
	s.Require().NoError(s.session.Leave("p1"))

	select {
	case roomID := <-s.emptied:
		s.Equal(model.RoomID("room-1"), roomID)
	case <-time.After(time.Second):
		s.FailNow("session never reported itself disposable")
	}
}

func (s *SessionSuite) TestTimeCeilingEndsStalledRace() {
	cfg := s.testConfig()
	cfg.TimeLimit = 100 * time.Millisecond
	s.startSession(cfg, "a very short text")

	s.Require().NoError(s.session.Join(s.human("p1")))
	s.Require().NoError(s.session.Join(s.human("p2")))
	s.Require().NoError(s.session.Ready("p1"))
	s.Require().NoError(s.session.Ready("p2"))

	s.waitFor(model.EventRaceStart)

	end := s.waitFor(model.EventRaceEnd)
	s.Empty(end.Payload.(model.RaceEndPayload).Results)
}

func (s *SessionSuite) TestSnapshotForLateSubscriber() {
	s.Require().NoError(s.session.Join(s.human("p1")))

	snapshot, err := s.session.Snapshot()
	s.Require().NoError(err)
	s.Equal(model.EventPlayerList, snapshot.Type)

	payload := snapshot.Payload.(model.PlayerListPayload)
	s.Equal(model.RaceStateOpen, payload.State)
	s.Require().Len(payload.Players, 1)
	s.Equal(model.PlayerID("p1"), payload.Players[0].ID)
}
