package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/m4dpr0f/cjsr-sub004/internal/api/apierr"
	"github.com/m4dpr0f/cjsr-sub004/internal/dependencies/clock"
	"github.com/m4dpr0f/cjsr-sub004/internal/dependencies/random"
	"github.com/m4dpr0f/cjsr-sub004/internal/model"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/lobby"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/npc"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/race"
	"github.com/m4dpr0f/cjsr-sub004/internal/storage/memory"
	"github.com/m4dpr0f/cjsr-sub004/internal/testutil"
)

type HandlerSuite struct {
	suite.Suite
	server   *httptest.Server
	registry *lobby.Registry
	hubs     *HubManager
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := testutil.NopLogger()
	store := memory.New()
	s.hubs = NewHubManager(logger)

	cfg := model.DefaultRaceConfig()
	cfg.TickInterval = 10 * time.Millisecond

	factory := func(roomID model.RoomID, onEmpty func(model.RoomID)) *race.Session {
		return race.NewSession(
			roomID,
			cfg,
			func() (model.Prompt, error) { return model.Prompt{Text: "short race text"}, nil },
			s.hubs.GetOrCreateHub(roomID),
			npc.New(random.New(), logger),
			store,
			clock.New(),
			logger,
			onEmpty,
		)
	}

	s.registry = lobby.New(factory, logger)
	s.registry.SetOnRemove(s.hubs.RemoveHub)

	router := mux.NewRouter()
	router.Handle("/ws/{room_id}", NewHandler(s.registry, s.hubs, logger))
	s.server = httptest.NewServer(router)

	s.T().Cleanup(func() {
		s.registry.CloseAll()
		s.hubs.CloseAll()
		s.server.Close()
	})
}

func (s *HandlerSuite) dial(roomID string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws/" + roomID
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	if resp != nil {
		defer resp.Body.Close()
	}
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

func (s *HandlerSuite) send(conn *websocket.Conn, msgType string, payload any) {
	data, err := json.Marshal(payload)
	s.Require().NoError(err)
	s.Require().NoError(conn.WriteJSON(Message{Type: msgType, Payload: data}))
}

// readUntil skips broadcasts until a frame of the wanted type arrives
func (s *HandlerSuite) readUntil(conn *websocket.Conn, msgType string) Message {
	deadline := time.Now().Add(5 * time.Second)
	s.Require().NoError(conn.SetReadDeadline(deadline))
	for {
		var msg Message
		s.Require().NoError(conn.ReadJSON(&msg))
		if msg.Type == msgType {
			return msg
		}
	}
}

func (s *HandlerSuite) TestConnectReceivesSnapshot() {
	conn := s.dial("arena")

	msg := s.readUntil(conn, string(model.EventPlayerList))

	var payload model.PlayerListPayload
	s.Require().NoError(json.Unmarshal(msg.Payload, &payload))
	s.Equal(model.RaceStateOpen, payload.State)
	s.Empty(payload.Players)
}

func (s *HandlerSuite) TestJoinBroadcastsRoster() {
	conn := s.dial("arena")
	s.readUntil(conn, string(model.EventPlayerList))

	s.send(conn, TypeJoinRace, JoinRacePayload{DisplayName: "Death"})

	msg := s.readUntil(conn, string(model.EventPlayerList))
	var payload model.PlayerListPayload
	s.Require().NoError(json.Unmarshal(msg.Payload, &payload))
	s.Require().Len(payload.Players, 1)
	s.Equal("Death", payload.Players[0].DisplayName)
	s.Equal(DefaultChickenType, payload.Players[0].ChickenType)
	s.True(strings.HasPrefix(string(payload.Players[0].ID), "guest-"))
}

func (s *HandlerSuite) TestFullRaceOverWire() {
	first := s.dial("arena")
	second := s.dial("arena")

	s.send(first, TypeJoinRace, JoinRacePayload{PlayerID: "p1", DisplayName: "Auto"})
	s.send(second, TypeJoinRace, JoinRacePayload{PlayerID: "p2", DisplayName: "Matikah"})

	s.send(first, TypePlayerReady, struct{}{})
	s.send(second, TypePlayerReady, struct{}{})

	start := s.readUntil(first, string(model.EventRaceStart))
	var startPayload model.RaceStartPayload
	s.Require().NoError(json.Unmarshal(start.Payload, &startPayload))
	s.Equal("short race text", startPayload.Prompt)

	s.send(first, TypeUpdateProgress, UpdateProgressPayload{Progress: 100, WPM: 75, Accuracy: 98})
	s.send(second, TypeFinishRace, FinishRacePayload{WPM: 61, Accuracy: 93})

	end := s.readUntil(second, string(model.EventRaceEnd))
	var endPayload model.RaceEndPayload
	s.Require().NoError(json.Unmarshal(end.Payload, &endPayload))
	s.Equal(model.PlayerID("p1"), endPayload.WinnerID)
	s.Len(endPayload.Results, 2)
}

func (s *HandlerSuite) TestCommandBeforeJoinRejected() {
	conn := s.dial("arena")
	s.readUntil(conn, string(model.EventPlayerList))

	s.send(conn, TypePlayerReady, struct{}{})

	msg := s.readUntil(conn, string(model.EventError))
	var payload model.ErrorPayload
	s.Require().NoError(json.Unmarshal(msg.Payload, &payload))
	s.Equal(apierr.CodeNotInRoom, payload.Code)
}

func (s *HandlerSuite) TestUnknownMessageTypeRejected() {
	conn := s.dial("arena")
	s.readUntil(conn, string(model.EventPlayerList))

	s.send(conn, "teleport", struct{}{})

	msg := s.readUntil(conn, string(model.EventError))
	var payload model.ErrorPayload
	s.Require().NoError(json.Unmarshal(msg.Payload, &payload))
	s.Equal(apierr.CodeInvalidRequest, payload.Code)
}

func (s *HandlerSuite) TestSummonNPCViaCommand() {
	conn := s.dial("arena")
	s.readUntil(conn, string(model.EventPlayerList))

	s.send(conn, TypeJoinRace, JoinRacePayload{PlayerID: "p1", DisplayName: "Solo"})
	s.readUntil(conn, string(model.EventPlayerList))

	s.send(conn, TypeCommand, CommandPayload{Text: "/summon npc_easy"})

	msg := s.readUntil(conn, string(model.EventPlayerList))
	var payload model.PlayerListPayload
	s.Require().NoError(json.Unmarshal(msg.Payload, &payload))
	s.Require().Len(payload.Players, 2)
	s.True(payload.Players[1].IsNPC)
}

func (s *HandlerSuite) TestMalformedFrameDoesNotEvictPlayer() {
	conn := s.dial("arena")
	s.readUntil(conn, string(model.EventPlayerList))

	s.send(conn, TypeJoinRace, JoinRacePayload{PlayerID: "p1", DisplayName: "Sturdy"})
	s.readUntil(conn, string(model.EventPlayerList))

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte("{this is not json")))

	msg := s.readUntil(conn, string(model.EventError))
	var errPayload model.ErrorPayload
	s.Require().NoError(json.Unmarshal(msg.Payload, &errPayload))
	s.Equal(apierr.CodeInvalidRequest, errPayload.Code)

	// The connection survives and the player is still in the room
	s.send(conn, TypeCommand, CommandPayload{Text: "/summon npc_easy"})
	for {
		payload := s.readRoster(conn)
		if len(payload.Players) == 2 {
			s.Equal(model.PlayerID("p1"), payload.Players[0].ID)
			return
		}
	}
}

func (s *HandlerSuite) TestDisconnectCountsAsLeave() {
	first := s.dial("arena")
	second := s.dial("arena")

	s.send(first, TypeJoinRace, JoinRacePayload{PlayerID: "p1", DisplayName: "Ghost"})
	s.send(second, TypeJoinRace, JoinRacePayload{PlayerID: "p2", DisplayName: "Stays"})

	// Wait until the observer has seen both racers
	deadline := time.Now().Add(5 * time.Second)
	s.Require().NoError(second.SetReadDeadline(deadline))
	for {
		payload := s.readRoster(second)
		if len(payload.Players) == 2 {
			break
		}
	}

	s.Require().NoError(first.Close())

	// The departure is broadcast to remaining subscribers
	for {
		payload := s.readRoster(second)
		if len(payload.Players) == 1 {
			s.Equal(model.PlayerID("p2"), payload.Players[0].ID)
			return
		}
	}
}

// readRoster reads frames until the next player_list and decodes it
func (s *HandlerSuite) readRoster(conn *websocket.Conn) model.PlayerListPayload {
	msg := s.readUntil(conn, string(model.EventPlayerList))
	var payload model.PlayerListPayload
	s.Require().NoError(json.Unmarshal(msg.Payload, &payload))
	return payload
}
