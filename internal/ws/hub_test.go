package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/m4dpr0f/cjsr-sub004/internal/model"
	"github.com/m4dpr0f/cjsr-sub004/internal/testutil"
)

type HubSuite struct {
	suite.Suite
	hub *Hub
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.hub = NewHub("room-1", testutil.NopLogger())
	go s.hub.Run()
	s.T().Cleanup(s.hub.Close)
}

// addClient registers a pumpless client and waits for the hub to see it
func (s *HubSuite) addClient() *Client {
	client := NewClient(s.hub, nil, testutil.NopLogger())
	before := s.hub.ClientCount()
	s.hub.Register(client)
	s.Eventually(func() bool {
		return s.hub.ClientCount() == before+1
	}, time.Second, 5*time.Millisecond)
	return client
}

func (s *HubSuite) receive(client *Client) []byte {
	select {
	case data := <-client.send:
		return data
	case <-time.After(time.Second):
		s.Require().FailNow("no message arrived")
		return nil
	}
}

func (s *HubSuite) TestPublishReachesAllClients() {
	first := s.addClient()
	second := s.addClient()

	s.hub.Publish(model.Event{
		Type:   model.EventCountdown,
		RoomID: "room-1",
		Payload: model.CountdownPayload{
			TicksRemaining: 2,
		},
	})

	for _, client := range []*Client{first, second} {
		var msg Message
		s.Require().NoError(json.Unmarshal(s.receive(client), &msg))
		s.Equal(string(model.EventCountdown), msg.Type)

		var payload model.CountdownPayload
		s.Require().NoError(json.Unmarshal(msg.Payload, &payload))
		s.Equal(2, payload.TicksRemaining)
	}
}

func (s *HubSuite) TestUnregisterClosesSendChannel() {
	client := s.addClient()
	s.hub.Unregister(client)

	s.Eventually(func() bool {
		return s.hub.ClientCount() == 0
	}, time.Second, 5*time.Millisecond)

	_, open := <-client.send
	s.False(open)
}

func (s *HubSuite) TestCloseDisconnectsEverything() {
	client := s.addClient()
	s.hub.Close()

	s.Eventually(func() bool {
		select {
		case _, open := <-client.send:
			return !open
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func (s *HubSuite) TestSendAfterCloseDoesNotPanic() {
	client := s.addClient()
	s.hub.Close()

	s.Eventually(func() bool {
		return s.hub.ClientCount() == 0
	}, time.Second, 5*time.Millisecond)

	s.NotPanics(func() {
		s.False(client.Send([]byte(`{"type":"late"}`)))
	})
}

func (s *HubSuite) TestCloseFlushesQueuedBroadcasts() {
	client := s.addClient()

	s.hub.Publish(model.Event{Type: model.EventRaceEnd, RoomID: "room-1"})
	s.hub.Close()

	var msg Message
	s.Require().NoError(json.Unmarshal(s.receive(client), &msg))
	s.Equal(string(model.EventRaceEnd), msg.Type)

	select {
	case _, open := <-client.send:
		s.False(open)
	case <-time.After(time.Second):
		s.Require().FailNow("send channel never closed")
	}
}

func (s *HubSuite) TestSlowClientDoesNotBlockBroadcast() {
	client := s.addClient()

	// Fill the client buffer past capacity; extra frames are dropped
	for i := 0; i < sendBufferSize+16; i++ {
		s.hub.Publish(model.Event{Type: model.EventPlayerProgress})
	}

	s.Eventually(func() bool {
		return len(client.send) == sendBufferSize
	}, time.Second, 5*time.Millisecond)
}

type HubManagerSuite struct {
	suite.Suite
	manager *HubManager
}

func TestHubManagerSuite(t *testing.T) {
	suite.Run(t, new(HubManagerSuite))
}

func (s *HubManagerSuite) SetupTest() {
	s.manager = NewHubManager(testutil.NopLogger())
	s.T().Cleanup(s.manager.CloseAll)
}

func (s *HubManagerSuite) TestGetOrCreateHubIsIdempotent() {
	first := s.manager.GetOrCreateHub("room-1")
	second := s.manager.GetOrCreateHub("room-1")
	s.Same(first, second)
}

func (s *HubManagerSuite) TestGetHubMissing() {
	s.Nil(s.manager.GetHub("nowhere"))
}

func (s *HubManagerSuite) TestRemoveHub() {
	s.manager.GetOrCreateHub("room-1")
	s.manager.RemoveHub("room-1")
	s.Nil(s.manager.GetHub("room-1"))
}
