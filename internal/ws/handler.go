package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/m4dpr0f/cjsr-sub004/internal/api/apierr"
	"github.com/m4dpr0f/cjsr-sub004/internal/model"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/lobby"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/race"
)

// Guest appearance defaults for joiners that don't pick a mount
const (
	DefaultChickenType = "white"
	DefaultJockeyType  = "steve"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Clients connect from arbitrary origins, same as the REST surface
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades race connections and routes their messages
type Handler struct {
	registry *lobby.Registry
	hubs     *HubManager
	logger   *slog.Logger
}

// NewHandler creates a websocket Handler
func NewHandler(registry *lobby.Registry, hubs *HubManager, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		hubs:     hubs,
		logger:   logger.With(slog.String("component", "ws-handler")),
	}
}

// ServeHTTP handles GET /ws/{room_id}
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomID, err := lobby.NormalizeRoomID(mux.Vars(r)["room_id"])
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid room ID"))
		return
	}

	session, err := h.registry.GetOrCreate(roomID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	hub := h.hubs.GetOrCreateHub(roomID)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", slog.Any("error", err))
		return
	}

	logger := h.logger.With(slog.String("room", string(roomID)))
	client := NewClient(hub, conn, logger)
	hub.Register(client)

	go client.writePump()

	// New subscribers immediately see the room as it stands
	h.sendSnapshot(session, client)

	client.readPump(func(c *Client, msg Message) {
		h.dispatch(session, c, msg)
	})

	// A dropped connection counts as leaving the race
	if playerID := client.PlayerID(); playerID != "" {
		_ = session.Leave(playerID)
	}
}

func (h *Handler) sendSnapshot(session *race.Session, client *Client) {
	snapshot, err := session.Snapshot()
	if err != nil {
		h.report(client, err)
		return
	}
	data, err := EncodeEvent(snapshot)
	if err != nil {
		h.logger.Error("ws snapshot encoding failed", slog.Any("error", err))
		return
	}
	client.Send(data)
}

// dispatch applies one inbound message to the room's session
func (h *Handler) dispatch(session *race.Session, client *Client, msg Message) {
	switch msg.Type {
	case TypeJoinRace:
		h.handleJoin(session, client, msg.Payload)

	case TypePlayerReady:
		playerID, ok := h.requireJoined(client)
		if !ok {
			return
		}
		h.report(client, session.Ready(playerID))

	case TypeUpdateProgress, TypeProgressAlias:
		playerID, ok := h.requireJoined(client)
		if !ok {
			return
		}
		var payload UpdateProgressPayload
		if !h.decode(client, msg.Payload, &payload) {
			return
		}
		h.report(client, session.ApplyProgress(model.PlayerProgressPayload{
			PlayerID: playerID,
			Progress: payload.Progress,
			WPM:      payload.WPM,
			Accuracy: payload.Accuracy,
		}))

	case TypeFinishRace:
		playerID, ok := h.requireJoined(client)
		if !ok {
			return
		}
		var payload FinishRacePayload
		if !h.decode(client, msg.Payload, &payload) {
			return
		}
		h.report(client, session.Finish(playerID, payload.WPM, payload.Accuracy))

	case TypeAddNPC:
		if _, ok := h.requireJoined(client); !ok {
			return
		}
		var payload AddNPCPayload
		if !h.decode(client, msg.Payload, &payload) {
			return
		}
		h.report(client, session.AddNPC(model.NPCDifficulty(payload.Difficulty)))

	case TypeLeaveRace:
		playerID, ok := h.requireJoined(client)
		if !ok {
			return
		}
		h.report(client, session.Leave(playerID))
		client.setPlayerID("")

	case TypeCommand:
		playerID, ok := h.requireJoined(client)
		if !ok {
			return
		}
		var payload CommandPayload
		if !h.decode(client, msg.Payload, &payload) {
			return
		}
		h.report(client, session.HandleCommand(playerID, payload.Text))

	default:
		client.sendError(apierr.CodeInvalidRequest, "Unknown message type: "+msg.Type)
	}
}

func (h *Handler) handleJoin(session *race.Session, client *Client, raw json.RawMessage) {
	var payload JoinRacePayload
	if !h.decode(client, raw, &payload) {
		return
	}

	player := model.Player{
		ID:          model.PlayerID(payload.PlayerID),
		DisplayName: payload.DisplayName,
		ChickenType: payload.ChickenType,
		JockeyType:  payload.JockeyType,
	}
	if player.ID == "" {
		// Mint a guest identity for anonymous joiners
		player.ID = model.PlayerID("guest-" + uuid.NewString())
	}
	if player.DisplayName == "" {
		player.DisplayName = "Guest " + string(player.ID[len(player.ID)-4:])
	}
	if player.ChickenType == "" {
		player.ChickenType = DefaultChickenType
	}
	if player.JockeyType == "" {
		player.JockeyType = DefaultJockeyType
	}

	if err := session.Join(player); err != nil {
		h.report(client, err)
		return
	}
	client.setPlayerID(player.ID)
}

// requireJoined rejects racer messages from clients that never joined
func (h *Handler) requireJoined(client *Client) (model.PlayerID, bool) {
	playerID := client.PlayerID()
	if playerID == "" {
		client.sendError(apierr.CodeNotInRoom, "Join the race first")
		return "", false
	}
	return playerID, true
}

// decode unmarshals a payload, reporting malformed input to the client.
// A missing payload decodes as the zero value.
func (h *Handler) decode(client *Client, raw json.RawMessage, into any) bool {
	if len(raw) == 0 {
		return true
	}
	if err := json.Unmarshal(raw, into); err != nil {
		client.sendError(apierr.CodeInvalidRequest, "Malformed payload")
		return false
	}
	return true
}

// report relays an operation error back to the offending client.
// Successful operations are announced by the session's own broadcasts.
func (h *Handler) report(client *Client, err error) {
	if err == nil {
		return
	}
	apiError := apierr.Describe(err)
	client.sendError(apiError.Code, apiError.Message)
}
