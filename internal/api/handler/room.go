package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m4dpr0f/cjsr-sub004/internal/api/response"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/lobby"
	"github.com/m4dpr0f/cjsr-sub004/internal/storage"
)

// RoomHandler serves the read-only room surface. All mutation happens
// over the websocket.
type RoomHandler struct {
	registry *lobby.Registry
	storage  storage.Storage
}

// NewRoomHandler creates a RoomHandler
func NewRoomHandler(registry *lobby.Registry, store storage.Storage) *RoomHandler {
	return &RoomHandler{
		registry: registry,
		storage:  store,
	}
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	roomIDs := h.registry.Rooms()
	rooms := make([]string, len(roomIDs))
	for i, id := range roomIDs {
		rooms[i] = string(id)
	}
	response.JSON(w, http.StatusOK, response.RoomList{Rooms: rooms})
}

// Get handles GET /api/v1/rooms/{room_id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID, err := lobby.NormalizeRoomID(mux.Vars(r)["room_id"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("Invalid room ID"))
		return
	}

	session, err := h.registry.Get(roomID)
	if err != nil {
		WriteError(w, err)
		return
	}

	state, roster, err := session.State()
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(roomID, state, roster))
}

// Results handles GET /api/v1/rooms/{room_id}/results.
// History survives the room itself, so this does not require a live session.
func (h *RoomHandler) Results(w http.ResponseWriter, r *http.Request) {
	roomID, err := lobby.NormalizeRoomID(mux.Vars(r)["room_id"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("Invalid room ID"))
		return
	}

	summaries, err := h.storage.GetRaceSummaries(r.Context(), roomID)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.RaceSummary, len(summaries))
	for i, s := range summaries {
		out[i] = response.RaceSummaryFromModel(s)
	}
	response.JSON(w, http.StatusOK, response.RaceHistory{
		RoomID:    string(roomID),
		Summaries: out,
	})
}
