// Package lobby maps room IDs to live race sessions
package lobby

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/m4dpr0f/cjsr-sub004/internal/model"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/race"
)

// MaxRoomIDLength bounds client-supplied room identifiers
const MaxRoomIDLength = 64

// SessionFactory builds a session for a new room. onEmpty is the hook the
// session uses to tell the registry it can be disposed.
type SessionFactory func(roomID model.RoomID, onEmpty func(model.RoomID)) *race.Session

// Registry is the directory of live rooms. Rooms are created on first
// reference and removed once their session reports itself empty.
type Registry struct {
	mu         sync.RWMutex
	sessions   map[model.RoomID]*race.Session
	newSession SessionFactory
	logger     *slog.Logger

	// onRemove is invoked after a room is dropped, outside the lock
	onRemove func(model.RoomID)
}

// New creates a Registry
func New(newSession SessionFactory, logger *slog.Logger) *Registry {
	return &Registry{
		sessions:   make(map[model.RoomID]*race.Session),
		newSession: newSession,
		logger:     logger.With(slog.String("component", "lobby")),
	}
}

// SetOnRemove installs a hook called whenever a room is removed
func (r *Registry) SetOnRemove(fn func(model.RoomID)) {
	r.onRemove = fn
}

// NormalizeRoomID canonicalizes a client-supplied room identifier
func NormalizeRoomID(raw string) (model.RoomID, error) {
	id := strings.ToLower(strings.TrimSpace(raw))
	if id == "" || len(id) > MaxRoomIDLength {
		return "", model.ErrRoomNotFound
	}
	return model.RoomID(id), nil
}

// GetOrCreate returns the room's session, creating and starting it on
// first reference
func (r *Registry) GetOrCreate(roomID model.RoomID) (*race.Session, error) {
	if roomID == "" {
		return nil, model.ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.sessions[roomID]; ok {
		return session, nil
	}

	session := r.newSession(roomID, r.Remove)
	r.sessions[roomID] = session
	go session.Run()

	r.logger.Info("room created", slog.String("room", string(roomID)))
	return session, nil
}

// Get returns an existing room's session
func (r *Registry) Get(roomID model.RoomID) (*race.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[roomID]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return session, nil
}

// Exists reports whether a room is live
func (r *Registry) Exists(roomID model.RoomID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.sessions[roomID]
	return ok
}

// Rooms lists the IDs of all live rooms
func (r *Registry) Rooms() []model.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]model.RoomID, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Remove drops a room and stops its session. Safe to call for rooms that
// are already gone.
func (r *Registry) Remove(roomID model.RoomID) {
	r.mu.Lock()
	session, ok := r.sessions[roomID]
	if ok {
		delete(r.sessions, roomID)
	}
	r.mu.Unlock()

	if !ok {
		return
	}

	session.Close()
	r.logger.Info("room removed", slog.String("room", string(roomID)))

	if r.onRemove != nil {
		r.onRemove(roomID)
	}
}

// CloseAll stops every live session, for server shutdown
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := make([]*race.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	r.sessions = make(map[model.RoomID]*race.Session)
	r.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}
