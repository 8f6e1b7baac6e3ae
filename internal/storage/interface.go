package storage

import (
	"context"

	"github.com/m4dpr0f/cjsr-sub004/internal/model"
)

// Storage defines the interface for data persistence.
//
// Live session state never touches storage; it lives in each room's
// worker. Storage holds only the prompt pool and completed-race history.
type Storage interface {
	// Prompt operations
	SavePrompts(ctx context.Context, texts []string) error
	GetPrompts(ctx context.Context) ([]string, error)

	// Race history operations
	SaveRaceSummary(ctx context.Context, summary *model.RaceSummary) error
	GetRaceSummaries(ctx context.Context, roomID model.RoomID) ([]model.RaceSummary, error)
}
