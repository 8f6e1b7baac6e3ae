package memory

import (
	"context"
	"sync"

	"github.com/m4dpr0f/cjsr-sub004/internal/model"
	"github.com/m4dpr0f/cjsr-sub004/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	prompts   []string
	summaries map[model.RoomID][]model.RaceSummary
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		summaries: make(map[model.RoomID][]model.RaceSummary),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Prompt operations

func (s *Storage) SavePrompts(ctx context.Context, texts []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = make([]string, len(texts))
	copy(s.prompts, texts)
	return nil
}

func (s *Storage) GetPrompts(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.prompts) == 0 {
		return nil, model.ErrNoPrompts
	}
	result := make([]string, len(s.prompts))
	copy(result, s.prompts)
	return result, nil
}

// Race history operations

func (s *Storage) SaveRaceSummary(ctx context.Context, summary *model.RaceSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[summary.RoomID] = append(s.summaries[summary.RoomID], *summary)
	return nil
}

func (s *Storage) GetRaceSummaries(ctx context.Context, roomID model.RoomID) ([]model.RaceSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]model.RaceSummary, len(s.summaries[roomID]))
	copy(result, s.summaries[roomID])
	return result, nil
}
