// Package prompt manages the pool of texts that rooms race over.
package prompt

import (
	"bufio"
	"context"
	"os"
	"strings"
	"sync"

	"github.com/m4dpr0f/cjsr-sub004/internal/dependencies/random"
	"github.com/m4dpr0f/cjsr-sub004/internal/model"
	"github.com/m4dpr0f/cjsr-sub004/internal/storage"
)

// Service selects prompts for race sessions
type Service struct {
	storage storage.Storage
	random  random.Random

	mu      sync.RWMutex
	prompts []string
}

// New creates a new prompt Service
func New(store storage.Storage, rnd random.Random) *Service {
	return &Service{
		storage: store,
		random:  rnd,
	}
}

// LoadFromStorage loads the prompt pool from storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	prompts, err := s.storage.GetPrompts(ctx)
	if err != nil {
		return err
	}
	return s.loadPrompts(prompts)
}

// LoadFromFile loads prompts from a file (one prompt per line) and saves
// them to storage for future use
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var prompts []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			prompts = append(prompts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if err := s.storage.SavePrompts(ctx, prompts); err != nil {
		return err
	}

	return s.loadPrompts(prompts)
}

// LoadPrompts directly loads a slice of prompts (useful for testing)
func (s *Service) LoadPrompts(prompts []string) error {
	return s.loadPrompts(prompts)
}

func (s *Service) loadPrompts(prompts []string) error {
	if len(prompts) == 0 {
		return model.ErrNoPrompts
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = make([]string, len(prompts))
	copy(s.prompts, prompts)
	return nil
}

// Count returns the number of loaded prompts
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.prompts)
}

// Pick returns a random prompt from the pool
func (s *Service) Pick() (model.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.prompts) == 0 {
		return model.Prompt{}, model.ErrNoPrompts
	}

	text := s.prompts[s.random.Intn(len(s.prompts))]
	return model.Prompt{Text: text}, nil
}
