package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/m4dpr0f/cjsr-sub004/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestGetPromptsEmpty() {
	_, err := s.storage.GetPrompts(s.ctx)
	s.ErrorIs(err, model.ErrNoPrompts)
}

func (s *StorageSuite) TestSaveAndGetPrompts() {
	prompts := []string{"the quick brown fox", "pack my box with five dozen jugs"}
	s.Require().NoError(s.storage.SavePrompts(s.ctx, prompts))

	got, err := s.storage.GetPrompts(s.ctx)
	s.Require().NoError(err)
	s.Equal(prompts, got)
}

func (s *StorageSuite) TestSavePromptsReplaces() {
	s.Require().NoError(s.storage.SavePrompts(s.ctx, []string{"first"}))
	s.Require().NoError(s.storage.SavePrompts(s.ctx, []string{"second", "third"}))

	got, err := s.storage.GetPrompts(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"second", "third"}, got)
}

func (s *StorageSuite) TestGetPromptsReturnsCopy() {
	s.Require().NoError(s.storage.SavePrompts(s.ctx, []string{"original"}))

	got, _ := s.storage.GetPrompts(s.ctx)
	got[0] = "mutated"

	again, _ := s.storage.GetPrompts(s.ctx)
	s.Equal("original", again[0])
}

func (s *StorageSuite) TestSummariesEmptyRoom() {
	got, err := s.storage.GetRaceSummaries(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *StorageSuite) TestSaveAndGetSummaries() {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	summary := &model.RaceSummary{
		RoomID:   "room-1",
		WinnerID: "p1",
		Results: []model.RaceResult{
			{PlayerID: "p1", Position: 1, WPM: 72, Accuracy: 98},
		},
		PromptLength: 120,
		StartedAt:    now.Add(-time.Minute),
		CompletedAt:  now,
	}
	s.Require().NoError(s.storage.SaveRaceSummary(s.ctx, summary))

	got, err := s.storage.GetRaceSummaries(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(model.PlayerID("p1"), got[0].WinnerID)
}

func (s *StorageSuite) TestSummariesAppendPerRoom() {
	s.Require().NoError(s.storage.SaveRaceSummary(s.ctx, &model.RaceSummary{RoomID: "room-1"}))
	s.Require().NoError(s.storage.SaveRaceSummary(s.ctx, &model.RaceSummary{RoomID: "room-1"}))
	s.Require().NoError(s.storage.SaveRaceSummary(s.ctx, &model.RaceSummary{RoomID: "room-2"}))

	room1, _ := s.storage.GetRaceSummaries(s.ctx, "room-1")
	room2, _ := s.storage.GetRaceSummaries(s.ctx, "room-2")
	s.Len(room1, 2)
	s.Len(room2, 1)
}
