package prompt

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/m4dpr0f/cjsr-sub004/internal/dependencies/mocks"
	"github.com/m4dpr0f/cjsr-sub004/internal/model"
	"github.com/m4dpr0f/cjsr-sub004/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.random)
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestPickWithoutLoading() {
	_, err := s.service.Pick()
	s.ErrorIs(err, model.ErrNoPrompts)
}

func (s *ServiceSuite) TestLoadPromptsEmpty() {
	s.ErrorIs(s.service.LoadPrompts(nil), model.ErrNoPrompts)
}

func (s *ServiceSuite) TestPickUsesRandomIndex() {
	s.Require().NoError(s.service.LoadPrompts([]string{"alpha", "beta", "gamma"}))
	s.random.QueueIntn(2)

	prompt, err := s.service.Pick()
	s.Require().NoError(err)
	s.Equal("gamma", prompt.Text)
}

func (s *ServiceSuite) TestLoadFromStorage() {
	s.Require().NoError(s.storage.SavePrompts(s.ctx, []string{"stored prompt"}))

	s.Require().NoError(s.service.LoadFromStorage(s.ctx))
	s.Equal(1, s.service.Count())

	prompt, err := s.service.Pick()
	s.Require().NoError(err)
	s.Equal("stored prompt", prompt.Text)
}

func (s *ServiceSuite) TestLoadFromStorageEmpty() {
	s.ErrorIs(s.service.LoadFromStorage(s.ctx), model.ErrNoPrompts)
}

func (s *ServiceSuite) TestLoadFromFilePersistsToStorage() {
	dir := s.T().TempDir()
	path := dir + "/prompts.txt"
	content := "first line prompt\n\n  second line prompt  \n"
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))

	s.Require().NoError(s.service.LoadFromFile(s.ctx, path))
	s.Equal(2, s.service.Count())

	stored, err := s.storage.GetPrompts(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"first line prompt", "second line prompt"}, stored)
}
