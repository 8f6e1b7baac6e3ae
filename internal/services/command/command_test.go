package command

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/m4dpr0f/cjsr-sub004/internal/model"
)

type CommandSuite struct {
	suite.Suite
}

func TestCommandSuite(t *testing.T) {
	suite.Run(t, new(CommandSuite))
}

func (s *CommandSuite) TestReadySlash() {
	intent := Parse("p1", "/ready")
	s.Equal(IntentMarkReady, intent.Kind)
	s.Equal(model.PlayerID("p1"), intent.PlayerID)
}

func (s *CommandSuite) TestReadyBareAlias() {
	intent := Parse("p1", "ready")
	s.Equal(IntentMarkReady, intent.Kind)
}

func (s *CommandSuite) TestReadyCaseInsensitive() {
	s.Equal(IntentMarkReady, Parse("p1", "/Ready").Kind)
	s.Equal(IntentMarkReady, Parse("p1", "READY").Kind)
}

func (s *CommandSuite) TestReadyWithWhitespace() {
	s.Equal(IntentMarkReady, Parse("p1", "  /ready  ").Kind)
}

func (s *CommandSuite) TestStartRace() {
	intent := Parse("p1", "start_race")
	s.Equal(IntentForceStart, intent.Kind)
}

func (s *CommandSuite) TestSummonNPC() {
	intent := Parse("p1", "/summon npc_easy")
	s.Equal(IntentSummonNPC, intent.Kind)
	s.Equal(model.DifficultyEasy, intent.Difficulty)
}

func (s *CommandSuite) TestSummonAllDifficulties() {
	for _, d := range model.ValidDifficulties() {
		intent := Parse("p1", "/summon npc_"+string(d))
		s.Equal(IntentSummonNPC, intent.Kind)
		s.Equal(d, intent.Difficulty)
	}
}

func (s *CommandSuite) TestSummonUnknownDifficulty() {
	intent := Parse("p1", "/summon npc_nightmare")
	s.Equal(IntentUnrecognized, intent.Kind)
	s.Equal("/summon npc_nightmare", intent.Text)
}

func (s *CommandSuite) TestSummonMissingArg() {
	s.Equal(IntentUnrecognized, Parse("p1", "/summon").Kind)
}

func (s *CommandSuite) TestSummonWrongPrefix() {
	s.Equal(IntentUnrecognized, Parse("p1", "/summon bot_easy").Kind)
}

func (s *CommandSuite) TestUnrecognizedChatter() {
	intent := Parse("p1", "good luck everyone!")
	s.Equal(IntentUnrecognized, intent.Kind)
	s.Equal("good luck everyone!", intent.Text)
}

func (s *CommandSuite) TestEmptyLine() {
	s.Equal(IntentUnrecognized, Parse("p1", "").Kind)
	s.Equal(IntentUnrecognized, Parse("p1", "   ").Kind)
}

func (s *CommandSuite) TestReadyWithTrailingArgsRejected() {
	s.Equal(IntentUnrecognized, Parse("p1", "/ready now").Kind)
	s.Equal(IntentUnrecognized, Parse("p1", "start_race please").Kind)
}
