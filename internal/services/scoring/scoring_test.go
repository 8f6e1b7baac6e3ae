package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ScoringSuite struct {
	suite.Suite
}

func TestScoringSuite(t *testing.T) {
	suite.Run(t, new(ScoringSuite))
}

// ComputeWPM tests

func (s *ScoringSuite) TestWPMOneMinute() {
	// 300 chars = 60 words in one minute
	s.Equal(60, ComputeWPM(300, time.Minute))
}

func (s *ScoringSuite) TestWPMHalfMinute() {
	// 100 chars = 20 words in 30s = 40 WPM
	s.Equal(40, ComputeWPM(100, 30*time.Second))
}

func (s *ScoringSuite) TestWPMRounds() {
	// 7 chars = 1.4 words in 60s -> rounds to 1
	s.Equal(1, ComputeWPM(7, time.Minute))
	// 8 chars = 1.6 words -> rounds to 2
	s.Equal(2, ComputeWPM(8, time.Minute))
}

func (s *ScoringSuite) TestWPMZeroElapsed() {
	s.Equal(0, ComputeWPM(500, 0))
}

func (s *ScoringSuite) TestWPMNegativeElapsed() {
	s.Equal(0, ComputeWPM(500, -time.Second))
}

func (s *ScoringSuite) TestWPMZeroChars() {
	s.Equal(0, ComputeWPM(0, time.Minute))
}

func (s *ScoringSuite) TestWPMNonNegativeAndMonotonic() {
	elapsed := 45 * time.Second
	prev := -1
	for chars := 0; chars <= 1000; chars += 25 {
		wpm := ComputeWPM(chars, elapsed)
		s.GreaterOrEqual(wpm, 0)
		s.GreaterOrEqual(wpm, prev, "WPM must not decrease as chars grow")
		prev = wpm
	}
}

// ComputeAccuracy tests

func (s *ScoringSuite) TestAccuracyPerfect() {
	s.Equal(100, ComputeAccuracy(0, 50))
}

func (s *ScoringSuite) TestAccuracyAllErrors() {
	s.Equal(0, ComputeAccuracy(50, 50))
}

func (s *ScoringSuite) TestAccuracyZeroKeystrokes() {
	s.Equal(100, ComputeAccuracy(0, 0))
}

func (s *ScoringSuite) TestAccuracyRounds() {
	// 1 error in 3 keystrokes = 66.67% -> 67
	s.Equal(67, ComputeAccuracy(1, 3))
}

func (s *ScoringSuite) TestAccuracyClampsBelowZero() {
	// More errors than keystrokes (client misreport) clamps to 0
	s.Equal(0, ComputeAccuracy(80, 50))
}

// ComputeProgress tests

func (s *ScoringSuite) TestProgressHalfway() {
	s.Equal(50, ComputeProgress(50, 100))
}

func (s *ScoringSuite) TestProgressCapsAt100() {
	s.Equal(100, ComputeProgress(150, 100))
}

func (s *ScoringSuite) TestProgressZeroPrompt() {
	s.Equal(100, ComputeProgress(0, 0))
}

func (s *ScoringSuite) TestProgressZeroTyped() {
	s.Equal(0, ComputeProgress(0, 100))
}

func (s *ScoringSuite) TestProgressRounds() {
	// 1/3 of prompt = 33.33% -> 33
	s.Equal(33, ComputeProgress(1, 3))
	// 2/3 = 66.67% -> 67
	s.Equal(67, ComputeProgress(2, 3))
}
