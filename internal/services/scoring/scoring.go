// Package scoring converts raw typing counts into race metrics.
//
// Every function is pure so the session state machine and the NPC
// simulator share identical math, and so the formulas can be tested
// without any session plumbing.
package scoring

import (
	"math"
	"time"
)

// CharsPerWord is the standard word length used for WPM calculations
const CharsPerWord = 5

// ComputeWPM converts a typed character count and elapsed time into
// words-per-minute. Zero or negative elapsed time yields 0.
func ComputeWPM(charsTyped int, elapsed time.Duration) int {
	if elapsed <= 0 || charsTyped <= 0 {
		return 0
	}
	words := float64(charsTyped) / CharsPerWord
	minutes := elapsed.Minutes()
	return int(math.Round(words / minutes))
}

// ComputeAccuracy returns the percentage of keystrokes that were correct,
// clamped to [0, 100]. Zero keystrokes yields 100.
func ComputeAccuracy(errorCount, totalKeystrokes int) int {
	if totalKeystrokes <= 0 {
		return 100
	}
	pct := float64(totalKeystrokes-errorCount) / float64(totalKeystrokes) * 100
	rounded := int(math.Round(pct))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

// ComputeProgress returns how far through the prompt a racer is, capped at
// 100. A zero-length prompt is degenerate and counts as complete.
func ComputeProgress(typedLength, promptLength int) int {
	if promptLength <= 0 {
		return 100
	}
	if typedLength <= 0 {
		return 0
	}
	pct := int(math.Round(float64(typedLength) / float64(promptLength) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}
