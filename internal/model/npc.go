package model

// NPCDifficulty selects the pace band for a computer-controlled racer
type NPCDifficulty string

const (
	DifficultyPeaceful NPCDifficulty = "peaceful"
	DifficultyEasy     NPCDifficulty = "easy"
	DifficultyNormal   NPCDifficulty = "normal"
	DifficultyHard     NPCDifficulty = "hard"
	DifficultyInsane   NPCDifficulty = "insane"
)

// TargetWPM returns the center of the difficulty's WPM band
func (d NPCDifficulty) TargetWPM() int {
	switch d {
	case DifficultyPeaceful:
		return 15
	case DifficultyEasy:
		return 25
	case DifficultyNormal:
		return 40
	case DifficultyHard:
		return 60
	case DifficultyInsane:
		return 85
	default:
		return 0
	}
}

// Valid reports whether the difficulty is a known tier
func (d NPCDifficulty) Valid() bool {
	return d.TargetWPM() > 0
}

// ValidDifficulties returns all known difficulty tiers
func ValidDifficulties() []NPCDifficulty {
	return []NPCDifficulty{
		DifficultyPeaceful,
		DifficultyEasy,
		DifficultyNormal,
		DifficultyHard,
		DifficultyInsane,
	}
}
