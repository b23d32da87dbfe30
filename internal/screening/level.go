package screening

import "fmt"

// Level is the severity classification of a screening score
type Level string

const (
	LevelMinimal  Level = "minimal"
	LevelMild     Level = "mild"
	LevelModerate Level = "moderate"
	LevelSevere   Level = "severe"
)

// Levels lists every severity level from least to most severe
var Levels = []Level{LevelMinimal, LevelMild, LevelModerate, LevelSevere}

// Valid reports whether l is one of the fixed levels
func (l Level) Valid() bool {
	switch l {
	case LevelMinimal, LevelMild, LevelModerate, LevelSevere:
		return true
	}
	return false
}

// Rank orders levels by severity, starting at 0 for minimal.
// Unknown levels rank -1.
func (l Level) Rank() int {
	switch l {
	case LevelMinimal:
		return 0
	case LevelMild:
		return 1
	case LevelModerate:
		return 2
	case LevelSevere:
		return 3
	default:
		return -1
	}
}

// ParseLevel converts a string into a Level
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSeverityLevel, s)
	}
	return l, nil
}
