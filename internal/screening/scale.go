package screening

import (
	"fmt"
	"math"
)

// ThresholdMode selects how cutoffs are interpreted
type ThresholdMode string

const (
	// ThresholdAbsolute treats cutoffs as inclusive upper score bounds
	ThresholdAbsolute ThresholdMode = "absolute"
	// ThresholdFractional treats cutoffs as fractions of the maximum score
	ThresholdFractional ThresholdMode = "fractional"
)

// Thresholds are the inclusive upper bounds of the three lower levels.
// Everything above Moderate is severe.
type Thresholds struct {
	Mode     ThresholdMode `json:"mode" yaml:"mode"`
	Minimal  float64       `json:"minimal" yaml:"minimal"`
	Mild     float64       `json:"mild" yaml:"mild"`
	Moderate float64       `json:"moderate" yaml:"moderate"`
}

// DefaultThresholds resolve to 5/10/15 on a 21 point bank
func DefaultThresholds() Thresholds {
	return Thresholds{
		Mode:     ThresholdFractional,
		Minimal:  0.25,
		Mild:     0.5,
		Moderate: 0.75,
	}
}

// resolve turns the thresholds into integer cutoffs for maxScore
func (t Thresholds) resolve(maxScore int) ([3]int, error) {
	raw := [3]float64{t.Minimal, t.Mild, t.Moderate}
	var cut [3]int

	switch t.Mode {
	case ThresholdAbsolute:
		for i, v := range raw {
			if v != math.Trunc(v) {
				return cut, fmt.Errorf("%w: absolute cutoff %v is not an integer", ErrInvalidScale, v)
			}
			cut[i] = int(v)
		}
	case ThresholdFractional, "":
		for i, v := range raw {
			if v <= 0 || v >= 1 {
				return cut, fmt.Errorf("%w: fractional cutoff %v outside (0,1)", ErrInvalidScale, v)
			}
			cut[i] = int(math.Floor(v * float64(maxScore)))
		}
	default:
		return cut, fmt.Errorf("%w: unknown threshold mode %q", ErrInvalidScale, t.Mode)
	}

	if cut[0] < 0 || cut[0] >= cut[1] || cut[1] >= cut[2] || cut[2] >= maxScore {
		return cut, fmt.Errorf("%w: cutoffs %v do not split [0,%d] into four non-empty bands", ErrInvalidScale, cut, maxScore)
	}
	return cut, nil
}

// Guidance is the content shown for a severity level
type Guidance struct {
	Title           string   `json:"title" yaml:"title"`
	Description     string   `json:"description" yaml:"description"`
	Color           string   `json:"color" yaml:"color"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}

// Band is the inclusive score range of one level
type Band struct {
	Level Level `json:"level"`
	Min   int   `json:"min"`
	Max   int   `json:"max"`
}

// Scale maps scores to levels and levels to guidance
type Scale struct {
	maxScore int
	bands    [4]Band
	guidance map[Level]Guidance
}

// NewScale resolves thresholds against maxScore and checks the guidance table
func NewScale(maxScore int, t Thresholds, guidance map[Level]Guidance) (*Scale, error) {
	if maxScore < 3 {
		return nil, fmt.Errorf("%w: max score %d too small for four levels", ErrInvalidScale, maxScore)
	}
	cut, err := t.resolve(maxScore)
	if err != nil {
		return nil, err
	}

	s := &Scale{
		maxScore: maxScore,
		guidance: make(map[Level]Guidance, len(Levels)),
	}
	lower := 0
	for i, lvl := range Levels {
		upper := maxScore
		if i < len(cut) {
			upper = cut[i]
		}
		s.bands[i] = Band{Level: lvl, Min: lower, Max: upper}
		lower = upper + 1
	}

	seen := make(map[string]Level)
	for _, lvl := range Levels {
		g, ok := guidance[lvl]
		if !ok {
			return nil, fmt.Errorf("%w: no guidance for level %s", ErrInvalidScale, lvl)
		}
		if len(g.Recommendations) == 0 {
			return nil, fmt.Errorf("%w: level %s has no recommendations", ErrInvalidScale, lvl)
		}
		key := fmt.Sprintf("%q", g.Recommendations)
		if other, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: levels %s and %s share recommendations", ErrInvalidScale, other, lvl)
		}
		seen[key] = lvl

		recs := make([]string, len(g.Recommendations))
		copy(recs, g.Recommendations)
		g.Recommendations = recs
		s.guidance[lvl] = g
	}
	for lvl := range guidance {
		if !lvl.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSeverityLevel, lvl)
		}
	}

	return s, nil
}

// MaxScore is the upper end of the scale
func (s *Scale) MaxScore() int {
	return s.maxScore
}

// Bands returns the resolved score ranges in ascending order
func (s *Scale) Bands() []Band {
	out := make([]Band, len(s.bands))
	copy(out, s.bands[:])
	return out
}

// Classify returns the level whose band contains score
func (s *Scale) Classify(score int) (Level, error) {
	if score < 0 || score > s.maxScore {
		return "", fmt.Errorf("%w: %d not in [0,%d]", ErrScoreOutOfRange, score, s.maxScore)
	}
	for _, b := range s.bands {
		if score <= b.Max {
			return b.Level, nil
		}
	}
	// unreachable: the last band ends at maxScore
	return "", fmt.Errorf("%w: %d", ErrScoreOutOfRange, score)
}

// Guidance returns the content for a level
func (s *Scale) Guidance(level Level) (Guidance, error) {
	g, ok := s.guidance[level]
	if !ok {
		return Guidance{}, fmt.Errorf("%w: %q", ErrUnknownSeverityLevel, level)
	}
	recs := make([]string, len(g.Recommendations))
	copy(recs, g.Recommendations)
	g.Recommendations = recs
	return g, nil
}

// RecommendationsFor returns the ordered recommendation list of a level
func (s *Scale) RecommendationsFor(level Level) ([]string, error) {
	g, err := s.Guidance(level)
	if err != nil {
		return nil, err
	}
	return g.Recommendations, nil
}
