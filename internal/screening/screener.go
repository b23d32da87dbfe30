// Package screening scores a fixed questionnaire and classifies the score
// into a severity level with guidance. Everything here is pure: the caller
// owns sessions and decides where they live.
package screening

import "fmt"

// Result is the outcome of a complete answer set
type Result struct {
	Score           int      `json:"score"`
	MaxScore        int      `json:"maxScore"`
	Level           Level    `json:"level"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Color           string   `json:"color"`
	Recommendations []string `json:"recommendations"`
}

// Screener pairs a question bank with the scale built for it
type Screener struct {
	bank  *Bank
	scale *Scale
}

// NewScreener checks that the scale covers exactly the bank's score range
func NewScreener(bank *Bank, scale *Scale) (*Screener, error) {
	if bank == nil || scale == nil {
		return nil, fmt.Errorf("%w: bank and scale are required", ErrInvalidScale)
	}
	if bank.MaxScore() != scale.MaxScore() {
		return nil, fmt.Errorf("%w: scale max %d does not match bank max %d", ErrInvalidScale, scale.MaxScore(), bank.MaxScore())
	}
	return &Screener{bank: bank, scale: scale}, nil
}

// Bank returns the question bank
func (s *Screener) Bank() *Bank {
	return s.bank
}

// Scale returns the severity scale
func (s *Screener) Scale() *Scale {
	return s.scale
}

// Score sums a complete answer set in bank order
func (s *Screener) Score(answers []int) (int, error) {
	return s.bank.Score(answers)
}

// Classify maps a score to its level
func (s *Screener) Classify(score int) (Level, error) {
	return s.scale.Classify(score)
}

// RecommendationsFor returns the recommendations of a level
func (s *Screener) RecommendationsFor(level Level) ([]string, error) {
	return s.scale.RecommendationsFor(level)
}

// Evaluate scores, classifies and attaches guidance
func (s *Screener) Evaluate(answers []int) (Result, error) {
	score, err := s.bank.Score(answers)
	if err != nil {
		return Result{}, err
	}
	return s.resultFor(score)
}

func (s *Screener) resultFor(score int) (Result, error) {
	level, err := s.scale.Classify(score)
	if err != nil {
		return Result{}, err
	}
	g, err := s.scale.Guidance(level)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Score:           score,
		MaxScore:        s.scale.MaxScore(),
		Level:           level,
		Title:           g.Title,
		Description:     g.Description,
		Color:           g.Color,
		Recommendations: g.Recommendations,
	}, nil
}
