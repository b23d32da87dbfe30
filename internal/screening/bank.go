package screening

import "fmt"

// Option is one selectable answer to a question
type Option struct {
	Text  string `json:"text" yaml:"text"`
	Value int    `json:"value" yaml:"value"`
}

// Question is an immutable item of the question bank
type Question struct {
	ID      int      `json:"id" yaml:"id"`
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Options []Option `json:"options" yaml:"options"`
}

// MaxValue returns the largest option value of the question
func (q Question) MaxValue() int {
	max := 0
	for _, o := range q.Options {
		if o.Value > max {
			max = o.Value
		}
	}
	return max
}

// Accepts reports whether value is one of the question's option values
func (q Question) Accepts(value int) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Bank is a validated, ordered set of questions
type Bank struct {
	questions []Question
	index     map[int]int // question ID -> position
	maxScore  int
}

// NewBank validates the questions and precomputes the maximum possible score
func NewBank(questions []Question) (*Bank, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrInvalidBank)
	}

	b := &Bank{
		questions: make([]Question, len(questions)),
		index:     make(map[int]int, len(questions)),
	}

	for i, q := range questions {
		if _, dup := b.index[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %d", ErrInvalidBank, q.ID)
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("%w: question %d has no options", ErrInvalidBank, q.ID)
		}

		seen := make(map[int]bool, len(q.Options))
		for _, o := range q.Options {
			if o.Value < 0 {
				return nil, fmt.Errorf("%w: question %d has negative option value %d", ErrInvalidBank, q.ID, o.Value)
			}
			if seen[o.Value] {
				return nil, fmt.Errorf("%w: question %d repeats option value %d", ErrInvalidBank, q.ID, o.Value)
			}
			seen[o.Value] = true
		}

		opts := make([]Option, len(q.Options))
		copy(opts, q.Options)
		q.Options = opts

		b.questions[i] = q
		b.index[q.ID] = i
		b.maxScore += q.MaxValue()
	}

	return b, nil
}

// Len returns the number of questions
func (b *Bank) Len() int {
	return len(b.questions)
}

// MaxScore is the sum of the highest option value of every question
func (b *Bank) MaxScore() int {
	return b.maxScore
}

// Questions returns a copy of the questions in display order
func (b *Bank) Questions() []Question {
	out := make([]Question, len(b.questions))
	for i, q := range b.questions {
		opts := make([]Option, len(q.Options))
		copy(opts, q.Options)
		q.Options = opts
		out[i] = q
	}
	return out
}

// Question looks up a question by ID
func (b *Bank) Question(id int) (Question, error) {
	i, ok := b.index[id]
	if !ok {
		return Question{}, fmt.Errorf("%w: %d", ErrUnknownQuestion, id)
	}
	return b.questions[i], nil
}

// Validate checks a single answer against the bank
func (b *Bank) Validate(questionID, value int) error {
	q, err := b.Question(questionID)
	if err != nil {
		return err
	}
	if !q.Accepts(value) {
		return fmt.Errorf("%w: %d for question %d", ErrInvalidAnswerValue, value, questionID)
	}
	return nil
}

// Score sums a complete answer set given in bank order
func (b *Bank) Score(answers []int) (int, error) {
	if len(answers) != len(b.questions) {
		return 0, fmt.Errorf("%w: got %d answers for %d questions", ErrIncompleteAnswerSet, len(answers), len(b.questions))
	}

	score := 0
	for i, v := range answers {
		q := b.questions[i]
		if !q.Accepts(v) {
			return 0, fmt.Errorf("%w: %d for question %d", ErrInvalidAnswerValue, v, q.ID)
		}
		score += v
	}
	return score, nil
}

// ordered converts an answer map into bank order.
// ok is false when any question is unanswered.
func (b *Bank) ordered(answers map[int]int) ([]int, bool) {
	out := make([]int, len(b.questions))
	for i, q := range b.questions {
		v, ok := answers[q.ID]
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
