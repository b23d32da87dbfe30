package screening

import (
	"fmt"
	"time"
)

// Status is the state of a screening session
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
)

// Session is a caller-owned answer set. It moves from in_progress to
// complete when the last question is answered; Reset is the only way back.
type Session struct {
	ID      string      `json:"id"`
	Status  Status      `json:"status"`
	Answers map[int]int `json:"answers"`
	Result  *Result     `json:"result,omitempty"`

	// Timestamps are maintained by whoever stores the session
	StartedAt   time.Time  `json:"startedAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// NewSession creates an empty in-progress session
func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		Status:  StatusInProgress,
		Answers: make(map[int]int),
	}
}

// AnsweredCount is the number of distinct questions answered
func (s *Session) AnsweredCount() int {
	return len(s.Answers)
}

// Complete reports whether the session holds a result
func (s *Session) Complete() bool {
	return s.Status == StatusComplete
}

// Clone returns a deep copy
func (s *Session) Clone() *Session {
	out := *s
	out.Answers = make(map[int]int, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	if s.Result != nil {
		res := *s.Result
		res.Recommendations = append([]string(nil), s.Result.Recommendations...)
		out.Result = &res
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}

// Reset discards all answers and the result
func (s *Session) Reset() {
	s.Status = StatusInProgress
	s.Answers = make(map[int]int)
	s.Result = nil
	s.CompletedAt = nil
}

// Submit records one answer. Re-answering while in progress overwrites the
// earlier value. The answer that completes the set also scores and classifies
// it. On error the session is left untouched.
func (s *Screener) Submit(sess *Session, questionID, value int) error {
	if sess.Complete() {
		return fmt.Errorf("%w: %s", ErrSessionComplete, sess.ID)
	}
	if err := s.bank.Validate(questionID, value); err != nil {
		return err
	}

	if sess.Answers == nil {
		sess.Answers = make(map[int]int)
	}
	prev, had := sess.Answers[questionID]
	sess.Answers[questionID] = value

	if len(sess.Answers) < s.bank.Len() {
		sess.Status = StatusInProgress
		return nil
	}

	ordered, ok := s.bank.ordered(sess.Answers)
	if !ok {
		return rollback(sess, questionID, prev, had, fmt.Errorf("%w: session %s holds answers outside the bank", ErrUnknownQuestion, sess.ID))
	}
	res, err := s.Evaluate(ordered)
	if err != nil {
		return rollback(sess, questionID, prev, had, err)
	}
	sess.Result = &res
	sess.Status = StatusComplete
	return nil
}

func rollback(sess *Session, questionID, prev int, had bool, err error) error {
	if had {
		sess.Answers[questionID] = prev
	} else {
		delete(sess.Answers, questionID)
	}
	return err
}

// Result returns the computed result of a complete session
func (s *Screener) Result(sess *Session) (Result, error) {
	if !sess.Complete() || sess.Result == nil {
		return Result{}, fmt.Errorf("%w: %d of %d answered", ErrIncompleteAnswerSet, sess.AnsweredCount(), s.bank.Len())
	}
	res := *sess.Result
	res.Recommendations = append([]string(nil), sess.Result.Recommendations...)
	return res, nil
}
