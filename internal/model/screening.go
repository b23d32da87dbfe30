package model

import (
	"time"

	"mindwell/internal/screening"
)

// CrisisContact is a helpline shown alongside severe results
type CrisisContact struct {
	Name        string `json:"name" yaml:"name"`
	Contact     string `json:"contact" yaml:"contact"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type" yaml:"type"` // call, text, web
	Link        string `json:"link,omitempty" yaml:"link,omitempty"`
}

// QuestionsResponse is the question bank as shown to clients
type QuestionsResponse struct {
	Name       string               `json:"name"`
	Disclaimer string               `json:"disclaimer"`
	MaxScore   int                  `json:"maxScore"`
	Questions  []screening.Question `json:"questions"`
}

// LevelView is one resolved severity band with its guidance
type LevelView struct {
	Level           screening.Level `json:"level"`
	MinScore        int             `json:"minScore"`
	MaxScore        int             `json:"maxScore"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Color           string          `json:"color"`
	Recommendations []string        `json:"recommendations"`
}

// ResultView is a screening result plus crisis contacts for severe outcomes
type ResultView struct {
	screening.Result
	CrisisContacts []CrisisContact `json:"crisisContacts,omitempty"`
}

// StartSessionResponse is returned when a session is created
type StartSessionResponse struct {
	SessionID      string    `json:"sessionId"`
	Token          string    `json:"token"`
	ExpiresAt      time.Time `json:"expiresAt"`
	TotalQuestions int       `json:"totalQuestions"`
}

// SessionView is the progress of a session
type SessionView struct {
	ID             string           `json:"id"`
	Status         screening.Status `json:"status"`
	AnsweredCount  int              `json:"answeredCount"`
	TotalQuestions int              `json:"totalQuestions"`
	Answers        map[int]int      `json:"answers"`
	StartedAt      time.Time        `json:"startedAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	CompletedAt    *time.Time       `json:"completedAt,omitempty"`
}

// SubmitAnswerRequest is the body of PUT /v1/sessions/{id}/answers/{questionId}
type SubmitAnswerRequest struct {
	Value *int `json:"value"`
}

// SubmitAnswerResponse reports progress after an answer
type SubmitAnswerResponse struct {
	Session SessionView `json:"session"`
	Result  *ResultView `json:"result,omitempty"`
}

// ScoreRequest is an answer list in question order
type ScoreRequest struct {
	Answers []int `json:"answers"`
}

// ProgressPayload is pushed to session subscribers
type ProgressPayload struct {
	SessionID      string           `json:"sessionId"`
	Status         screening.Status `json:"status"`
	AnsweredCount  int              `json:"answeredCount"`
	TotalQuestions int              `json:"totalQuestions"`
}
