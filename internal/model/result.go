package model

import "time"

// ResultRecord is an archived screening outcome
type ResultRecord struct {
	SessionID   string    `json:"sessionId" bson:"_id"`
	Score       int       `json:"score" bson:"score"`
	MaxScore    int       `json:"maxScore" bson:"maxScore"`
	Level       string    `json:"level" bson:"level"`
	Answers     []int     `json:"answers" bson:"answers"` // question order
	Instrument  string    `json:"instrument" bson:"instrument"`
	StartedAt   time.Time `json:"startedAt" bson:"startedAt"`
	CompletedAt time.Time `json:"completedAt" bson:"completedAt"`
}

// LevelCount is the number of archived results at one level
type LevelCount struct {
	Level string `json:"level" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// ResultSummary aggregates the archive
type ResultSummary struct {
	Total  int64           `json:"total"`
	Levels []LevelCount    `json:"levels"`
	Recent []*ResultRecord `json:"recent"`
}
