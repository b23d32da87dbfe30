package screening

import "errors"

// Request-time errors. The caller rejects the input and no state is mutated.
var (
	ErrUnknownQuestion     = errors.New("unknown question")
	ErrInvalidAnswerValue  = errors.New("invalid answer value")
	ErrIncompleteAnswerSet = errors.New("incomplete answer set")
	ErrSessionComplete     = errors.New("session already complete")
)

// Consistency errors. These point at a misconfigured instrument and are
// surfaced when the bank and scale are built at startup.
var (
	ErrScoreOutOfRange      = errors.New("score out of range")
	ErrUnknownSeverityLevel = errors.New("unknown severity level")
	ErrInvalidBank          = errors.New("invalid question bank")
	ErrInvalidScale         = errors.New("invalid severity scale")
)
