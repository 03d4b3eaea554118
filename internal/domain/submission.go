package domain

import (
	"time"

	"github.com/google/uuid"
)

// Limits are the resource limits forwarded to the judge for every run
type Limits struct {
	CPUTimeLimit float64 // seconds
	MemoryLimit  int     // KB
}

// Submission represents a code submission to be graded. It is created once
// per grading request and never mutated afterwards.
type Submission struct {
	ID             uuid.UUID
	Code           string
	Language       string
	LanguageID     LanguageID
	Stdin          *string
	ExpectedOutput *string
	Limits         Limits
	SubmittedAt    time.Time
}

// NewSubmission creates a new submission
func NewSubmission(id uuid.UUID, code, language string, languageID LanguageID, limits Limits) *Submission {
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Submission{
		ID:          id,
		Code:        code,
		Language:    language,
		LanguageID:  languageID,
		Limits:      limits,
		SubmittedAt: time.Now(),
	}
}

// GradeRequest is the inbound contract of the grading pipeline
type GradeRequest struct {
	SubmissionID   uuid.UUID
	Code           string
	Language       string
	Stdin          *string
	ExpectedOutput *string
	CPUTimeLimit   float64 // seconds, zero means deployment default
	MemoryLimit    int     // KB, zero means deployment default
	TestCases      []TestCase
}
