package domain

import (
	"time"

	"github.com/google/uuid"
)

// GradingMode is decided once per grading operation
type GradingMode string

const (
	ModeWithTestCases GradingMode = "with_test_cases"
	ModeSimple        GradingMode = "simple"
)

// OverallStatus is the final classification of a submission
type OverallStatus string

const (
	StatusAccepted     OverallStatus = "accepted"
	StatusWrongAnswer  OverallStatus = "wrong_answer"
	StatusRuntimeError OverallStatus = "runtime_error"
)

// ErrorKind tells apart why a test case produced no passing result
type ErrorKind string

const (
	ErrorKindNone      ErrorKind = ""
	ErrorKindJudge     ErrorKind = "judge"
	ErrorKindTransport ErrorKind = "transport"
	ErrorKindTimeout   ErrorKind = "timeout"
)

// TestCaseResult represents the result of a single test case execution
type TestCaseResult struct {
	Index          int       `json:"index"`
	Input          string    `json:"input"`
	ExpectedOutput string    `json:"expected_output"`
	ActualOutput   string    `json:"actual_output"`
	Passed         bool      `json:"passed"`
	Time           float64   `json:"time"`
	Memory         int64     `json:"memory"`
	Error          string    `json:"error,omitempty"`
	ErrorKind      ErrorKind `json:"error_kind,omitempty"`
}

// GradingVerdict is the aggregate outcome handed to the persistence layer
type GradingVerdict struct {
	SubmissionID    uuid.UUID        `json:"submission_id"`
	Language        string           `json:"language"`
	Mode            GradingMode      `json:"mode"`
	Results         []TestCaseResult `json:"results"`
	TotalTestCases  int              `json:"total_test_cases"`
	PassedTestCases int              `json:"passed_test_cases"`
	Score           int              `json:"score"`
	OverallStatus   OverallStatus    `json:"overall_status"`
	StartedAt       time.Time        `json:"started_at"`
	FinishedAt      time.Time        `json:"finished_at"`
}
