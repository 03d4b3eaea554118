package grading

import (
	"context"
	"time"

	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

// IGradingService defines the interface of the grading pipeline
type IGradingService interface {
	// Grade runs the submission against its test cases, or once when there are
	// none. It returns an error only for configuration or request problems and
	// for cancellation; every other failure is recorded in the verdict.
	Grade(ctx context.Context, req *domain.GradeRequest) (*domain.GradingVerdict, error)

	// WorstCaseLatency is the longest Grade may take for numTestCases cases
	WorstCaseLatency(numTestCases int) time.Duration
}
