package secondary

import (
	"context"

	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

type ProblemRepository interface {
	// GetTestCases returns the ordered test cases of a problem
	GetTestCases(ctx context.Context, problemID string) ([]domain.TestCase, error)
}
