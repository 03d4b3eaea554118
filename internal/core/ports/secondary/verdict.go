package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

// VerdictRepository defines the interface for storing and retrieving grading verdicts
type VerdictRepository interface {
	// SaveVerdict saves a verdict and its per test case results
	SaveVerdict(ctx context.Context, verdict *domain.GradingVerdict) error

	// GetVerdict retrieves a verdict by submission ID, nil when absent
	GetVerdict(ctx context.Context, submissionID uuid.UUID) (*domain.GradingVerdict, error)
}

// VerdictCache keeps recently graded verdicts close to the API
type VerdictCache interface {
	Put(ctx context.Context, verdict *domain.GradingVerdict) error
	Get(ctx context.Context, submissionID uuid.UUID) (*domain.GradingVerdict, error)
}
