package secondary

import (
	"time"

	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

type GradingMetrics interface {
	RecordCase(result domain.TestCaseResult, elapsed time.Duration)
	RecordVerdict(verdict *domain.GradingVerdict)
}
