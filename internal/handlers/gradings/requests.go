package gradings

import (
	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

// CreateGradingRequest represents a request to grade one submission
type CreateGradingRequest struct {
	SubmissionID   uuid.UUID         `json:"submission_id"`
	Language       string            `json:"language"`
	Code           string            `json:"code"`
	Stdin          *string           `json:"stdin"`
	ExpectedOutput *string           `json:"expected_output"`
	CPUTimeLimit   float64           `json:"cpu_time_limit"`
	MemoryLimit    int               `json:"memory_limit"`
	ProblemID      string            `json:"problem_id"`
	TestCases      []domain.TestCase `json:"test_cases"`
}

func (r CreateGradingRequest) toDomain() *domain.GradeRequest {
	return &domain.GradeRequest{
		SubmissionID:   r.SubmissionID,
		Code:           r.Code,
		Language:       r.Language,
		Stdin:          r.Stdin,
		ExpectedOutput: r.ExpectedOutput,
		CPUTimeLimit:   r.CPUTimeLimit,
		MemoryLimit:    r.MemoryLimit,
		TestCases:      r.TestCases,
	}
}

// LanguagesResponse lists the accepted languages and the per test case wait bound
type LanguagesResponse struct {
	Languages         []domain.Language `json:"languages"`
	PollBudgetSeconds float64           `json:"poll_budget_seconds"`
}
