package secondary

import (
	"context"

	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

// JudgeClient is the remote execution service. Implementations encode and
// decode transport payloads themselves; callers only see plain text.
type JudgeClient interface {
	// Submit dispatches one run and returns its token without waiting for it
	Submit(ctx context.Context, req domain.JudgeRequest) (domain.ExecutionToken, error)

	// FetchResult performs a single status lookup for token
	FetchResult(ctx context.Context, token domain.ExecutionToken) (domain.ExecutionOutcome, error)
}
