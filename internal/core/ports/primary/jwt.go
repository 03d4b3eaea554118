package primary

import (
	"context"

	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

// JWTService issues and verifies the bearer tokens guarding the grading API
type JWTService interface {
	GenerateTokenHMAC(ctx context.Context, payload domain.AuthPayload) (string, error)
	VerifyTokenHMAC(ctx context.Context, token string) (domain.AuthPayload, error)
}
