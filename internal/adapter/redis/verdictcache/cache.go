package verdictcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/grader/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/grader/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

const verdictKeyPrefix = "grading:verdict:"

var _ secondary.VerdictCache = (*VerdictCache)(nil)

// VerdictCache implements secondary.VerdictCache with Redis
type VerdictCache struct {
	redisClient *redis.Client
	ttl         time.Duration
	logger      primary.Logger
}

func NewVerdictCache(redisClient *redis.Client, ttl time.Duration, logger primary.Logger) *VerdictCache {
	return &VerdictCache{
		redisClient: redisClient,
		ttl:         ttl,
		logger:      logger,
	}
}

func verdictKey(submissionID uuid.UUID) string {
	return verdictKeyPrefix + submissionID.String()
}

func (c *VerdictCache) Put(ctx context.Context, verdict *domain.GradingVerdict) error {
	data, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}
	if err := c.redisClient.Set(ctx, verdictKey(verdict.SubmissionID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache verdict", "submissionId", verdict.SubmissionID, "error", err)
		return fmt.Errorf("failed to cache verdict: %w", err)
	}
	return nil
}

// Get returns nil, nil on a cache miss
func (c *VerdictCache) Get(ctx context.Context, submissionID uuid.UUID) (*domain.GradingVerdict, error) {
	data, err := c.redisClient.Get(ctx, verdictKey(submissionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached verdict: %w", err)
	}

	var verdict domain.GradingVerdict
	if err := json.Unmarshal(data, &verdict); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached verdict: %w", err)
	}
	return &verdict, nil
}
