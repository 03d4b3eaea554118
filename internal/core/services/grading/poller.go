package grading

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/fcv-2025.net/grader/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/grader/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/grader/internal/domain"
	"gitlab.com/fcv-2025.net/grader/internal/static/errs"
)

// Poller waits for a dispatched run to reach a terminal status
type Poller struct {
	judge       secondary.JudgeClient
	interval    time.Duration
	maxAttempts int
	logger      primary.Logger
}

func NewPoller(judge secondary.JudgeClient, interval time.Duration, maxAttempts int, logger primary.Logger) *Poller {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Poller{
		judge:       judge,
		interval:    interval,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Poll fetches the result of token at most maxAttempts times. A fetch error
// ends polling immediately; exhausting the attempts yields errs.ErrPollTimeout.
func (p *Poller) Poll(ctx context.Context, token domain.ExecutionToken) (domain.ExecutionOutcome, error) {
	var last domain.ExecutionOutcome
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return domain.ExecutionOutcome{}, err
		}

		outcome, err := p.judge.FetchResult(ctx, token)
		if err != nil {
			p.logger.Warn("Failed to fetch judge result", "token", token, "attempt", attempt, "error", err)
			return domain.ExecutionOutcome{}, err
		}
		if outcome.IsTerminal() {
			p.logger.Debug("Judge run finished", "token", token, "attempt", attempt, "statusId", outcome.StatusID)
			return outcome, nil
		}
		last = outcome

		if attempt < p.maxAttempts {
			if err := sleep(ctx, p.interval); err != nil {
				return domain.ExecutionOutcome{}, err
			}
		}
	}

	p.logger.Warn("Judge run timed out", "token", token, "attempts", p.maxAttempts, "lastStatus", last.Status)
	return domain.ExecutionOutcome{}, fmt.Errorf("%w: token %s still %s after %d attempts at %s",
		errs.ErrPollTimeout, token, last.Status, p.maxAttempts, p.interval)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
