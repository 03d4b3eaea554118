package grading_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/fcv-2025.net/grader/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/grader/internal/adapter/metrics"
	"gitlab.com/fcv-2025.net/grader/internal/config"
	"gitlab.com/fcv-2025.net/grader/internal/core/services/grading"
	"gitlab.com/fcv-2025.net/grader/internal/core/services/language"
	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

// script describes how the fake judge treats one submitted run
type script struct {
	submitErr error
	fetchErr  error
	pending   int // fetches answered with Processing before the outcome
	outcome   domain.ExecutionOutcome
}

type fakeJudge struct {
	mu      sync.Mutex
	decide  func(call int, req domain.JudgeRequest) script
	runs    map[domain.ExecutionToken]*script
	submits []domain.JudgeRequest
	fetches int
	onFetch func()
}

func newFakeJudge(decide func(call int, req domain.JudgeRequest) script) *fakeJudge {
	return &fakeJudge{
		decide: decide,
		runs:   make(map[domain.ExecutionToken]*script),
	}
}

func (f *fakeJudge) Submit(ctx context.Context, req domain.JudgeRequest) (domain.ExecutionToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := len(f.submits)
	f.submits = append(f.submits, req)
	s := f.decide(call, req)
	if s.submitErr != nil {
		return "", s.submitErr
	}
	token := domain.ExecutionToken(fmt.Sprintf("tok-%d", call))
	f.runs[token] = &s
	return token, nil
}

func (f *fakeJudge) FetchResult(ctx context.Context, token domain.ExecutionToken) (domain.ExecutionOutcome, error) {
	f.mu.Lock()
	f.fetches++
	s, ok := f.runs[token]
	hook := f.onFetch
	var (
		outcome domain.ExecutionOutcome
		err     error
	)
	switch {
	case !ok:
		err = fmt.Errorf("unknown token %s", token)
	case s.fetchErr != nil:
		err = s.fetchErr
	case s.pending > 0:
		s.pending--
		outcome = domain.ExecutionOutcome{Status: domain.ExecutionProcessing, StatusID: domain.StatusIDProcessing, Description: "Processing"}
	default:
		outcome = s.outcome
	}
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return outcome, err
}

func (f *fakeJudge) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submits)
}

func (f *fakeJudge) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func accepted(stdout string) domain.ExecutionOutcome {
	return domain.ExecutionOutcome{
		Status:      domain.ExecutionCompleted,
		StatusID:    domain.StatusIDAccepted,
		Description: "Accepted",
		Stdout:      stdout,
		TimeSeconds: 0.01,
		MemoryKB:    3200,
	}
}

func failedOutcome(statusID int, description string) domain.ExecutionOutcome {
	return domain.ExecutionOutcome{
		Status:      domain.ExecutionFailed,
		StatusID:    statusID,
		Description: description,
	}
}

func testConfig() *config.GradingConfig {
	return &config.GradingConfig{
		PollInterval:        time.Millisecond,
		MaxPollAttempts:     30,
		Concurrency:         1,
		DefaultCPUTimeLimit: 2,
		DefaultMemoryLimit:  128000,
	}
}

func newService(judge *fakeJudge, cfg *config.GradingConfig) *grading.GradingService {
	return grading.NewGradingService(
		judge,
		language.NewRegistry(nil),
		metrics.NewRecorder(prometheus.NewRegistry()),
		logging.NewNopLogger(),
		cfg,
	)
}

func points(n int) *int {
	return &n
}

func strPtr(s string) *string {
	return &s
}
