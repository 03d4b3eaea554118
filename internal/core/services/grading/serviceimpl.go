package grading

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"gitlab.com/fcv-2025.net/grader/internal/config"
	"gitlab.com/fcv-2025.net/grader/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/grader/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/grader/internal/core/services/language"
	"gitlab.com/fcv-2025.net/grader/internal/domain"
	"gitlab.com/fcv-2025.net/grader/internal/static/errs"
)

var _ IGradingService = (*GradingService)(nil)

// GradingService coordinates the judge for one submission at a time. It holds
// no per-submission state, so a single instance serves concurrent requests.
type GradingService struct {
	judge      secondary.JudgeClient
	languages  language.IRegistry
	poller     *Poller
	comparator Comparator
	metrics    secondary.GradingMetrics
	logger     primary.Logger
	cfg        *config.GradingConfig
}

// NewGradingService creates a new grading service
func NewGradingService(
	judge secondary.JudgeClient,
	languages language.IRegistry,
	metrics secondary.GradingMetrics,
	logger primary.Logger,
	cfg *config.GradingConfig,
) *GradingService {
	return &GradingService{
		judge:      judge,
		languages:  languages,
		poller:     NewPoller(judge, cfg.PollInterval, cfg.MaxPollAttempts, logger),
		comparator: ExactTrimmed{},
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
	}
}

// WorstCaseLatency ignores submit retries and network time
func (s *GradingService) WorstCaseLatency(numTestCases int) time.Duration {
	if numTestCases < 1 {
		numTestCases = 1
	}
	waves := numTestCases
	if s.cfg.Concurrency > 1 {
		waves = (numTestCases + s.cfg.Concurrency - 1) / s.cfg.Concurrency
	}
	return time.Duration(waves) * s.cfg.PollBudget()
}

// Grade runs the pipeline for one submission
func (s *GradingService) Grade(ctx context.Context, req *domain.GradeRequest) (*domain.GradingVerdict, error) {
	languageID, err := s.languages.Resolve(req.Language)
	if err != nil {
		s.logger.Warn("Rejected submission language", "language", req.Language, "error", err)
		return nil, err
	}
	if strings.TrimSpace(req.Code) == "" {
		return nil, errs.ErrEmptySource
	}
	if req.CPUTimeLimit < 0 || req.MemoryLimit < 0 {
		return nil, errs.ErrInvalidLimits
	}

	submission := domain.NewSubmission(req.SubmissionID, req.Code, req.Language, languageID, s.limits(req))
	submission.Stdin = req.Stdin
	submission.ExpectedOutput = req.ExpectedOutput

	verdict := &domain.GradingVerdict{
		SubmissionID: submission.ID,
		Language:     submission.Language,
		StartedAt:    time.Now(),
	}

	s.logger.Info("Grading submission",
		"submissionId", submission.ID,
		"language", submission.Language,
		"languageId", languageID,
		"testCases", len(req.TestCases))

	if len(req.TestCases) == 0 {
		err = s.gradeSimple(ctx, submission, verdict)
	} else {
		err = s.gradeWithTestCases(ctx, submission, req.TestCases, verdict)
	}
	if err != nil {
		s.logger.Error("Grading aborted", "submissionId", submission.ID, "error", err)
		return nil, err
	}

	verdict.FinishedAt = time.Now()
	s.metrics.RecordVerdict(verdict)
	s.logger.Info("Submission graded",
		"submissionId", submission.ID,
		"status", verdict.OverallStatus,
		"passed", verdict.PassedTestCases,
		"total", verdict.TotalTestCases,
		"score", verdict.Score)

	return verdict, nil
}

func (s *GradingService) limits(req *domain.GradeRequest) domain.Limits {
	limits := domain.Limits{
		CPUTimeLimit: req.CPUTimeLimit,
		MemoryLimit:  req.MemoryLimit,
	}
	if limits.CPUTimeLimit == 0 {
		limits.CPUTimeLimit = s.cfg.DefaultCPUTimeLimit
	}
	if limits.MemoryLimit == 0 {
		limits.MemoryLimit = s.cfg.DefaultMemoryLimit
	}
	return limits
}

func (s *GradingService) gradeWithTestCases(ctx context.Context, submission *domain.Submission, testCases []domain.TestCase, verdict *domain.GradingVerdict) error {
	results := make([]domain.TestCaseResult, len(testCases))

	if s.cfg.Concurrency <= 1 {
		for i, tc := range testCases {
			result, err := s.gradeCase(ctx, submission, i, tc)
			if err != nil {
				return err
			}
			results[i] = result
		}
	} else {
		// results are addressed by index so completion order does not matter
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.cfg.Concurrency)
		for i, tc := range testCases {
			i, tc := i, tc
			g.Go(func() error {
				result, err := s.gradeCase(gctx, submission, i, tc)
				if err != nil {
					return err
				}
				results[i] = result
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	verdict.Mode = domain.ModeWithTestCases
	verdict.Results = results
	verdict.TotalTestCases = len(results)
	for i, result := range results {
		if result.Passed {
			verdict.PassedTestCases++
			verdict.Score += testCases[i].PointsOrDefault()
		}
	}
	verdict.OverallStatus = domain.StatusWrongAnswer
	if verdict.PassedTestCases == verdict.TotalTestCases {
		verdict.OverallStatus = domain.StatusAccepted
	}
	return nil
}

// gradeCase returns an error only when the whole operation must stop
func (s *GradingService) gradeCase(ctx context.Context, submission *domain.Submission, index int, tc domain.TestCase) (domain.TestCaseResult, error) {
	start := time.Now()
	outcome, err := s.run(ctx, submission, tc.Input, nil)

	var result domain.TestCaseResult
	switch {
	case err == nil:
		result = Evaluate(index, outcome, tc, s.comparator)
	case errs.IsFatal(err):
		return domain.TestCaseResult{}, err
	case ctx.Err() != nil:
		return domain.TestCaseResult{}, ctx.Err()
	default:
		s.logger.Warn("Test case run failed",
			"submissionId", submission.ID,
			"index", index,
			"error", err)
		result = failedResult(index, tc, err)
	}

	s.metrics.RecordCase(result, time.Since(start))
	return result, nil
}

func (s *GradingService) gradeSimple(ctx context.Context, submission *domain.Submission, verdict *domain.GradingVerdict) error {
	var stdin, expected string
	if submission.Stdin != nil {
		stdin = *submission.Stdin
	}
	if submission.ExpectedOutput != nil {
		expected = *submission.ExpectedOutput
	}
	tc := domain.TestCase{Input: stdin, ExpectedOutput: expected}

	start := time.Now()
	outcome, err := s.run(ctx, submission, stdin, submission.ExpectedOutput)

	var result domain.TestCaseResult
	switch {
	case err == nil:
		// the judge's own status is the verdict here, not an output comparison
		result = domain.TestCaseResult{
			Input:          stdin,
			ExpectedOutput: expected,
			ActualOutput:   outcome.Stdout,
			Passed:         outcome.Accepted(),
			Time:           outcome.TimeSeconds,
			Memory:         outcome.MemoryKB,
		}
		if !result.Passed {
			result.Error = outcome.Diagnostics()
			result.ErrorKind = domain.ErrorKindJudge
		}
	case errs.IsFatal(err):
		return err
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		s.logger.Warn("Simple run failed", "submissionId", submission.ID, "error", err)
		result = failedResult(0, tc, err)
	}
	s.metrics.RecordCase(result, time.Since(start))

	verdict.Mode = domain.ModeSimple
	verdict.Results = []domain.TestCaseResult{result}
	verdict.TotalTestCases = 1
	verdict.OverallStatus = domain.StatusRuntimeError
	if result.Passed {
		verdict.PassedTestCases = 1
		verdict.Score = domain.DefaultPoints
		verdict.OverallStatus = domain.StatusAccepted
	}
	return nil
}

// run dispatches one execution and waits for its terminal outcome
func (s *GradingService) run(ctx context.Context, submission *domain.Submission, stdin string, expected *string) (domain.ExecutionOutcome, error) {
	token, err := s.submit(ctx, domain.JudgeRequest{
		SourceCode:     submission.Code,
		LanguageID:     submission.LanguageID,
		Stdin:          stdin,
		ExpectedOutput: expected,
		Limits:         submission.Limits,
	})
	if err != nil {
		return domain.ExecutionOutcome{}, err
	}

	s.logger.Debug("Run dispatched", "submissionId", submission.ID, "token", token)
	return s.poller.Poll(ctx, token)
}

// submit retries transport failures up to SubmitRetries times
func (s *GradingService) submit(ctx context.Context, req domain.JudgeRequest) (domain.ExecutionToken, error) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.SubmitRetries; attempt++ {
		// a case queued behind the concurrency limit may start after an abort
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if attempt > 0 {
			if err := sleep(ctx, s.cfg.PollInterval); err != nil {
				return "", err
			}
			s.logger.Info("Retrying judge submit", "attempt", attempt, "error", lastErr)
		}

		token, err := s.judge.Submit(ctx, req)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, errs.ErrJudgeTransport) {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("submit failed after %d attempts: %w", s.cfg.SubmitRetries+1, lastErr)
}
