package grading_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fcv-2025.net/grader/internal/domain"
	"gitlab.com/fcv-2025.net/grader/internal/static/errs"
)

func echoJudge() *fakeJudge {
	return newFakeJudge(func(call int, req domain.JudgeRequest) script {
		return script{pending: 1, outcome: accepted(req.Stdin)}
	})
}

func TestGradeSingleCaseTrimmedMatch(t *testing.T) {
	judge := newFakeJudge(func(call int, req domain.JudgeRequest) script {
		return script{outcome: accepted("Hello")}
	})
	svc := newService(judge, testConfig())

	verdict, err := svc.Grade(context.Background(), &domain.GradeRequest{
		Code:      `print("Hello")`,
		Language:  "python",
		TestCases: []domain.TestCase{{Input: "", ExpectedOutput: "Hello\n"}},
	})

	require.NoError(t, err)
	require.Len(t, verdict.Results, 1)
	assert.True(t, verdict.Results[0].Passed)
	assert.Equal(t, domain.StatusAccepted, verdict.OverallStatus)
	assert.Equal(t, domain.ModeWithTestCases, verdict.Mode)
	assert.Equal(t, 10, verdict.Score)
}

func TestGradeOnePassOneFail(t *testing.T) {
	judge := newFakeJudge(func(call int, req domain.JudgeRequest) script {
		return script{outcome: accepted("3")}
	})
	svc := newService(judge, testConfig())

	verdict, err := svc.Grade(context.Background(), &domain.GradeRequest{
		Code:     "a, b = map(int, input().split()); print(a + b)",
		Language: "python",
		TestCases: []domain.TestCase{
			{Input: "1 2", ExpectedOutput: "3"},
			{Input: "2 2", ExpectedOutput: "4"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, verdict.TotalTestCases)
	assert.Equal(t, 1, verdict.PassedTestCases)
	assert.Equal(t, 10, verdict.Score)
	assert.Equal(t, domain.StatusWrongAnswer, verdict.OverallStatus)
	assert.True(t, verdict.Results[0].Passed)
	assert.False(t, verdict.Results[1].Passed)
	assert.Equal(t, "3", verdict.Results[1].ActualOutput)
	assert.Empty(t, verdict.Results[1].ErrorKind)
}

func TestGradeCompilationError(t *testing.T) {
	judge := newFakeJudge(func(call int, req domain.JudgeRequest) script {
		outcome := failedOutcome(domain.StatusIDCompilationError, "Compilation Error")
		outcome.CompileOutput = "main.cpp:1:1: error: 'x' does not name a type"
		return script{outcome: outcome}
	})
	svc := newService(judge, testConfig())

	verdict, err := svc.Grade(context.Background(), &domain.GradeRequest{
		Code:      "x",
		Language:  "cpp",
		TestCases: []domain.TestCase{{Input: "1", ExpectedOutput: "1"}},
	})

	require.NoError(t, err)
	result := verdict.Results[0]
	assert.False(t, result.Passed)
	assert.Contains(t, result.Error, "does not name a type")
	assert.Empty(t, result.ActualOutput)
	assert.Equal(t, domain.ErrorKindJudge, result.ErrorKind)
	assert.Equal(t, domain.StatusWrongAnswer, verdict.OverallStatus)
	assert.Equal(t, 0, verdict.Score)
}

func TestGradeAcceptedRequiresJudgeStatus(t *testing.T) {
	// stdout matches but the judge reported a runtime error
	judge := newFakeJudge(func(call int, req domain.JudgeRequest) script {
		outcome := failedOutcome(11, "Runtime Error (NZEC)")
		outcome.Stdout = "42"
		outcome.Stderr = "Traceback (most recent call last)"
		return script{outcome: outcome}
	})
	svc := newService(judge, testConfig())

	verdict, err := svc.Grade(context.Background(), &domain.GradeRequest{
		Code:      "print(42); exit(1)",
		Language:  "python",
		TestCases: []domain.TestCase{{ExpectedOutput: "42"}},
	})

	require.NoError(t, err)
	assert.False(t, verdict.Results[0].Passed)
	assert.Equal(t, "Traceback (most recent call last)", verdict.Results[0].Error)
}

func TestGradePollTimeoutIsDistinct(t *testing.T) {
	judge := newFakeJudge(func(call int, req domain.JudgeRequest) script {
		return script{pending: 1000}
	})
	cfg := testConfig()
	svc := newService(judge, cfg)

	verdict, err := svc.Grade(context.Background(), &domain.GradeRequest{
		Code:      "while True: pass",
		Language:  "python",
		TestCases: []domain.TestCase{{ExpectedOutput: "1"}},
	})

	require.NoError(t, err)
	assert.Equal(t, cfg.MaxPollAttempts, judge.fetchCount())
	result := verdict.Results[0]
	assert.False(t, result.Passed)
	assert.Equal(t, domain.ErrorKindTimeout, result.ErrorKind)
	assert.Contains(t, result.Error, errs.ErrPollTimeout.Error())
}

func TestGradeSimpleModeTimeout(t *testing.T) {
	judge := newFakeJudge(func(call int, req domain.JudgeRequest) script {
		return script{pending: 1000}
	})
	svc := newService(judge, testConfig())

	verdict, err := svc.Grade(context.Background(), &domain.GradeRequest{
		Code:     "while True: pass",
		Language: "python",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusRuntimeError, verdict.OverallStatus)
	assert.Equal(t, domain.ErrorKindTimeout, verdict.Results[0].ErrorKind)
	assert.Equal(t, 0, verdict.Score)
}

func TestGradeKeepsInputOrder(t *testing.T) {
	for _, concurrency := range []int{1, 4} {
		t.Run(fmt.Sprintf("concurrency=%d", concurrency), func(t *testing.T) {
			// later cases finish first
			judge := newFakeJudge(func(call int, req domain.JudgeRequest) script {
				n := len(req.Stdin)
				return script{pending: 10 - n, outcome: accepted(req.Stdin)}
			})
			cfg := testConfig()
			cfg.Concurrency = concurrency
			svc := newService(judge, cfg)

			testCases := make([]domain.TestCase, 8)
			for i := range testCases {
				in := strings.Repeat("x", i+1)
				testCases[i] = domain.TestCase{Input: in, ExpectedOutput: in}
			}

			verdict, err := svc.Grade(context.Background(), &domain.GradeRequest{
				Code:      "print(input())",
				Language:  "python",
				TestCases: testCases,
			})

			require.NoError(t, err)
			require.Len(t, verdict.Results, len(testCases))
			for i, result := range verdict.Results {
				assert.Equal(t, i, result.Index)
				assert.Equal(t, testCases[i].Input, result.Input)
				assert.True(t, result.Passed)
			}
			assert.Equal(t, domain.StatusAccepted, verdict.OverallStatus)
			assert.Equal(t, 80, verdict.Score)
		})
	}
}

func TestGradeIsolatesTransportFailure(t *testing.T) {
	judge := newFakeJudge(func(call int, req domain.JudgeRequest) script {
		if req.Stdin == "2" {
			return script{submitErr: fmt.Errorf("%w: connection reset", errs.ErrJudgeTransport)}
		}
		if req.Stdin == "3" {
			return script{fetchErr: fmt.Errorf("%w: bad json", errs.ErrMalformedResult)}
		}
		return script{outcome: accepted(req.Stdin)}
	})
	svc := newService(judge, testConfig())

	testCases := []domain.TestCase{
		{Input: "0", ExpectedOutput: "0"},
		{Input: "1", ExpectedOutput: "1"},
		{Input: "2", ExpectedOutput: "2"},
		{Input: "3", ExpectedOutput: "3"},
		{Input: "4", ExpectedOutput: "4"},
	}
	verdict, err := svc.Grade(context.Background(), &domain.GradeRequest{
		Code:      "print(input())",
		Language:  "python",
		TestCases: testCases,
	})

	require.NoError(t, err)
	require.Len(t, verdict.Results, 5)
	assert.Equal(t, 5, judge.submitCount())
	for i, result := range verdict.Results {
		if i == 2 || i == 3 {
			assert.False(t, result.Passed)
			assert.Equal(t, domain.ErrorKindTransport, result.ErrorKind)
			continue
		}
		assert.True(t, result.Passed, "case %d", i)
	}
	assert.Contains(t, verdict.Results[2].Error, "connection reset")
	assert.Equal(t, 3, verdict.PassedTestCases)
	assert.Equal(t, 30, verdict.Score)
	assert.Equal(t, domain.StatusWrongAnswer, verdict.OverallStatus)
}

func TestGradeAbortsOnConfigurationError(t *testing.T) {
	judge := newFakeJudge(func(call int, req domain.JudgeRequest) script {
		if call == 1 {
			return script{submitErr: errs.ErrInvalidCredentials}
		}
		return script{outcome: accepted(req.Stdin)}
	})
	svc := newService(judge, testConfig())

	verdict, err := svc.Grade(context.Background(), &domain.GradeRequest{
		Code:     "print(input())",
		Language: "python",
		TestCases: []domain.TestCase{
			{Input: "a", ExpectedOutput: "a"},
			{Input: "b", ExpectedOutput: "b"},
			{Input: "c", ExpectedOutput: "c"},
		},
	})

	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	assert.Nil(t, verdict)
	assert.Equal(t, 2, judge.submitCount())
}

func TestGradeConcurrentAbortStopsQueuedCases(t *testing.T) {
	judge := newFakeJudge(func(call int, req domain.JudgeRequest) script {
		return script{submitErr: errs.ErrInvalidCredentials}
	})
	cfg := testConfig()
	cfg.Concurrency = 2
	svc := newService(judge, cfg)

	testCases := make([]domain.TestCase, 6)
	for i := range testCases {
		testCases[i] = domain.TestCase{Input: fmt.Sprint(i), ExpectedOutput: fmt.Sprint(i)}
	}
	verdict, err := svc.Grade(context.Background(), &domain.GradeRequest{
		Code:      "print(input())",
		Language:  "python",
		TestCases: testCases,
	})

	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	assert.Nil(t, verdict)
	// only the cases already running when the first one failed reach the judge
	assert.LessOrEqual(t, judge.submitCount(), cfg.Concurrency)
}

func TestGradeMissingCredentialsInSimpleMode(t *testing.T) {
	judge := newFakeJudge(func(call int, req domain.JudgeRequest) script {
		return script{submitErr: errs.ErrMissingCredentials}
	})
	svc := newService(judge, testConfig())

	_, err := svc.Grade(context.Background(), &domain.GradeRequest{Code: "print(1)", Language: "python"})

	require.ErrorIs(t, err, errs.ErrMissingCredentials)
}

func TestGradeUnsupportedLanguageMakesNoCalls(t *testing.T) {
	judge := echoJudge()
	svc := newService(judge, testConfig())

	_, err := svc.Grade(context.Background(), &domain.GradeRequest{
		Code:      "+[]",
		Language:  "brainfuck",
		TestCases: []domain.TestCase{{Input: "1", ExpectedOutput: "1"}},
	})

	require.ErrorIs(t, err, errs.ErrUnsupportedLanguage)
	assert.Equal(t, 0, judge.submitCount())
}

func TestGradeRejectsInvalidRequests(t *testing.T) {
	svc := newService(echoJudge(), testConfig())

	_, err := svc.Grade(context.Background(), &domain.GradeRequest{Code: "  \n", Language: "python"})
	require.ErrorIs(t, err, errs.ErrEmptySource)

	_, err = svc.Grade(context.Background(), &domain.GradeRequest{Code: "print(1)", Language: "python", MemoryLimit: -1})
	require.ErrorIs(t, err, errs.ErrInvalidLimits)
}

func TestGradeScoreSumsDeclaredPoints(t *testing.T) {
	judge := echoJudge()
	svc := newService(judge, testConfig())

	verdict, err := svc.Grade(context.Background(), &domain.GradeRequest{
		Code:     "print(input())",
		Language: "python",
		TestCases: []domain.TestCase{
			{Input: "a", ExpectedOutput: "a", Points: points(25)},
			{Input: "b", ExpectedOutput: "x", Points: points(50)},
			{Input: "c", ExpectedOutput: "c"},
			{Input: "d", ExpectedOutput: "d", Points: points(0)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 3, verdict.PassedTestCases)
	assert.Equal(t, 35, verdict.Score)
	assert.Equal(t, domain.StatusWrongAnswer, verdict.OverallStatus)
}

func TestGradeForwardsSubmissionToJudge(t *testing.T) {
	judge := echoJudge()
	svc := newService(judge, testConfig())
	id := uuid.New()

	verdict, err := svc.Grade(context.Background(), &domain.GradeRequest{
		SubmissionID: id,
		Code:         "print(input())",
		Language:     "cpp",
		MemoryLimit:  64000,
		TestCases:    []domain.TestCase{{Input: "7", ExpectedOutput: "7"}},
	})

	require.NoError(t, err)
	assert.Equal(t, id, verdict.SubmissionID)
	require.Len(t, judge.submits, 1)
	req := judge.submits[0]
	assert.Equal(t, domain.LanguageID(54), req.LanguageID)
	assert.Equal(t, "7", req.Stdin)
	assert.Nil(t, req.ExpectedOutput)
	assert.InDelta(t, 2.0, req.Limits.CPUTimeLimit, 1e-9)
	assert.Equal(t, 64000, req.Limits.MemoryLimit)
	assert.False(t, verdict.FinishedAt.Before(verdict.StartedAt))
}

func TestGradeSimpleMode(t *testing.T) {
	tests := []struct {
		name       string
		outcome    domain.ExecutionOutcome
		wantStatus domain.OverallStatus
		wantScore  int
	}{
		{name: "accepted", outcome: accepted("Hello"), wantStatus: domain.StatusAccepted, wantScore: 10},
		{name: "judge wrong answer", outcome: failedOutcome(domain.StatusIDWrongAnswer, "Wrong Answer"), wantStatus: domain.StatusRuntimeError, wantScore: 0},
		{name: "time limit", outcome: failedOutcome(domain.StatusIDTimeLimitExceeded, "Time Limit Exceeded"), wantStatus: domain.StatusRuntimeError, wantScore: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			judge := newFakeJudge(func(call int, req domain.JudgeRequest) script {
				return script{pending: 2, outcome: tt.outcome}
			})
			svc := newService(judge, testConfig())

			verdict, err := svc.Grade(context.Background(), &domain.GradeRequest{
				Code:           `print("Hello")`,
				Language:       "python",
				ExpectedOutput: strPtr("Hello\n"),
			})

			require.NoError(t, err)
			assert.Equal(t, domain.ModeSimple, verdict.Mode)
			assert.Equal(t, tt.wantStatus, verdict.OverallStatus)
			assert.Equal(t, tt.wantScore, verdict.Score)
			assert.Equal(t, 1, verdict.TotalTestCases)
			require.Len(t, judge.submits, 1)
			assert.Equal(t, "", judge.submits[0].Stdin)
			require.NotNil(t, judge.submits[0].ExpectedOutput)
			assert.Equal(t, "Hello\n", *judge.submits[0].ExpectedOutput)
			assert.Equal(t, 3, judge.fetchCount())
		})
	}
}

func TestGradeSimpleModeTransportFailure(t *testing.T) {
	judge := newFakeJudge(func(call int, req domain.JudgeRequest) script {
		return script{submitErr: fmt.Errorf("%w: 502 Bad Gateway", errs.ErrJudgeTransport)}
	})
	svc := newService(judge, testConfig())

	verdict, err := svc.Grade(context.Background(), &domain.GradeRequest{Code: "print(1)", Language: "python"})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusRuntimeError, verdict.OverallStatus)
	assert.Equal(t, domain.ErrorKindTransport, verdict.Results[0].ErrorKind)
}

func TestGradeRetriesSubmitTransportFailure(t *testing.T) {
	judge := newFakeJudge(func(call int, req domain.JudgeRequest) script {
		if call == 0 {
			return script{submitErr: fmt.Errorf("%w: timeout", errs.ErrJudgeTransport)}
		}
		return script{outcome: accepted("ok")}
	})
	cfg := testConfig()
	cfg.SubmitRetries = 1
	svc := newService(judge, cfg)

	verdict, err := svc.Grade(context.Background(), &domain.GradeRequest{
		Code:      `print("ok")`,
		Language:  "python",
		TestCases: []domain.TestCase{{ExpectedOutput: "ok"}},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, judge.submitCount())
	assert.True(t, verdict.Results[0].Passed)
}

func TestGradeCancellationStopsPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	judge := newFakeJudge(func(call int, req domain.JudgeRequest) script {
		return script{pending: 1000}
	})
	judge.onFetch = cancel
	cfg := testConfig()
	cfg.PollInterval = time.Hour
	svc := newService(judge, cfg)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Grade(ctx, &domain.GradeRequest{
			Code:      "while True: pass",
			Language:  "python",
			TestCases: []domain.TestCase{{ExpectedOutput: "1"}, {ExpectedOutput: "2"}},
		})
		done <- err
	}()

	select {
	case err := <-done:
		require.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("grading did not stop after cancellation")
	}
	assert.Equal(t, 1, judge.submitCount())
}

func TestWorstCaseLatency(t *testing.T) {
	cfg := testConfig()
	cfg.PollInterval = time.Second
	cfg.MaxPollAttempts = 30
	svc := newService(echoJudge(), cfg)

	assert.Equal(t, 30*time.Second, svc.WorstCaseLatency(0))
	assert.Equal(t, 150*time.Second, svc.WorstCaseLatency(5))

	cfg.Concurrency = 2
	svc = newService(echoJudge(), cfg)
	assert.Equal(t, 90*time.Second, svc.WorstCaseLatency(5))
}
