package grading

import (
	"errors"
	"strings"

	"gitlab.com/fcv-2025.net/grader/internal/domain"
	"gitlab.com/fcv-2025.net/grader/internal/static/errs"
)

// Comparator decides whether program output answers a test case. ExactTrimmed
// is the only comparator; per-problem checkers would plug in here.
type Comparator interface {
	Match(actual, expected string) bool
}

// ExactTrimmed compares byte for byte after trimming surrounding whitespace
type ExactTrimmed struct{}

func (ExactTrimmed) Match(actual, expected string) bool {
	return strings.TrimSpace(actual) == strings.TrimSpace(expected)
}

// Evaluate turns a terminal outcome into the result of test case index
func Evaluate(index int, outcome domain.ExecutionOutcome, tc domain.TestCase, cmp Comparator) domain.TestCaseResult {
	result := domain.TestCaseResult{
		Index:          index,
		Input:          tc.Input,
		ExpectedOutput: tc.ExpectedOutput,
		ActualOutput:   outcome.Stdout,
		Time:           outcome.TimeSeconds,
		Memory:         outcome.MemoryKB,
	}

	if !outcome.IsTerminal() {
		result.Error = "judge returned a non-terminal status: " + outcome.Description
		result.ErrorKind = domain.ErrorKindJudge
		return result
	}

	if !outcome.Accepted() {
		result.Error = outcome.Diagnostics()
		result.ErrorKind = domain.ErrorKindJudge
		return result
	}

	result.Passed = cmp.Match(outcome.Stdout, tc.ExpectedOutput)
	return result
}

// failedResult records a run that never produced an outcome
func failedResult(index int, tc domain.TestCase, err error) domain.TestCaseResult {
	return domain.TestCaseResult{
		Index:          index,
		Input:          tc.Input,
		ExpectedOutput: tc.ExpectedOutput,
		Error:          err.Error(),
		ErrorKind:      classify(err),
	}
}

func classify(err error) domain.ErrorKind {
	if errors.Is(err, errs.ErrPollTimeout) {
		return domain.ErrorKindTimeout
	}
	return domain.ErrorKindTransport
}
