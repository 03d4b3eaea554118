// Package verdictrepository stores grading verdicts in PostgreSQL
package verdictrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/fcv-2025.net/grader/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/grader/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

var _ secondary.VerdictRepository = (*VerdictRepository)(nil)

type gradingRow struct {
	SubmissionID    uuid.UUID `db:"submission_id"`
	Language        string    `db:"language"`
	Mode            string    `db:"mode"`
	TotalTestCases  int       `db:"total_test_cases"`
	PassedTestCases int       `db:"passed_test_cases"`
	Score           int       `db:"score"`
	OverallStatus   string    `db:"overall_status"`
	StartedAt       time.Time `db:"started_at"`
	FinishedAt      time.Time `db:"finished_at"`
}

type resultRow struct {
	Index          int     `db:"idx"`
	Input          string  `db:"input"`
	ExpectedOutput string  `db:"expected_output"`
	ActualOutput   string  `db:"actual_output"`
	Passed         bool    `db:"passed"`
	TimeSeconds    float64 `db:"time_seconds"`
	MemoryKB       int64   `db:"memory_kb"`
	Error          string  `db:"error"`
	ErrorKind      string  `db:"error_kind"`
}

// VerdictRepository implements secondary.VerdictRepository with PostgreSQL
type VerdictRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewVerdictRepository creates a new PostgreSQL verdict repository
func NewVerdictRepository(db *sqlx.DB, logger primary.Logger) *VerdictRepository {
	return &VerdictRepository{
		db:     db,
		logger: logger,
	}
}

// SaveVerdict writes the verdict and replaces its per test case results in one transaction
func (r *VerdictRepository) SaveVerdict(ctx context.Context, verdict *domain.GradingVerdict) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // ignored after commit

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO gradings (
			submission_id, language, mode, total_test_cases, passed_test_cases,
			score, overall_status, started_at, finished_at
		) VALUES (
			:submission_id, :language, :mode, :total_test_cases, :passed_test_cases,
			:score, :overall_status, :started_at, :finished_at
		)
		ON CONFLICT (submission_id) DO UPDATE SET
			language = EXCLUDED.language,
			mode = EXCLUDED.mode,
			total_test_cases = EXCLUDED.total_test_cases,
			passed_test_cases = EXCLUDED.passed_test_cases,
			score = EXCLUDED.score,
			overall_status = EXCLUDED.overall_status,
			started_at = EXCLUDED.started_at,
			finished_at = EXCLUDED.finished_at
	`, gradingRow{
		SubmissionID:    verdict.SubmissionID,
		Language:        verdict.Language,
		Mode:            string(verdict.Mode),
		TotalTestCases:  verdict.TotalTestCases,
		PassedTestCases: verdict.PassedTestCases,
		Score:           verdict.Score,
		OverallStatus:   string(verdict.OverallStatus),
		StartedAt:       verdict.StartedAt,
		FinishedAt:      verdict.FinishedAt,
	})
	if err != nil {
		r.logger.Error("Failed to save grading", "submissionId", verdict.SubmissionID, "error", err)
		return fmt.Errorf("failed to save grading: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM grading_results WHERE submission_id = $1`, verdict.SubmissionID); err != nil {
		r.logger.Error("Failed to clear grading results", "submissionId", verdict.SubmissionID, "error", err)
		return fmt.Errorf("failed to clear grading results: %w", err)
	}

	query := `
		INSERT INTO grading_results (
			submission_id, idx, input, expected_output, actual_output,
			passed, time_seconds, memory_kb, error, error_kind
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for _, result := range verdict.Results {
		// program text goes to bytea columns since output may hold NUL or invalid UTF-8
		_, err := tx.ExecContext(ctx, query,
			verdict.SubmissionID,
			result.Index,
			[]byte(result.Input),
			[]byte(result.ExpectedOutput),
			[]byte(result.ActualOutput),
			result.Passed,
			result.Time,
			result.Memory,
			[]byte(result.Error),
			string(result.ErrorKind),
		)
		if err != nil {
			r.logger.Error("Failed to save grading result", "submissionId", verdict.SubmissionID, "index", result.Index, "error", err)
			return fmt.Errorf("failed to save grading result %d: %w", result.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit transaction", "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetVerdict returns nil, nil when no verdict was stored for submissionID
func (r *VerdictRepository) GetVerdict(ctx context.Context, submissionID uuid.UUID) (*domain.GradingVerdict, error) {
	var row gradingRow
	err := r.db.GetContext(ctx, &row, `
		SELECT submission_id, language, mode, total_test_cases, passed_test_cases,
			   score, overall_status, started_at, finished_at
		FROM gradings
		WHERE submission_id = $1
	`, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get grading", "submissionId", submissionID, "error", err)
		return nil, fmt.Errorf("failed to get grading: %w", err)
	}

	var rows []resultRow
	err = r.db.SelectContext(ctx, &rows, `
		SELECT idx, input, expected_output, actual_output, passed,
			   time_seconds, memory_kb, error, error_kind
		FROM grading_results
		WHERE submission_id = $1
		ORDER BY idx ASC
	`, submissionID)
	if err != nil {
		r.logger.Error("Failed to get grading results", "submissionId", submissionID, "error", err)
		return nil, fmt.Errorf("failed to get grading results: %w", err)
	}

	verdict := &domain.GradingVerdict{
		SubmissionID:    row.SubmissionID,
		Language:        row.Language,
		Mode:            domain.GradingMode(row.Mode),
		TotalTestCases:  row.TotalTestCases,
		PassedTestCases: row.PassedTestCases,
		Score:           row.Score,
		OverallStatus:   domain.OverallStatus(row.OverallStatus),
		StartedAt:       row.StartedAt,
		FinishedAt:      row.FinishedAt,
		Results:         make([]domain.TestCaseResult, 0, len(rows)),
	}
	for _, rr := range rows {
		verdict.Results = append(verdict.Results, domain.TestCaseResult{
			Index:          rr.Index,
			Input:          rr.Input,
			ExpectedOutput: rr.ExpectedOutput,
			ActualOutput:   rr.ActualOutput,
			Passed:         rr.Passed,
			Time:           rr.TimeSeconds,
			Memory:         rr.MemoryKB,
			Error:          rr.Error,
			ErrorKind:      domain.ErrorKind(rr.ErrorKind),
		})
	}
	return verdict, nil
}
