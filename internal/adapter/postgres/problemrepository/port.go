package problemrepository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/fcv-2025.net/grader/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/grader/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/grader/internal/domain"
	"gitlab.com/fcv-2025.net/grader/internal/static/errs"
)

var _ secondary.ProblemRepository = (*ProblemRepository)(nil)

type testCaseRow struct {
	Input          string        `db:"input"`
	ExpectedOutput string        `db:"expected_output"`
	Points         sql.NullInt64 `db:"points"`
}

// ProblemRepository reads the stored test cases of a problem
type ProblemRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

func NewProblemRepository(db *sqlx.DB, logger primary.Logger) *ProblemRepository {
	return &ProblemRepository{
		db:     db,
		logger: logger,
	}
}

// GetTestCases returns errs.ErrNotFound when the problem has no test cases
func (r *ProblemRepository) GetTestCases(ctx context.Context, problemID string) ([]domain.TestCase, error) {
	var rows []testCaseRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT input, expected_output, points
		FROM problem_test_cases
		WHERE problem_id = $1
		ORDER BY position ASC
	`, problemID)
	if err != nil {
		r.logger.Error("Failed to get test cases", "problemId", problemID, "error", err)
		return nil, fmt.Errorf("failed to get test cases: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("problem %s: %w", problemID, errs.ErrNotFound)
	}

	testCases := make([]domain.TestCase, 0, len(rows))
	for _, row := range rows {
		tc := domain.TestCase{Input: row.Input, ExpectedOutput: row.ExpectedOutput}
		if row.Points.Valid {
			points := int(row.Points.Int64)
			tc.Points = &points
		}
		testCases = append(testCases, tc)
	}
	return testCases, nil
}
