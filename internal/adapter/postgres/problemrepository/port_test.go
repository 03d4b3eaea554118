package problemrepository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fcv-2025.net/grader/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/grader/internal/adapter/postgres/problemrepository"
	"gitlab.com/fcv-2025.net/grader/internal/static/errs"
)

func TestGetTestCases(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := problemrepository.NewProblemRepository(sqlx.NewDb(db, "postgres"), logging.NewNopLogger())

	mock.ExpectQuery("SELECT (.+) FROM problem_test_cases").
		WithArgs("sum-two").
		WillReturnRows(sqlmock.NewRows([]string{"input", "expected_output", "points"}).
			AddRow("1 2", "3", 25).
			AddRow("2 2", "4", nil))

	testCases, err := repo.GetTestCases(context.Background(), "sum-two")

	require.NoError(t, err)
	require.Len(t, testCases, 2)
	require.NotNil(t, testCases[0].Points)
	assert.Equal(t, 25, *testCases[0].Points)
	assert.Nil(t, testCases[1].Points)
	assert.Equal(t, 10, testCases[1].PointsOrDefault())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTestCasesUnknownProblem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := problemrepository.NewProblemRepository(sqlx.NewDb(db, "postgres"), logging.NewNopLogger())

	mock.ExpectQuery("SELECT (.+) FROM problem_test_cases").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"input", "expected_output", "points"}))

	_, err = repo.GetTestCases(context.Background(), "nope")

	require.ErrorIs(t, err, errs.ErrNotFound)
}
