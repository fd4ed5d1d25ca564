package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tone-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

var questionColumns = []string{"run_id", "ticker", "call_date", "question_id", "question_text",
	"label", "tone_score", "praise_score", "skeptic_score",
	"neutrality_score", "disagreement"}

func TestPostgresStore_SaveCallResult(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectCopyFrom(pgx.Identifier{"questions"}, questionColumns).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO company_summary`).
		WithArgs("run-1", "AAPL", "2026-01-29", 0.5, 0.5, 0.0, 0.0, 2, 0.5).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := s.SaveCallResult(context.Background(), sampleRows("run-1"), sampleSummary("run-1"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveCallResult_NilSummary(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectCopyFrom(pgx.Identifier{"questions"}, questionColumns).
		WillReturnResult(2)
	mock.ExpectCommit()

	err := s.SaveCallResult(context.Background(), sampleRows("run-1"), nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveCallResult_CopyFailureRollsBack(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectCopyFrom(pgx.Identifier{"questions"}, questionColumns).
		WillReturnError(errors.New("copy failed"))
	mock.ExpectRollback()

	err := s.SaveCallResult(context.Background(), sampleRows("run-1"), sampleSummary("run-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copy questions")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveCallResult_SummaryFailureRollsBack(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectCopyFrom(pgx.Identifier{"questions"}, questionColumns).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO company_summary`).
		WithArgs("run-1", "AAPL", "2026-01-29", 0.5, 0.5, 0.0, 0.0, 2, 0.5).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := s.SaveCallResult(context.Background(), sampleRows("run-1"), sampleSummary("run-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constraint violation")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListSummaries(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{"run_id", "ticker", "call_date", "support_ratio",
		"skeptic_ratio", "neutral_ratio", "tone_index", "num_questions", "high_disagreement_ratio"}).
		AddRow("run-1", "AAPL", "2026-01-29", 0.5, 0.25, 0.25, 0.25, 4, 0.0)

	mock.ExpectQuery(`FROM company_summary`).
		WithArgs("AAPL", 10).
		WillReturnRows(rows)

	summaries, err := s.ListSummaries(context.Background(), SummaryFilter{Ticker: "AAPL", Limit: 10})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "run-1", summaries[0].RunID)
	assert.Equal(t, 4, summaries[0].NumQuestions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListSummaries_DefaultLimit(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM company_summary`).
		WithArgs(100).
		WillReturnRows(pgxmock.NewRows([]string{"run_id", "ticker", "call_date", "support_ratio",
			"skeptic_ratio", "neutral_ratio", "tone_index", "num_questions", "high_disagreement_ratio"}))

	summaries, err := s.ListSummaries(context.Background(), SummaryFilter{})
	require.NoError(t, err)
	assert.Empty(t, summaries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListQuestions(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows(questionColumns).
		AddRow("run-1", "AAPL", "2026-01-29", "q1", "How durable is growth?",
			"PraiseSupport", 0.8, 0.9, 0.1, 0.2, 0).
		AddRow("run-1", "AAPL", "2026-01-29", "q2", "Why did margins compress?",
			"SkepticismDisappointment", -0.6, 0.2, 0.8, 0.3, 1)

	mock.ExpectQuery(`FROM questions WHERE run_id = \$1`).
		WithArgs("run-1").
		WillReturnRows(rows)

	out, err := s.ListQuestions(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, model.LabelPraiseSupport, out[0].Label)
	assert.False(t, out[0].Disagreement)
	assert.True(t, out[1].Disagreement)
	assert.NoError(t, mock.ExpectationsWereMet())
}
