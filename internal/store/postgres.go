package store

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/tone-cli/internal/db"
	"github.com/sells-group/tone-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS questions (
	run_id           TEXT NOT NULL,
	ticker           TEXT NOT NULL,
	call_date        TEXT NOT NULL,
	question_id      TEXT NOT NULL,
	question_text    TEXT,
	label            TEXT NOT NULL,
	tone_score       DOUBLE PRECISION NOT NULL,
	praise_score     DOUBLE PRECISION NOT NULL,
	skeptic_score    DOUBLE PRECISION NOT NULL,
	neutrality_score DOUBLE PRECISION NOT NULL,
	disagreement     SMALLINT NOT NULL,
	inserted_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS company_summary (
	run_id                  TEXT NOT NULL,
	ticker                  TEXT NOT NULL,
	call_date               TEXT NOT NULL,
	support_ratio           DOUBLE PRECISION NOT NULL,
	skeptic_ratio           DOUBLE PRECISION NOT NULL,
	neutral_ratio           DOUBLE PRECISION NOT NULL,
	tone_index              DOUBLE PRECISION NOT NULL,
	num_questions           INTEGER NOT NULL,
	high_disagreement_ratio DOUBLE PRECISION NOT NULL,
	created_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_questions_run_id ON questions(run_id);
CREATE INDEX IF NOT EXISTS idx_questions_ticker ON questions(ticker, call_date);
CREATE INDEX IF NOT EXISTS idx_company_summary_ticker ON company_summary(ticker, call_date);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveCallResult(ctx context.Context, rows []model.QuestionRow, summary *model.CallSummary) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx)

	if len(rows) > 0 {
		source := make([][]any, len(rows))
		for i, r := range rows {
			source[i] = []any{
				r.RunID, r.Ticker, r.CallDate, r.QuestionID, r.QuestionText,
				string(r.Label), r.ToneScore, r.PraiseScore, r.SkepticScore,
				r.NeutralityScore, boolToInt(r.Disagreement),
			}
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"questions"},
			[]string{"run_id", "ticker", "call_date", "question_id", "question_text",
				"label", "tone_score", "praise_score", "skeptic_score",
				"neutrality_score", "disagreement"},
			pgx.CopyFromRows(source),
		)
		if err != nil {
			return eris.Wrap(err, "postgres: copy questions")
		}
	}

	if summary != nil {
		_, err = tx.Exec(ctx,
			`INSERT INTO company_summary
				(run_id, ticker, call_date, support_ratio, skeptic_ratio,
				 neutral_ratio, tone_index, num_questions, high_disagreement_ratio)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			summary.RunID, summary.Ticker, summary.CallDate,
			summary.SupportRatio, summary.SkepticRatio, summary.NeutralRatio,
			summary.ToneIndex, summary.NumQuestions, summary.HighDisagreementRatio,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert summary for run %s", summary.RunID)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit call result")
}

func (s *PostgresStore) ListSummaries(ctx context.Context, filter SummaryFilter) ([]model.CallSummary, error) {
	query := `SELECT run_id, ticker, call_date, support_ratio, skeptic_ratio,
		 neutral_ratio, tone_index, num_questions, high_disagreement_ratio
	 FROM company_summary WHERE 1=1`
	var args []any

	if filter.Ticker != "" {
		args = append(args, filter.Ticker)
		query += ` AND ticker = $1`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list summaries")
	}
	defer rows.Close()

	var summaries []model.CallSummary
	for rows.Next() {
		var cs model.CallSummary
		if err := rows.Scan(&cs.RunID, &cs.Ticker, &cs.CallDate, &cs.SupportRatio,
			&cs.SkepticRatio, &cs.NeutralRatio, &cs.ToneIndex,
			&cs.NumQuestions, &cs.HighDisagreementRatio); err != nil {
			return nil, eris.Wrap(err, "postgres: scan summary")
		}
		summaries = append(summaries, cs)
	}
	return summaries, eris.Wrap(rows.Err(), "postgres: list summaries iterate")
}

func (s *PostgresStore) ListQuestions(ctx context.Context, runID string) ([]model.QuestionRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT run_id, ticker, call_date, question_id, question_text,
			label, tone_score, praise_score, skeptic_score,
			neutrality_score, disagreement
		 FROM questions WHERE run_id = $1 ORDER BY inserted_at, question_id`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list questions for run %s", runID)
	}
	defer rows.Close()

	var out []model.QuestionRow
	for rows.Next() {
		var r model.QuestionRow
		var label string
		var disagreement int
		if err := rows.Scan(&r.RunID, &r.Ticker, &r.CallDate, &r.QuestionID,
			&r.QuestionText, &label, &r.ToneScore, &r.PraiseScore,
			&r.SkepticScore, &r.NeutralityScore, &disagreement); err != nil {
			return nil, eris.Wrap(err, "postgres: scan question")
		}
		r.Label = model.Label(label)
		r.Disagreement = disagreement != 0
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list questions iterate")
}
