package store

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/tone-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS questions (
	run_id           TEXT NOT NULL,
	ticker           TEXT NOT NULL,
	call_date        TEXT NOT NULL,
	question_id      TEXT NOT NULL,
	question_text    TEXT,
	label            TEXT NOT NULL,
	tone_score       REAL NOT NULL,
	praise_score     REAL NOT NULL,
	skeptic_score    REAL NOT NULL,
	neutrality_score REAL NOT NULL,
	disagreement     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS company_summary (
	run_id                  TEXT NOT NULL,
	ticker                  TEXT NOT NULL,
	call_date               TEXT NOT NULL,
	support_ratio           REAL NOT NULL,
	skeptic_ratio           REAL NOT NULL,
	neutral_ratio           REAL NOT NULL,
	tone_index              REAL NOT NULL,
	num_questions           INTEGER NOT NULL,
	high_disagreement_ratio REAL NOT NULL,
	created_at              DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_questions_run_id ON questions(run_id);
CREATE INDEX IF NOT EXISTS idx_questions_ticker ON questions(ticker, call_date);
CREATE INDEX IF NOT EXISTS idx_company_summary_ticker ON company_summary(ticker, call_date);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveCallResult(ctx context.Context, rows []model.QuestionRow, summary *model.CallSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	for _, r := range rows {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO questions
				(run_id, ticker, call_date, question_id, question_text,
				 label, tone_score, praise_score, skeptic_score,
				 neutrality_score, disagreement)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.RunID, r.Ticker, r.CallDate, r.QuestionID, r.QuestionText,
			string(r.Label), r.ToneScore, r.PraiseScore, r.SkepticScore,
			r.NeutralityScore, boolToInt(r.Disagreement),
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert question %s", r.QuestionID)
		}
	}

	if summary != nil {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO company_summary
				(run_id, ticker, call_date, support_ratio, skeptic_ratio,
				 neutral_ratio, tone_index, num_questions, high_disagreement_ratio)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			summary.RunID, summary.Ticker, summary.CallDate,
			summary.SupportRatio, summary.SkepticRatio, summary.NeutralRatio,
			summary.ToneIndex, summary.NumQuestions, summary.HighDisagreementRatio,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert summary for run %s", summary.RunID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit call result")
}

func (s *SQLiteStore) ListSummaries(ctx context.Context, filter SummaryFilter) ([]model.CallSummary, error) {
	query := `SELECT run_id, ticker, call_date, support_ratio, skeptic_ratio,
		 neutral_ratio, tone_index, num_questions, high_disagreement_ratio
	 FROM company_summary WHERE 1=1`
	var args []any

	if filter.Ticker != "" {
		query += ` AND ticker = ?`
		args = append(args, filter.Ticker)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list summaries")
	}
	defer rows.Close()

	var summaries []model.CallSummary
	for rows.Next() {
		var cs model.CallSummary
		if err := rows.Scan(&cs.RunID, &cs.Ticker, &cs.CallDate, &cs.SupportRatio,
			&cs.SkepticRatio, &cs.NeutralRatio, &cs.ToneIndex,
			&cs.NumQuestions, &cs.HighDisagreementRatio); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan summary")
		}
		summaries = append(summaries, cs)
	}
	return summaries, eris.Wrap(rows.Err(), "sqlite: list summaries iterate")
}

func (s *SQLiteStore) ListQuestions(ctx context.Context, runID string) ([]model.QuestionRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, ticker, call_date, question_id, question_text,
			label, tone_score, praise_score, skeptic_score,
			neutrality_score, disagreement
		 FROM questions WHERE run_id = ? ORDER BY rowid`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list questions for run %s", runID)
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
			return nil, eris.Wrap(err, "sqlite: scan question")
		}
		r.Label = model.Label(label)
		r.Disagreement = disagreement != 0
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list questions iterate")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
