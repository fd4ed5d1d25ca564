// Package pipeline turns one earnings-call transcript into persisted
// tone rows: load and validate, segment into Q&A units, score through
// the committee, summarize, and hand off to the store. Each transcript
// is processed in isolation under a fresh run id, so independent
// pipeline instances can run concurrently with no coordination.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tone-cli/internal/model"
	"github.com/sells-group/tone-cli/internal/store"
)

// Scorer scores one call's Q&A units. The committee implements it; tests
// substitute a scripted fake so the pipeline never touches the network.
type Scorer interface {
	Score(ctx context.Context, units []model.QAUnit) ([]model.QuestionResult, error)
}

// Result is the outcome of processing one transcript.
type Result struct {
	RunID        string             `json:"run_id"`
	Ticker       string             `json:"ticker"`
	CallDate     string             `json:"call_date"`
	NumQuestions int                `json:"num_questions"`
	Summary      *model.CallSummary `json:"summary,omitempty"`
}

// Pipeline wires the segmentation core to its two collaborators.
type Pipeline struct {
	scorer Scorer
	store  store.Store
}

// New creates a Pipeline.
func New(scorer Scorer, st store.Store) *Pipeline {
	return &Pipeline{scorer: scorer, store: st}
}

// ProcessFile runs the end-to-end pipeline for one transcript file.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*Result, error) {
	t, err := LoadTranscript(path)
	if err != nil {
		return nil, err
	}
	return p.Process(ctx, t)
}

// Process scores one validated transcript and persists the results.
// A transcript with no extractable Q&A is a recognized terminal outcome:
// the committee is never invoked and nothing is written. If scoring or
// persistence fails, no rows land for the call; the caller decides
// whether to retry the whole transcript.
func (p *Pipeline) Process(ctx context.Context, t *model.Transcript) (*Result, error) {
	runID := uuid.New().String()

	units := Segment(t)
	if len(units) == 0 {
		zap.L().Warn("pipeline: no Q&A units extracted, skipping call",
			zap.String("ticker", t.Ticker),
			zap.String("call_date", t.CallDate),
		)
		return &Result{RunID: runID, Ticker: t.Ticker, CallDate: t.CallDate}, nil
	}

	zap.L().Info("pipeline: questions extracted",
		zap.String("ticker", t.Ticker),
		zap.String("call_date", t.CallDate),
		zap.Int("questions", len(units)),
	)

	results, err := p.scorer.Score(ctx, units)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: score %s %s", t.Ticker, t.CallDate)
	}

	questionText := make(map[string]string, len(units))
	for _, u := range units {
		questionText[u.ID] = u.QuestionText
	}

	rows := make([]model.QuestionRow, len(results))
	for i, r := range results {
		rows[i] = model.QuestionRow{
			RunID:           runID,
			Ticker:          t.Ticker,
			CallDate:        t.CallDate,
			QuestionID:      r.ID,
			QuestionText:    questionText[r.ID],
			Label:           r.Final.Label,
			ToneScore:       r.Final.ToneScore,
			PraiseScore:     r.Praise.Score,
			SkepticScore:    r.Skeptic.Score,
			NeutralityScore: r.Neutral.Score,
			Disagreement:    r.Final.Disagreement,
		}
	}

	summary := Summarize(runID, t.Ticker, t.CallDate, results)

	if err := p.store.SaveCallResult(ctx, rows, summary); err != nil {
		return nil, eris.Wrapf(err, "pipeline: persist %s %s", t.Ticker, t.CallDate)
	}

	zap.L().Info("pipeline: call processed",
		zap.String("run_id", runID),
		zap.String("ticker", t.Ticker),
		zap.String("call_date", t.CallDate),
		zap.Int("questions", len(results)),
	)

	return &Result{
		RunID:        runID,
		Ticker:       t.Ticker,
		CallDate:     t.CallDate,
		NumQuestions: len(results),
		Summary:      summary,
	}, nil
}
