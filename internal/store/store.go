// Package store persists per-question tone scores and per-call
// summaries. Writes are append-only: every processed transcript gets a
// fresh run id and never touches rows from a prior run.
package store

import (
	"context"

	"github.com/sells-group/tone-cli/internal/model"
)

// SummaryFilter specifies criteria for listing call summaries.
type SummaryFilter struct {
	Ticker string `json:"ticker,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for the tone pipeline.
type Store interface {
	// SaveCallResult writes one call's question rows and its summary in
	// a single transaction: either everything lands or nothing does.
	SaveCallResult(ctx context.Context, rows []model.QuestionRow, summary *model.CallSummary) error

	// ListSummaries returns stored call summaries, newest first.
	ListSummaries(ctx context.Context, filter SummaryFilter) ([]model.CallSummary, error)

	// ListQuestions returns the question rows written under one run id,
	// in question order.
	ListQuestions(ctx context.Context, runID string) ([]model.QuestionRow, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
