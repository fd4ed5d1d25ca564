package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tone-cli/internal/model"
)

func resultWithLabel(id string, label model.Label, disagreement bool) model.QuestionResult {
	return model.QuestionResult{
		ID:    id,
		Final: model.Verdict{Label: label, Disagreement: disagreement},
	}
}

func TestSummarize_Empty(t *testing.T) {
	assert.Nil(t, Summarize("run-1", "AAPL", "2026-01-29", nil))
	assert.Nil(t, Summarize("run-1", "AAPL", "2026-01-29", []model.QuestionResult{}))
}

func TestSummarize_Ratios(t *testing.T) {
	results := []model.QuestionResult{
		resultWithLabel("q1", model.LabelPraiseSupport, false),
		resultWithLabel("q2", model.LabelPraiseSupport, true),
		resultWithLabel("q3", model.LabelSkepticismDisappointment, false),
		resultWithLabel("q4", model.LabelNeutral, true),
	}

	s := Summarize("run-1", "AAPL", "2026-01-29", results)
	require.NotNil(t, s)

	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, 4, s.NumQuestions)
	assert.InDelta(t, 0.5, s.SupportRatio, 1e-9)
	assert.InDelta(t, 0.25, s.SkepticRatio, 1e-9)
	assert.InDelta(t, 0.25, s.NeutralRatio, 1e-9)
	assert.InDelta(t, 0.25, s.ToneIndex, 1e-9)
	assert.InDelta(t, 0.5, s.HighDisagreementRatio, 1e-9)
}

func TestSummarize_RatiosSumToOne(t *testing.T) {
	results := []model.QuestionResult{
		resultWithLabel("q1", model.LabelPraiseSupport, false),
		resultWithLabel("q2", model.LabelSkepticismDisappointment, false),
		resultWithLabel("q3", model.LabelSkepticismDisappointment, false),
		resultWithLabel("q4", model.LabelNeutral, false),
		resultWithLabel("q5", model.LabelNeutral, false),
		resultWithLabel("q6", model.LabelPraiseSupport, false),
		resultWithLabel("q7", model.LabelNeutral, false),
	}

	s := Summarize("run-1", "AAPL", "2026-01-29", results)
	require.NotNil(t, s)
	assert.InDelta(t, 1.0, s.SupportRatio+s.SkepticRatio+s.NeutralRatio, 1e-9)
}

func TestSummarize_UnknownLabelCountsAsNeutral(t *testing.T) {
	results := []model.QuestionResult{
		resultWithLabel("q1", model.Label("Bogus"), false),
		resultWithLabel("q2", model.LabelPraiseSupport, false),
	}

	s := Summarize("run-1", "AAPL", "2026-01-29", results)
	require.NotNil(t, s)
	assert.InDelta(t, 0.5, s.NeutralRatio, 1e-9)
	assert.InDelta(t, 1.0, s.SupportRatio+s.SkepticRatio+s.NeutralRatio, 1e-9)
}

func TestSummarize_ToneIndexBounds(t *testing.T) {
	allPraise := []model.QuestionResult{
		resultWithLabel("q1", model.LabelPraiseSupport, false),
		resultWithLabel("q2", model.LabelPraiseSupport, false),
	}
	s := Summarize("run-1", "AAPL", "2026-01-29", allPraise)
	require.NotNil(t, s)
	assert.InDelta(t, 1.0, s.ToneIndex, 1e-9)

	allSkeptic := []model.QuestionResult{
		resultWithLabel("q1", model.LabelSkepticismDisappointment, false),
	}
	s = Summarize("run-1", "AAPL", "2026-01-29", allSkeptic)
	require.NotNil(t, s)
	assert.InDelta(t, -1.0, s.ToneIndex, 1e-9)
}
