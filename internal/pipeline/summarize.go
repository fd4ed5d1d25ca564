package pipeline

import (
	"github.com/sells-group/tone-cli/internal/model"
)

// Summarize folds one call's committee results into a CallSummary.
// The neutral count is derived by subtraction rather than counted
// directly, so any unrecognized label lands in the neutral bucket.
// An empty batch is a legitimate outcome, not an error: nil is returned
// and no summary row should be written.
func Summarize(runID, ticker, callDate string, results []model.QuestionResult) *model.CallSummary {
	n := len(results)
	if n == 0 {
		return nil
	}

	var praise, skeptic, disagree int
	for _, r := range results {
		switch r.Final.Label {
		case model.LabelPraiseSupport:
			praise++
		case model.LabelSkepticismDisappointment:
			skeptic++
		}
		if r.Final.Disagreement {
			disagree++
		}
	}
	neutral := n - praise - skeptic

	total := float64(n)
	supportRatio := float64(praise) / total
	skepticRatio := float64(skeptic) / total

	return &model.CallSummary{
		RunID:                 runID,
		Ticker:                ticker,
		CallDate:              callDate,
		SupportRatio:          supportRatio,
		SkepticRatio:          skepticRatio,
		NeutralRatio:          float64(neutral) / total,
		ToneIndex:             supportRatio - skepticRatio,
		NumQuestions:          n,
		HighDisagreementRatio: float64(disagree) / total,
	}
}
