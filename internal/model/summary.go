package model

// QuestionRow is the per-question persistence shape: one committee
// result joined with its call identity and question text.
type QuestionRow struct {
	RunID           string  `json:"run_id"`
	Ticker          string  `json:"ticker"`
	CallDate        string  `json:"call_date"`
	QuestionID      string  `json:"question_id"`
	QuestionText    string  `json:"question_text"`
	Label           Label   `json:"label"`
	ToneScore       float64 `json:"tone_score"`
	PraiseScore     float64 `json:"praise_score"`
	SkepticScore    float64 `json:"skeptic_score"`
	NeutralityScore float64 `json:"neutrality_score"`
	Disagreement    bool    `json:"disagreement"`
}

// CallSummary is the per-call roll-up of label ratios and composite tone
// index across all questions. The three ratios always sum to 1.0 and
// ToneIndex = SupportRatio − SkepticRatio. Summaries are identified by a
// fresh run id, never mutated, and never overwrite a prior run.
type CallSummary struct {
	RunID                 string  `json:"run_id"`
	Ticker                string  `json:"ticker"`
	CallDate              string  `json:"call_date"`
	SupportRatio          float64 `json:"support_ratio"`
	SkepticRatio          float64 `json:"skeptic_ratio"`
	NeutralRatio          float64 `json:"neutral_ratio"`
	ToneIndex             float64 `json:"tone_index"`
	NumQuestions          int     `json:"num_questions"`
	HighDisagreementRatio float64 `json:"high_disagreement_ratio"`
}
