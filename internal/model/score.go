package model

// Label is the committee's final tone category for one question.
type Label string

const (
	LabelPraiseSupport            Label = "PraiseSupport"
	LabelSkepticismDisappointment Label = "SkepticismDisappointment"
	LabelNeutral                  Label = "Neutral"
)

// PerspectiveScore is one agent's judgment of one question. Scores are
// in [0.0, 1.0]. RiskVectors is only populated by the skeptic agent.
type PerspectiveScore struct {
	Score       float64  `json:"score"`
	Rationale   string   `json:"rationale"`
	RiskVectors []string `json:"risk_vectors,omitempty"`
}

// Verdict is the aggregator's reconciliation of the three perspectives.
// ToneScore = praise − skeptic, so it lives in [−1.0, 1.0].
type Verdict struct {
	Label        Label   `json:"label"`
	ToneScore    float64 `json:"tone_score"`
	Disagreement bool    `json:"disagreement"`
}

// QuestionRef is one entry in the batch request sent to the committee.
type QuestionRef struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

// BatchRequest is the payload sent to the scoring committee: the ordered
// set of questions extracted from one call.
type BatchRequest struct {
	Questions []QuestionRef `json:"questions"`
}

// QuestionResult is the committee's full scoring record for one question.
type QuestionResult struct {
	ID      string           `json:"id"`
	Praise  PerspectiveScore `json:"praise"`
	Skeptic PerspectiveScore `json:"skeptic"`
	Neutral PerspectiveScore `json:"neutral"`
	Final   Verdict          `json:"final"`
}

// BatchResponse is the committee's reply to a BatchRequest. Results may
// arrive in any order and may include ids that were never requested;
// extras are passed through untouched.
type BatchResponse struct {
	Questions []QuestionResult `json:"questions"`
}
