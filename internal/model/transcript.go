package model

// Role identifies who is speaking in a transcript turn.
type Role string

const (
	RoleManagement Role = "management"
	RoleAnalyst    Role = "analyst"
	RoleOperator   Role = "operator"
)

// Turn is one speaker utterance in an earnings call.
type Turn struct {
	Speaker string `json:"speaker"`
	Role    Role   `json:"role"`
	Text    string `json:"text"`
}

// Transcript is one earnings call: a ticker, a call date, and the
// chronologically ordered sequence of speaker turns. Turn order is
// load-bearing for Q&A segmentation.
type Transcript struct {
	Ticker   string `json:"ticker"`
	CallDate string `json:"call_date"`
	Segments []Turn `json:"segments"`
}
