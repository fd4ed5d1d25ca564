package model

// QAUnit is one analyst question plus the concatenated management
// response that followed it. IDs are sequential per call: "q1", "q2", …
type QAUnit struct {
	ID           string `json:"id"`
	QuestionText string `json:"question_text"`
	AnalystName  string `json:"analyst_name"`
	AnswerText   string `json:"answer_text"`
}
