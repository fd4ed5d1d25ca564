package committee

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tone-cli/internal/config"
	"github.com/sells-group/tone-cli/internal/model"
	"github.com/sells-group/tone-cli/internal/ontology"
	"github.com/sells-group/tone-cli/pkg/anthropic"
)

// fakeModel replays scripted replies, one per CreateMessage call. The
// last reply repeats once the script runs out.
type fakeModel struct {
	replies  []string
	requests []anthropic.MessageRequest
}

func (f *fakeModel) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.requests = append(f.requests, req)
	idx := len(f.requests) - 1
	if idx >= len(f.replies) {
		idx = len(f.replies) - 1
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: f.replies[idx]}},
	}, nil
}

func testOntology(t *testing.T) *ontology.Ontology {
	t.Helper()
	ont, err := ontology.Load("../../ontology/tone_ontology_v1.yaml")
	require.NoError(t, err)
	return ont
}

func testCommitteeConfig() config.AnthropicConfig {
	return config.AnthropicConfig{
		Model:           "claude-sonnet-4-5-20250929",
		MaxTokens:       8192,
		Temperature:     0.2,
		MaxParseRetries: 2,
	}
}

func sampleUnits() []model.QAUnit {
	return []model.QAUnit{
		{ID: "q1", QuestionText: "Congrats on a great quarter. What drove the upside?", AnalystName: "Jane Smith"},
		{ID: "q2", QuestionText: "Why did churn accelerate?", AnalystName: "Bob Jones"},
	}
}

func validReply() string {
	return `{"questions": [
		{"id": "q1",
		 "praise": {"score": 0.9, "rationale": "opens with congratulations"},
		 "skeptic": {"score": 0.1, "rationale": "no challenge"},
		 "neutral": {"score": 0.2, "rationale": "some modeling content"},
		 "final": {"label": "PraiseSupport", "tone_score": 0.8, "disagreement": false}},
		{"id": "q2",
		 "praise": {"score": 0.05, "rationale": "none"},
		 "skeptic": {"score": 0.85, "rationale": "presses on deterioration", "risk_vectors": ["churn"]},
		 "neutral": {"score": 0.2, "rationale": "asks for a number"},
		 "final": {"label": "SkepticismDisappointment", "tone_score": -0.8, "disagreement": false}}
	]}`
}

func TestScore_Success(t *testing.T) {
	fake := &fakeModel{replies: []string{validReply()}}
	c := New(fake, testOntology(t), testCommitteeConfig())

	results, err := c.Score(context.Background(), sampleUnits())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, model.LabelPraiseSupport, results[0].Final.Label)
	assert.Equal(t, []string{"churn"}, results[1].Skeptic.RiskVectors)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, "claude-sonnet-4-5-20250929", req.Model)
	require.NotNil(t, req.Temperature)
	assert.Equal(t, 0.2, *req.Temperature)
	require.Len(t, req.Messages, 1)

	var batch model.BatchRequest
	require.NoError(t, json.Unmarshal([]byte(req.Messages[0].Content), &batch))
	require.Len(t, batch.Questions, 2)
	assert.Equal(t, "q1", batch.Questions[0].ID)
	assert.Equal(t, "Why did churn accelerate?", batch.Questions[1].Question)
}

func TestScore_StripsMarkdownFences(t *testing.T) {
	fake := &fakeModel{replies: []string{"```json\n" + validReply() + "\n```"}}
	c := New(fake, testOntology(t), testCommitteeConfig())

	results, err := c.Score(context.Background(), sampleUnits())
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestScore_RetriesBadJSON(t *testing.T) {
	fake := &fakeModel{replies: []string{"Sorry, I cannot help with that.", validReply()}}
	c := New(fake, testOntology(t), testCommitteeConfig())

	results, err := c.Score(context.Background(), sampleUnits())
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Len(t, fake.requests, 2, "bad JSON should trigger one retry")
}

func TestScore_ContractViolationNotRetried(t *testing.T) {
	fake := &fakeModel{replies: []string{`{"answers": []}`, validReply()}}
	c := New(fake, testOntology(t), testCommitteeConfig())

	_, err := c.Score(context.Background(), sampleUnits())
	require.Error(t, err)

	var incomplete *IncompleteResponseError
	assert.ErrorAs(t, err, &incomplete)
	assert.Len(t, fake.requests, 1, "contract violations must not be retried")
}

func TestScore_MissingIDNotRetried(t *testing.T) {
	partial := `{"questions": [
		{"id": "q1",
		 "praise": {"score": 0.5, "rationale": "r"},
		 "skeptic": {"score": 0.2, "rationale": "r"},
		 "neutral": {"score": 0.3, "rationale": "r"},
		 "final": {"label": "PraiseSupport", "tone_score": 0.3, "disagreement": false}}
	]}`
	fake := &fakeModel{replies: []string{partial}}
	c := New(fake, testOntology(t), testCommitteeConfig())

	_, err := c.Score(context.Background(), sampleUnits())

	var missing *MissingResultIDsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"q2"}, missing.IDs)
	assert.Len(t, fake.requests, 1)
}

func TestScore_BackfillsInvalidFinalVerdict(t *testing.T) {
	reply := `{"questions": [
		{"id": "q1",
		 "praise": {"score": 0.9, "rationale": "r"},
		 "skeptic": {"score": 0.1, "rationale": "r"},
		 "neutral": {"score": 0.2, "rationale": "r"},
		 "final": {"label": "VeryPositive", "tone_score": 0.8, "disagreement": false}},
		{"id": "q2",
		 "praise": {"score": 0.1, "rationale": "r"},
		 "skeptic": {"score": 0.8, "rationale": "r"},
		 "neutral": {"score": 0.2, "rationale": "r"},
		 "final": {"label": "SkepticismDisappointment", "tone_score": -0.7, "disagreement": false}}
	]}`
	fake := &fakeModel{replies: []string{reply}}
	c := New(fake, testOntology(t), testCommitteeConfig())

	results, err := c.Score(context.Background(), sampleUnits())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, model.LabelPraiseSupport, results[0].Final.Label)
	assert.Equal(t, 0.8, results[0].Final.ToneScore)
	assert.Equal(t, model.LabelSkepticismDisappointment, results[1].Final.Label)
}

func TestCleanJSON(t *testing.T) {
	cases := map[string]string{
		`{"a": 1}`:                          `{"a": 1}`,
		"```json\n{\"a\": 1}\n```":          `{"a": 1}`,
		"```\n{\"a\": 1}\n```":              `{"a": 1}`,
		"Here is the result: {\"a\": 1} .":  `{"a": 1}`,
		"  \n {\"a\": {\"b\": 2}} trailing": `{"a": {"b": 2}}`,
	}
	for in, want := range cases {
		assert.Equal(t, want, cleanJSON(in), "input: %q", in)
	}
}

func TestExtractText(t *testing.T) {
	assert.Empty(t, extractText(nil))

	resp := &anthropic.MessageResponse{Content: []anthropic.ContentBlock{
		{Type: "text", Text: "part one"},
		{Type: "tool_use"},
		{Type: "text", Text: "part two"},
	}}
	assert.Equal(t, "part one\npart two", extractText(resp))
}
