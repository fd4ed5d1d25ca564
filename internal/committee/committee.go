// Package committee scores extracted Q&A units through the three-persona
// tone committee and validates the committee's reply against the request
// before anything downstream trusts it.
package committee

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tone-cli/internal/config"
	"github.com/sells-group/tone-cli/internal/model"
	"github.com/sells-group/tone-cli/internal/ontology"
	"github.com/sells-group/tone-cli/internal/resilience"
	"github.com/sells-group/tone-cli/pkg/anthropic"
)

// Committee dispatches one call's questions to the scoring model in a
// single batch message and returns the validated per-question results.
type Committee struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
	system string
}

// New builds a Committee whose system prompt embeds the tone ontology.
func New(client anthropic.Client, ont *ontology.Ontology, cfg config.AnthropicConfig) *Committee {
	return &Committee{
		client: client,
		cfg:    cfg,
		system: BuildSystemPrompt(ont),
	}
}

// Score sends the batch request for units and returns one result per
// question. Replies that are not valid JSON are retried; contract
// violations (missing "questions" key, missing ids) are returned to the
// caller unretried.
func (c *Committee) Score(ctx context.Context, units []model.QAUnit) ([]model.QuestionResult, error) {
	req := model.BatchRequest{Questions: make([]model.QuestionRef, len(units))}
	ids := make([]string, len(units))
	for i, u := range units {
		req.Questions[i] = model.QuestionRef{ID: u.ID, Question: u.QuestionText}
		ids[i] = u.ID
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "committee: marshal request")
	}

	temperature := c.cfg.Temperature

	retryCfg := resilience.RetryConfig{
		MaxAttempts: c.cfg.MaxParseRetries,
		ShouldRetry: func(err error) bool {
			return eris.Is(err, errBadJSON) || resilience.IsTransient(err)
		},
		OnRetry: resilience.RetryLogger("anthropic", "committee score"),
	}

	resp, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (*model.BatchResponse, error) {
		msg, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:       c.cfg.Model,
			MaxTokens:   c.cfg.MaxTokens,
			Temperature: &temperature,
			System:      []anthropic.SystemBlock{{Text: c.system}},
			Messages: []anthropic.Message{
				{Role: "user", Content: string(payload)},
			},
		})
		if err != nil {
			return nil, eris.Wrap(err, "committee: create message")
		}

		msg.Usage.LogCost(c.cfg.Model, "committee")

		return ValidateResponse(ids, []byte(cleanJSON(extractText(msg))))
	})
	if err != nil {
		return nil, err
	}

	results := resp.Questions
	for i, r := range results {
		if !validLabel(r.Final.Label) {
			derived := DeriveVerdict(r.Praise.Score, r.Skeptic.Score, r.Neutral.Score)
			zap.L().Warn("committee: invalid final verdict, rederiving from perspective scores",
				zap.String("question_id", r.ID),
				zap.String("label", string(r.Final.Label)),
				zap.String("derived_label", string(derived.Label)),
			)
			results[i].Final = derived
		}
	}

	zap.L().Info("committee: batch scored",
		zap.Int("questions", len(units)),
		zap.Int("results", len(results)),
	)

	return results, nil
}

func validLabel(l model.Label) bool {
	switch l {
	case model.LabelPraiseSupport, model.LabelSkepticismDisappointment, model.LabelNeutral:
		return true
	}
	return false
}

// extractText concatenates the text blocks of a model response.
func extractText(resp *anthropic.MessageResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, block := range resp.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// cleanJSON extracts a JSON object from text that may carry markdown
// code fences or commentary around it.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
