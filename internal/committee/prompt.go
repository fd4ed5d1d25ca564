package committee

import (
	"fmt"
	"strings"

	"github.com/sells-group/tone-cli/internal/ontology"
)

// outputSchema is the exact JSON shape the committee must respond with.
const outputSchema = `{
  "questions": [
    {
      "id": "string",
      "praise": {"score": 0.0, "rationale": "string"},
      "skeptic": {"score": 0.0, "rationale": "string", "risk_vectors": ["string"]},
      "neutral": {"score": 0.0, "rationale": "string"},
      "final": {"label": "PraiseSupport | SkepticismDisappointment | Neutral", "tone_score": 0.0, "disagreement": false}
    }
  ]
}`

// BuildSystemPrompt renders the committee system prompt: three analyst
// personas plus an aggregator, grounded in the tone ontology.
func BuildSystemPrompt(ont *ontology.Ontology) string {
	var b strings.Builder

	b.WriteString("You are the Earnings-Call Tone Committee, a panel of three specialist analyst-agents plus an aggregator. ")
	b.WriteString("Classify the tone of analyst questions from an earnings-call Q&A session.\n\n")

	fmt.Fprintf(&b, "TONE ONTOLOGY (version %s)\n\n", ont.Version)
	for _, name := range ont.CategoryNames() {
		c := ont.Categories[name]
		fmt.Fprintf(&b, "### %s\n", name)
		fmt.Fprintf(&b, "Description: %s\n", strings.TrimSpace(c.Description))
		fmt.Fprintf(&b, "Lexical cues: %s\n", quoteJoin(c.LexicalCues))
		fmt.Fprintf(&b, "Question-intent patterns: %s\n", quoteJoin(c.QuestionIntentPatterns))
		fmt.Fprintf(&b, "Ignore phrases (ritual politeness, must NOT affect scoring): %s\n\n", quoteJoin(c.IgnorePhrases))
	}

	b.WriteString(`AGENT ROLES

For EACH question, adopt three perspectives sequentially:

1. PraiseAgent: look for approval, optimism, or endorsement of management's strategy, execution, or results. Score 0.0 (no praise) to 1.0 (strong praise) with a one-sentence rationale.
2. SkepticAgent: look for doubt, concern, risk probing, or disappointment. Score 0.0 to 1.0 with a one-sentence rationale, and list concrete risk_vectors identified (e.g. "margin compression", "customer churn", "guidance credibility").
3. NeutralAgent: assess how purely information-seeking the question is, with no discernible valence. Score 0.0 (clearly opinionated) to 1.0 (purely factual) with a one-sentence rationale.

CRITICAL RULES

- The three scores are INDEPENDENT assessments and do NOT need to sum to 1.0.
- IGNORE the ritual-politeness phrases listed above. "Congrats on the quarter" is social convention and must not inflate the praise score.
- Focus on SUBSTANTIVE tone: what the analyst is really probing about execution, guidance, risk, capital allocation, or competitive positioning.
- If a question mixes supportive and skeptical elements, reflect that in the individual scores; the aggregator reconciles.

AGGREGATOR

- final.label: exactly one of "PraiseSupport", "SkepticismDisappointment", or "Neutral", whichever agent scored highest. If praise and skeptic are within 0.15 of each other and both exceed neutral, prefer the higher one and set disagreement=true.
- final.tone_score: composite score in [-1.0, 1.0], formula praise.score - skeptic.score.
- final.disagreement: true when the top two agent scores are within 0.15 of each other.

OUTPUT FORMAT

Respond with ONLY valid JSON matching this schema (no markdown, no commentary outside the JSON):

`)
	b.WriteString(outputSchema)
	b.WriteString("\n\nScores are floats rounded to two decimal places. The \"id\" field must match the input question id exactly.\n")

	return b.String()
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
