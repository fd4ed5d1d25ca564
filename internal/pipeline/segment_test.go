package pipeline

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tone-cli/internal/model"
)

func operatorTurn(text string) model.Turn {
	return model.Turn{Speaker: "Operator", Role: model.RoleOperator, Text: text}
}

func analystTurn(speaker, text string) model.Turn {
	return model.Turn{Speaker: speaker, Role: model.RoleAnalyst, Text: text}
}

func mgmtTurn(text string) model.Turn {
	return model.Turn{Speaker: "CEO", Role: model.RoleManagement, Text: text}
}

func TestSegment_BasicQA(t *testing.T) {
	tr := &model.Transcript{
		Ticker:   "AAPL",
		CallDate: "2026-01-29",
		Segments: []model.Turn{
			mgmtTurn("Prepared remarks about a strong quarter."),
			operatorTurn("We will now begin the question-and-answer session."),
			analystTurn("Jane Smith", "How is demand trending?"),
			mgmtTurn("Demand is strong."),
			analystTurn("Bob Jones", "What about margins?"),
			mgmtTurn("Margins expanded."),
		},
	}

	units := Segment(tr)
	require.Len(t, units, 2)

	assert.Equal(t, "q1", units[0].ID)
	assert.Equal(t, "Jane Smith", units[0].AnalystName)
	assert.Equal(t, "How is demand trending?", units[0].QuestionText)
	assert.Equal(t, "Demand is strong.", units[0].AnswerText)

	assert.Equal(t, "q2", units[1].ID)
	assert.Equal(t, "Bob Jones", units[1].AnalystName)
}

func TestSegment_PreQATurnsDropped(t *testing.T) {
	tr := &model.Transcript{
		Segments: []model.Turn{
			analystTurn("Early Bird", "This question comes before Q&A opens."),
			mgmtTurn("Prepared remarks."),
			operatorTurn("We now open the floor for Q&A."),
			analystTurn("Jane Smith", "Real question?"),
			mgmtTurn("Real answer."),
		},
	}

	units := Segment(tr)
	require.Len(t, units, 1)
	assert.Equal(t, "q1", units[0].ID)
	assert.Equal(t, "Jane Smith", units[0].AnalystName)
}

func TestSegment_NoQAMarker(t *testing.T) {
	tr := &model.Transcript{
		Segments: []model.Turn{
			mgmtTurn("Remarks."),
			analystTurn("Jane Smith", "Question without a Q&A session."),
			mgmtTurn("Answer."),
		},
	}

	assert.Empty(t, Segment(tr))
}

func TestSegment_QAMarkerVariants(t *testing.T) {
	for _, text := range []string{
		"We will now begin the Q&A session.",
		"Opening the q & a portion of the call.",
		"Time for the Question-and-Answer session.",
		"We begin the question and answer period.",
	} {
		tr := &model.Transcript{
			Segments: []model.Turn{
				operatorTurn(text),
				analystTurn("Jane Smith", "Question?"),
			},
		}
		assert.Len(t, Segment(tr), 1, "marker: %q", text)
	}
}

func TestSegment_QAMarkerFromNonOperatorIgnored(t *testing.T) {
	tr := &model.Transcript{
		Segments: []model.Turn{
			mgmtTurn("We look forward to the Q&A session shortly."),
			analystTurn("Jane Smith", "Question?"),
		},
	}

	assert.Empty(t, Segment(tr))
}

func TestSegment_MultiTurnAnswerConcatenated(t *testing.T) {
	tr := &model.Transcript{
		Segments: []model.Turn{
			operatorTurn("Q&A begins."),
			analystTurn("Jane Smith", "Big question?"),
			mgmtTurn("A1a"),
			mgmtTurn("A1b"),
		},
	}

	units := Segment(tr)
	require.Len(t, units, 1)
	assert.Equal(t, "A1a A1b", units[0].AnswerText)
}

func TestSegment_OperatorChatterInsideQAIgnored(t *testing.T) {
	tr := &model.Transcript{
		Segments: []model.Turn{
			operatorTurn("Q&A begins."),
			analystTurn("Jane Smith", "First question?"),
			mgmtTurn("First answer."),
			operatorTurn("Our next question comes from Bob Jones."),
			analystTurn("Bob Jones", "Second question?"),
			mgmtTurn("Second answer."),
		},
	}

	units := Segment(tr)
	require.Len(t, units, 2)
	assert.Equal(t, "First answer.", units[0].AnswerText)
	assert.Equal(t, "Second answer.", units[1].AnswerText)
}

func TestSegment_ManagementBeforeFirstAnalystDropped(t *testing.T) {
	tr := &model.Transcript{
		Segments: []model.Turn{
			operatorTurn("Q&A begins."),
			mgmtTurn("A thank-you before any question."),
			analystTurn("Jane Smith", "Question?"),
			mgmtTurn("Answer."),
		},
	}

	units := Segment(tr)
	require.Len(t, units, 1)
	assert.Equal(t, "Answer.", units[0].AnswerText)
}

func TestSegment_TrailingQuestionWithoutAnswer(t *testing.T) {
	tr := &model.Transcript{
		Segments: []model.Turn{
			operatorTurn("Q&A begins."),
			analystTurn("Jane Smith", "Answered question?"),
			mgmtTurn("Answer."),
			analystTurn("Bob Jones", "Final unanswered question?"),
		},
	}

	units := Segment(tr)
	require.Len(t, units, 2)
	assert.Equal(t, "q2", units[1].ID)
	assert.Empty(t, units[1].AnswerText)
}

func TestSegment_SequentialIDs(t *testing.T) {
	segments := []model.Turn{operatorTurn("Q&A begins.")}
	for i := 0; i < 5; i++ {
		segments = append(segments, analystTurn("Analyst", "Question?"), mgmtTurn("Answer."))
	}

	units := Segment(&model.Transcript{Segments: segments})
	require.Len(t, units, 5)
	for i, u := range units {
		assert.Equal(t, fmt.Sprintf("q%d", i+1), u.ID)
	}
}

func TestSegment_Deterministic(t *testing.T) {
	tr := &model.Transcript{
		Segments: []model.Turn{
			mgmtTurn("Remarks."),
			operatorTurn("Q&A begins."),
			analystTurn("Jane Smith", "Question one?"),
			mgmtTurn("Answer one."),
			operatorTurn("Next question."),
			analystTurn("Bob Jones", "Question two?"),
			mgmtTurn("Answer two, part one."),
			mgmtTurn("Answer two, part two."),
		},
	}

	first := Segment(tr)
	for i := 0; i < 10; i++ {
		assert.Empty(t, cmp.Diff(first, Segment(tr)))
	}
}

func TestSegment_EmptyTranscript(t *testing.T) {
	assert.Empty(t, Segment(&model.Transcript{}))
}
