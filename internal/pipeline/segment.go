package pipeline

import (
	"fmt"
	"regexp"

	"github.com/sells-group/tone-cli/internal/model"
)

// qaStartRe matches operator phrasing that opens the Q&A portion of a
// call ("Q&A", "question-and-answer session", …).
var qaStartRe = regexp.MustCompile(`(?i)q\s*&\s*a|question[\s-]*and[\s-]*answer`)

// Segment scans a transcript's turns in order and groups them into Q&A
// units. Everything before the operator announces Q&A is dropped,
// including prepared remarks. Once inside Q&A, an analyst turn closes
// any open unit and opens the next one, management turns append to the
// open unit's answer, and operator chatter ("next question") is ignored.
// Management turns with no open unit are dropped; that is deliberate.
//
// Segmentation is deterministic: it depends only on turn order and each
// turn's role and text.
func Segment(t *model.Transcript) []model.QAUnit {
	var units []model.QAUnit
	var current *model.QAUnit
	inQA := false
	index := 0

	for _, turn := range t.Segments {
		if !inQA {
			if turn.Role == model.RoleOperator && qaStartRe.MatchString(turn.Text) {
				inQA = true
			}
			continue
		}

		switch turn.Role {
		case model.RoleAnalyst:
			if current != nil {
				units = append(units, *current)
			}
			index++
			current = &model.QAUnit{
				ID:           fmt.Sprintf("q%d", index),
				QuestionText: turn.Text,
				AnalystName:  turn.Speaker,
			}

		case model.RoleManagement:
			if current == nil {
				continue
			}
			if current.AnswerText != "" {
				current.AnswerText += " " + turn.Text
			} else {
				current.AnswerText = turn.Text
			}
		}
	}

	if current != nil {
		units = append(units, *current)
	}

	return units
}
