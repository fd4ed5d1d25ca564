// Package export writes stored tone results to analyst-facing files.
package export

import (
	"context"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/tone-cli/internal/model"
	"github.com/sells-group/tone-cli/internal/store"
)

var summaryHeader = []string{
	"run_id", "ticker", "call_date", "support_ratio", "skeptic_ratio",
	"neutral_ratio", "tone_index", "num_questions", "high_disagreement_ratio",
}

var questionHeader = []string{
	"run_id", "ticker", "call_date", "question_id", "question_text",
	"label", "tone_score", "praise_score", "skeptic_score",
	"neutrality_score", "disagreement",
}

// WriteWorkbook exports call summaries, and optionally each run's
// question rows, to an XLSX workbook at path.
func WriteWorkbook(ctx context.Context, st store.Store, filter store.SummaryFilter, includeQuestions bool, path string) error {
	summaries, err := st.ListSummaries(ctx, filter)
	if err != nil {
		return eris.Wrap(err, "export: list summaries")
	}

	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Summaries")
	if err != nil {
		return eris.Wrap(err, "export: add summaries sheet")
	}
	addStringRow(sheet, summaryHeader)
	for _, s := range summaries {
		row := sheet.AddRow()
		row.AddCell().Value = s.RunID
		row.AddCell().Value = s.Ticker
		row.AddCell().Value = s.CallDate
		row.AddCell().SetFloat(s.SupportRatio)
		row.AddCell().SetFloat(s.SkepticRatio)
		row.AddCell().SetFloat(s.NeutralRatio)
		row.AddCell().SetFloat(s.ToneIndex)
		row.AddCell().SetInt(s.NumQuestions)
		row.AddCell().SetFloat(s.HighDisagreementRatio)
	}

	if includeQuestions {
		qSheet, err := f.AddSheet("Questions")
		if err != nil {
			return eris.Wrap(err, "export: add questions sheet")
		}
		addStringRow(qSheet, questionHeader)
		for _, s := range summaries {
			rows, err := st.ListQuestions(ctx, s.RunID)
			if err != nil {
				return eris.Wrapf(err, "export: list questions for run %s", s.RunID)
			}
			for _, q := range rows {
				addQuestionRow(qSheet, q)
			}
		}
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

func addStringRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().Value = v
	}
}

func addQuestionRow(sheet *xlsx.Sheet, q model.QuestionRow) {
	row := sheet.AddRow()
	row.AddCell().Value = q.RunID
	row.AddCell().Value = q.Ticker
	row.AddCell().Value = q.CallDate
	row.AddCell().Value = q.QuestionID
	row.AddCell().Value = q.QuestionText
	row.AddCell().Value = string(q.Label)
	row.AddCell().SetFloat(q.ToneScore)
	row.AddCell().SetFloat(q.PraiseScore)
	row.AddCell().SetFloat(q.SkepticScore)
	row.AddCell().SetFloat(q.NeutralityScore)
	row.AddCell().Value = strconv.FormatBool(q.Disagreement)
}
