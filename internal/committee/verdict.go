package committee

import (
	"math"

	"github.com/sells-group/tone-cli/internal/model"
)

// disagreementMargin is the absolute gap within which the top two
// perspective scores count as committee disagreement. The boundary is
// inclusive; marginEpsilon absorbs float error in the subtraction so a
// gap of exactly 0.15 (e.g. 0.8−0.65) still qualifies.
const (
	disagreementMargin = 0.15
	marginEpsilon      = 1e-9
)

// DeriveVerdict reconciles the three perspective scores into a final
// verdict, applying the aggregation policy the committee is instructed
// to follow. It is the reference implementation used to backfill a
// missing or invalid verdict from a live model and to script the fake
// committee in tests.
//
// Label: the higher of praise/skeptic wins; neutral wins only when it is
// strictly highest among all three. An exact praise/skeptic tie resolves
// to PraiseSupport. Disagreement: the top two of the three scores are
// within 0.15 of each other. ToneScore: praise − skeptic, rounded to
// two decimal places.
func DeriveVerdict(praise, skeptic, neutral float64) model.Verdict {
	label := model.LabelPraiseSupport
	if skeptic > praise {
		label = model.LabelSkepticismDisappointment
	}
	if neutral > praise && neutral > skeptic {
		label = model.LabelNeutral
	}

	top, second := topTwo(praise, skeptic, neutral)

	return model.Verdict{
		Label:        label,
		ToneScore:    round2(praise - skeptic),
		Disagreement: top-second <= disagreementMargin+marginEpsilon,
	}
}

// topTwo returns the two highest of three values.
func topTwo(a, b, c float64) (top, second float64) {
	top, second = a, b
	if second > top {
		top, second = second, top
	}
	if c > top {
		top, second = c, top
	} else if c > second {
		second = c
	}
	return top, second
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
