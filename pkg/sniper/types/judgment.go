package types

// JudgmentCode identifies a tactical rule outcome.
type JudgmentCode string

const (
	JudgmentBullishBias      JudgmentCode = "bullish-bias"
	JudgmentBearishLongTerm  JudgmentCode = "bearish-long-term"
	JudgmentRangeBound       JudgmentCode = "range-bound"
	JudgmentShrinkingFloat   JudgmentCode = "shrinking-float"
	JudgmentDilutionRisk     JudgmentCode = "dilution-risk"
	JudgmentEarningsWindow   JudgmentCode = "earnings-window"
	JudgmentInstitutionBack  JudgmentCode = "institution-backed"
	JudgmentElevatedShortInt JudgmentCode = "elevated-short-interest"
)

// Tone tells the presentation layer how to color a judgment.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneBullish
	ToneBearish
	ToneWarning
)

func (t Tone) String() string {
	switch t {
	case ToneBullish:
		return "bullish"
	case ToneBearish:
		return "bearish"
	case ToneWarning:
		return "warning"
	default:
		return "neutral"
	}
}

// Judgment is a qualitative flag derived from an assessment.
type Judgment struct {
	Code JudgmentCode
	Text string
	Tone Tone
}

func (j Judgment) String() string { return j.Text }
