package domain

// RiskLevel enumerates guardrail outcomes.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var riskOrder = map[RiskLevel]int{
	RiskSafe:     0,
	RiskLow:      1,
	RiskMedium:   2,
	RiskHigh:     3,
	RiskCritical: 4,
}

// AtLeast reports whether the level is as severe as other.
func (l RiskLevel) AtLeast(other RiskLevel) bool {
	return riskOrder[l] >= riskOrder[other]
}

// GuardrailAction describes how a suggested fix should be presented.
type GuardrailAction string

const (
	ActionAllow   GuardrailAction = "allow"
	ActionWarn    GuardrailAction = "warn"
	ActionConfirm GuardrailAction = "confirm"
	ActionBlock   GuardrailAction = "block"
)

// RiskAssessment aggregates the evaluation of one suggested fix.
type RiskAssessment struct {
	Level        RiskLevel
	Action       GuardrailAction
	Reasons      []string
	MatchedRules []string
}

// NeedsWarning reports whether the renderer should flag the fix.
func (r RiskAssessment) NeedsWarning() bool {
	return r.Level.AtLeast(RiskMedium)
}
