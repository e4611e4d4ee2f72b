package model

// Decision is the automation tier for a classification result.
type Decision string

// Decision constants.
const (
	DecisionAutoAccept Decision = "AUTO_ACCEPT"
	DecisionSuggest    Decision = "SUGGEST"
	DecisionEscalate   Decision = "ESCALATE"
)

// Stage identifies which pipeline stage produced the top-ranked code.
type Stage string

// Stage constants.
const (
	StageRule      Stage = "rule"
	StageSemantic  Stage = "semantic"
	StageFeedback  Stage = "feedback"
	StageCache     Stage = "cache"
	StageEscalated Stage = "escalated"
)

// Rationale is the structured trace attached to every result.
type Rationale struct {
	Stage         Stage
	ConfigVersion string
	Notes         []string
	LowConfidence bool
}

// ClassificationResult is what the caller always receives: a ranking, a
// decision tier, and the trace explaining them. Decision is computed once by
// the resolver and never mutated afterwards.
type ClassificationResult struct {
	RankedCodes []RankedCode
	Decision    Decision
	Rationale   Rationale
}

// TopCode returns the best-ranked code, or "" when the ranking is empty.
func (r ClassificationResult) TopCode() string {
	if len(r.RankedCodes) == 0 {
		return ""
	}
	return r.RankedCodes[0].Code
}
