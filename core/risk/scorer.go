package risk

// Risk labels emitted by the deployed classifier.
const (
	LabelHigh   = "high"
	LabelMedium = "medium"
	LabelLow    = "low"
)

// riskScoreTable is the fixed label→score policy. Unrecognized labels score
// 0 rather than failing.
var riskScoreTable = map[string]float64{
	LabelHigh:   1,
	LabelMedium: 0.5,
	LabelLow:    0,
}

// Scorer projects a predicted label onto the numeric risk score persisted
// with the performance record.
type Scorer struct{}

// Score returns the policy score coerced to an integer, matching the
// persisted schema. Note the coercion truncates "medium"'s 0.5 to 0; the
// persisted score distinguishes only high risk from everything else. Keep the
// label alongside the score for the full picture.
func (Scorer) Score(label string) int {
	return int(riskScoreTable[label])
}
