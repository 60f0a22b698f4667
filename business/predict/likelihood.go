// Package predict classifies live bike share availability against historical
// flow profiles, raises anticipatory depletion and fill warnings, and fuses
// origin and destination likelihoods into a trip verdict. Every function in
// this package is pure: the caller hands in a snapshot, a profile lookup and
// the current time, and identical inputs always produce identical output.
package predict

import "encoding/json"

// Likelihood grades how likely a rider is to find a bike or a dock.
// Ordered Low < Medium < High; the numeric values double as the scores used
// in trip confidence fusion.
type Likelihood int

const (
	Low    Likelihood = 1
	Medium Likelihood = 2
	High   Likelihood = 3
)

// String - Stringer interface for Likelihood
func (l Likelihood) String() string {
	switch l {
	case High:
		return "HIGH"
	case Medium:
		return "MEDIUM"
	}
	return "LOW"
}

//score returns the numeric value used for fusion arithmetic
func (l Likelihood) score() float64 {
	return float64(l)
}

// MarshalJSON presents a Likelihood as its string form in report payloads
func (l Likelihood) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON parses the string form, unknown values degrade to LOW
func (l *Likelihood) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "HIGH":
		*l = High
	case "MEDIUM":
		*l = Medium
	default:
		*l = Low
	}
	return nil
}
