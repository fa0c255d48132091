package compare

import "math"

type Direction string

const (
	Warmer Direction = "warmer"
	Colder Direction = "colder"
	Equal  Direction = "equal"
)

// Delta is the baseline high temperature minus a compared temperature.
// A positive value means the compared day was colder than the baseline.
type Delta struct {
	Value     float64   `json:"delta"`
	Direction Direction `json:"direction"`
}

// NewDelta computes baseline-minus-compared, rounded to one decimal place.
func NewDelta(baseline, compared float64) Delta {
	d := round1(baseline - compared)
	switch {
	case d > 0:
		return Delta{Value: d, Direction: Warmer}
	case d < 0:
		return Delta{Value: d, Direction: Colder}
	default:
		// Normalise -0 so it never renders as "-0.0".
		return Delta{Value: 0, Direction: Equal}
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
