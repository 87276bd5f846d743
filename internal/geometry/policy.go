// Package geometry resolves output frame dimensions for video encodes.
//
// Given source dimensions, requested maxima and a sizing policy it computes
// the even-rounded output size, an optional crop filter fragment and the
// display aspect string.
package geometry

// Policy selects how source dimensions are mapped onto the requested maxima.
type Policy string

const (
	// Fit scales to the more constraining maximum, preserving aspect.
	Fit Policy = "Fit"
	// Fill scales to cover both maxima and center-crops the excess.
	Fill Policy = "Fill"
	// Stretch outputs exactly the maxima, ignoring source aspect.
	Stretch Policy = "Stretch"
	// Keep outputs the source dimensions verbatim.
	Keep Policy = "Keep"
	// ShrinkToFit is Fit applied only when the source exceeds a maximum.
	ShrinkToFit Policy = "ShrinkToFit"
	// ShrinkToFill is Fill applied only when the source is below a maximum.
	ShrinkToFill Policy = "ShrinkToFill"
)

// Policies lists every supported sizing policy.
var Policies = []Policy{Fit, Fill, Stretch, Keep, ShrinkToFit, ShrinkToFill}

// DefaultPolicy applies when a request names no policy.
const DefaultPolicy = Keep

// Valid reports whether p is a supported policy.
func (p Policy) Valid() bool {
	switch p {
	case Fit, Fill, Stretch, Keep, ShrinkToFit, ShrinkToFill:
		return true
	}
	return false
}

func (p Policy) String() string { return string(p) }
