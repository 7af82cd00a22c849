package renderer

import (
	"fmt"
	"math"
)

// Percent is a rate as a fraction: 0.05 is 5%.
type Percent float64

func (p Percent) valid() bool { return !math.IsNaN(float64(p)) && !math.IsInf(float64(p), 0) }

// String formats p with two decimals, or "n/a" if it is not a number.
func (p Percent) String() string {
	if !p.valid() {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", 100*float64(p))
}

// SignedString is like String but always shows the sign.
func (p Percent) SignedString() string {
	if !p.valid() {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", 100*float64(p))
}
