package lights

import "math"

// cosHalfAngle returns cos(angle) for a cone half-angle in radians.
func cosHalfAngle(angle float64) float64 { return math.Cos(angle) }

// pow wraps math.Pow with a 0^0 = 1 convention, matching the expected
// behavior of a zero Tightness exponent being treated as "no narrowing"
// by the caller before it ever reaches here.
func pow(base, exp float64) float64 { return math.Pow(base, exp) }
