package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp01 limits v to [0,1]. NaN collapses to 0.
func Clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// EaseInOutQuad is the quadratic ease-in-out curve over t in [0,1].
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

// Approach moves current toward target by at most step without overshooting.
func Approach(current, target, step float64) float64 {
	if step <= 0 {
		return current
	}
	if current < target {
		return math.Min(current+step, target)
	}
	return math.Max(current-step, target)
}

// Wrap maps v into [0, span).
func Wrap(v, span float64) float64 {
	if span <= 0 {
		return 0
	}
	v = math.Mod(v, span)
	if v < 0 {
		v += span
	}
	return v
}
