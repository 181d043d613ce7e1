package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Epsilon absorbs accumulated float error when timers are compared against
// authored durations (ten steps of 0.1 must reach 1.0).
const Epsilon = 1e-9

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// EaseOutQuad decelerates to zero velocity: 1-(1-t)^2.
func EaseOutQuad(t float64) float64 {
	t = Clamp01(t)
	u := 1 - t
	return 1 - u*u
}

// EaseOutCubic decelerates harder than EaseOutQuad: 1-(1-t)^3.
func EaseOutCubic(t float64) float64 {
	t = Clamp01(t)
	u := 1 - t
	return 1 - u*u*u
}

// Progress returns elapsed/duration clamped to [0,1]. A non-positive duration
// is already complete.
func Progress(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return Clamp01(elapsed / duration)
}

// Reached reports whether an accumulated timer has reached a duration.
func Reached(elapsed, duration float64) bool {
	return elapsed+Epsilon >= duration
}

func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// AxisFromAngle returns the unit vector for a rotation in radians.
func AxisFromAngle(rad float64) cp.Vector {
	return cp.Vector{X: math.Cos(rad), Y: math.Sin(rad)}
}

// Unit normalizes v, returning the zero vector for a zero input.
func Unit(v cp.Vector) cp.Vector {
	l := math.Hypot(v.X, v.Y)
	if l == 0 {
		return cp.Vector{}
	}
	return cp.Vector{X: v.X / l, Y: v.Y / l}
}
