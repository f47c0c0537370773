package simulation

import "math"

// TimeControl owns the step size the runner hands to the physics and the
// simulated clock it advances.
type TimeControl struct {
	MinStep     float64 // seconds
	MaxStep     float64 // seconds
	CurrentStep float64 // seconds
	Factor      float64 // multiplier used by FastForward and SlowDown

	Elapsed float64 // simulated seconds so far
}

// NewTimeControl creates a time control starting at step, clamped to [min, max]
func NewTimeControl(step, min, max float64) *TimeControl {
	if min <= 0 {
		min = 1
	}
	if max < min {
		max = min
	}
	tc := &TimeControl{
		MinStep: min,
		MaxStep: max,
		Factor:  2,
	}
	tc.Set(step)
	return tc
}

// Set changes the step size, clamped to the limits. It returns the value applied.
func (tc *TimeControl) Set(step float64) float64 {
	if math.IsNaN(step) || step <= 0 {
		step = tc.MinStep
	}
	tc.CurrentStep = math.Max(tc.MinStep, math.Min(tc.MaxStep, step))
	return tc.CurrentStep
}

// FastForward multiplies the step size by Factor
func (tc *TimeControl) FastForward() float64 {
	return tc.Set(tc.CurrentStep * tc.Factor)
}

// SlowDown divides the step size by Factor
func (tc *TimeControl) SlowDown() float64 {
	return tc.Set(tc.CurrentStep / tc.Factor)
}

// Advance records one step on the simulated clock
func (tc *TimeControl) Advance() {
	tc.Elapsed += tc.CurrentStep
}

// ElapsedDays returns the simulated time in days
func (tc *TimeControl) ElapsedDays() float64 {
	return tc.Elapsed / 86400
}

// GetStepInfo returns a label for the current step size
func (tc *TimeControl) GetStepInfo() string {
	quality := "Normal"
	if tc.CurrentStep <= tc.MinStep {
		quality = "High Detail"
	} else if tc.CurrentStep >= tc.MaxStep*0.5 {
		quality = "Fast Forward"
	}
	return quality
}
