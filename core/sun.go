package core

import "math"

// Sun is a fixed point source of radiant power
type Sun struct {
	Power    float64 // W
	Distance float64 // m
}

// NewSun creates a sun
func NewSun(power, distance float64) Sun {
	return Sun{Power: power, Distance: distance}
}

// Flux returns the power falling on a surface of the given area that faces the
// sun head-on at the sun's distance.
func (s Sun) Flux(area float64) float64 {
	if s.Distance <= 0 {
		return 0
	}
	return area / (4 * math.Pi * s.Distance * s.Distance) * s.Power
}
