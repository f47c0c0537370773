package core

import "gonum.org/v1/gonum/floats"

// LandHeights returns the land height of every cell in world order
func (w *World) LandHeights() []float64 {
	heights := make([]float64, len(w.cells))
	for i, c := range w.cells {
		heights[i] = c.Land.Height
	}
	return heights
}

// LandHeightRange returns the lowest and highest land heights
func (w *World) LandHeightRange() (float64, float64) {
	if len(w.cells) == 0 {
		return 0, 0
	}
	heights := w.LandHeights()
	return floats.Min(heights), floats.Max(heights)
}

// TotalWaterMass sums the water mass of every cell, kg
func (w *World) TotalWaterMass() float64 {
	masses := make([]float64, len(w.cells))
	for i, c := range w.cells {
		masses[i] = c.Water.Mass
	}
	return floats.Sum(masses)
}

// TotalWaterVolume sums the water volume of every cell, m³
func (w *World) TotalWaterVolume() float64 {
	volumes := make([]float64, len(w.cells))
	for i, c := range w.cells {
		volumes[i] = c.Water.Volume()
	}
	return floats.Sum(volumes)
}

// TotalThermalEnergy sums land and water thermal energy, J
func (w *World) TotalThermalEnergy() float64 {
	energies := make([]float64, 0, 2*len(w.cells))
	for _, c := range w.cells {
		energies = append(energies, c.Land.ThermalEnergy, c.Water.ThermalEnergy)
	}
	return floats.Sum(energies)
}

// MeanSurfaceTemperature averages the surface temperature over all cells, K
func (w *World) MeanSurfaceTemperature() float64 {
	if len(w.cells) == 0 {
		return 0
	}
	temps := make([]float64, len(w.cells))
	for i, c := range w.cells {
		temps[i] = c.SurfaceTemperature()
	}
	return floats.Sum(temps) / float64(len(temps))
}

// OceanFraction is the share of cells with water on them
func (w *World) OceanFraction() float64 {
	if len(w.cells) == 0 {
		return 0
	}
	wet := 0
	for _, c := range w.cells {
		if c.HasWater() {
			wet++
		}
	}
	return float64(wet) / float64(len(w.cells))
}

// MinWaterMass returns the smallest water mass held by any cell
func (w *World) MinWaterMass() float64 {
	if len(w.cells) == 0 {
		return 0
	}
	masses := make([]float64, len(w.cells))
	for i, c := range w.cells {
		masses[i] = c.Water.Mass
	}
	return floats.Min(masses)
}
