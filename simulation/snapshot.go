package simulation

import (
	"eden/core"

	"github.com/go-gl/mathgl/mgl64"
)

// CellState is the read-only view of one cell handed to renderers
type CellState struct {
	ID                 int        `json:"id"`
	Latitude           float64    `json:"lat"`
	Longitude          float64    `json:"lon"`
	Position           mgl64.Vec3 `json:"position"`
	SurfaceHeight      float64    `json:"surfaceHeight"`
	SurfaceTemperature float64    `json:"surfaceTemperature"`
	LandHeight         float64    `json:"landHeight"`
	LandTemperature    float64    `json:"landTemperature"`
	WaterDepth         float64    `json:"waterDepth"`
	WaterTemperature   float64    `json:"waterTemperature"`
	Neighbors          []int      `json:"neighbors"`
}

// Snapshot is sent to the frontend for rendering
type Snapshot struct {
	Type         string      `json:"type"`
	Step         int64       `json:"step"`
	Time         float64     `json:"time"`
	TimeStepSize float64     `json:"timeStepSize"`
	StepInfo     string      `json:"stepInfo"`
	Cells        []CellState `json:"cells"`
	Stats        Stats       `json:"stats"`
}

// Stats summarises the world for logs and overlays
type Stats struct {
	TotalWaterMass         float64 `json:"totalWaterMass"`
	TotalThermalEnergy     float64 `json:"totalThermalEnergy"`
	MeanSurfaceTemperature float64 `json:"meanSurfaceTemperature"`
	OceanFraction          float64 `json:"oceanFraction"`
	MinLandHeight          float64 `json:"minLandHeight"`
	MaxLandHeight          float64 `json:"maxLandHeight"`
}

// CollectStats computes the world summary
func CollectStats(w *core.World) Stats {
	minH, maxH := w.LandHeightRange()
	return Stats{
		TotalWaterMass:         w.TotalWaterMass(),
		TotalThermalEnergy:     w.TotalThermalEnergy(),
		MeanSurfaceTemperature: w.MeanSurfaceTemperature(),
		OceanFraction:          w.OceanFraction(),
		MinLandHeight:          minH,
		MaxLandHeight:          maxH,
	}
}

// createSnapshot copies the world into a Snapshot. Positions are on the unit sphere.
func createSnapshot(w *core.World) Snapshot {
	cells := make([]CellState, w.Len())
	for i, c := range w.Cells() {
		neighbors := make([]int, len(c.Neighbors))
		for j, n := range c.Neighbors {
			neighbors[j] = n.ID
		}
		cells[i] = CellState{
			ID:                 c.ID,
			Latitude:           c.Latitude,
			Longitude:          c.Longitude,
			Position:           core.GeographicToCartesian(c.Position(), 1.0),
			SurfaceHeight:      c.SurfaceHeight(),
			SurfaceTemperature: c.SurfaceTemperature(),
			LandHeight:         c.Land.Height,
			LandTemperature:    c.Land.Temperature(),
			WaterDepth:         c.Water.Depth(),
			WaterTemperature:   c.Water.Temperature(),
			Neighbors:          neighbors,
		}
	}
	return Snapshot{
		Type:  "world",
		Cells: cells,
		Stats: CollectStats(w),
	}
}

// IsCoast reports whether a cell is dry land next to water, or water next to dry land
func (s Snapshot) IsCoast(id int) bool {
	if id < 0 || id >= len(s.Cells) {
		return false
	}
	wet := s.Cells[id].WaterDepth > 0
	for _, n := range s.Cells[id].Neighbors {
		if n >= 0 && n < len(s.Cells) && (s.Cells[n].WaterDepth > 0) != wet {
			return true
		}
	}
	return false
}
