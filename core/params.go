package core

import "math"

// Water initialisation policies
const (
	WaterInitEven = "even"
	WaterInitDump = "dump"
)

// Params carries every number the core reads. It is filled from config at
// start-up; only TimeStepSize is expected to change while the world runs.
type Params struct {
	// Grid
	CellCircumference int     // cells around the equator
	WorldRadius       float64 // m
	CellWidth         float64 // m
	CellArea          float64 // m²

	// Time
	TimeStepSize float64 // seconds per step

	// Energy sources and sinks
	StefanBoltzmann float64 // W/(m²·K⁴)
	CorePower       float64 // geothermal output of the whole world, W

	// Materials
	Land                   Properties
	Water                  Properties
	WaterAlbedoCoefficient float64
	WaterAlbedoOffset      float64
	LandDepth              float64 // thermally active land layer, m

	InitialLandTemperature  float64 // K
	InitialWaterTemperature float64 // K
	WorldWaterMass          float64 // kg
	WaterInitMode           string

	// Terrain
	Distortions          int
	DistortionHeight     float64 // m
	DistortionScale      float64 // m
	DistortionRateMin    float64
	DistortionRateSpread float64
	MinGroundHeight      float64 // m, < 0
	MaxGroundHeight      float64 // m, > 0

	// VerticalConduction adds land/water conduction to the conduction phase
	VerticalConduction bool
}

// DegreesPerCell is the angular size of one cell
func (p Params) DegreesPerCell() float64 {
	if p.CellCircumference <= 0 {
		return 0
	}
	return 360.0 / float64(p.CellCircumference)
}

// NeighborThreshold is the great-circle angle, in radians, below which two
// cells are neighbours.
func (p Params) NeighborThreshold() float64 {
	return 1.3 * DegreesToRadians(p.DegreesPerCell())
}

// DefaultParams returns an Earth-like world
func DefaultParams() Params {
	circumference := 40.075e6
	cells := 36
	width := circumference / float64(cells)
	return Params{
		CellCircumference: cells,
		WorldRadius:       circumference / (2 * math.Pi),
		CellWidth:         width,
		CellArea:          width * width,

		TimeStepSize: 86400,

		StefanBoltzmann: 5.6703e-8,
		CorePower:       47e12,

		Land:                   DefaultMaterialProperties[Land],
		Water:                  DefaultMaterialProperties[Water],
		WaterAlbedoCoefficient: 0.05,
		WaterAlbedoOffset:      0.15,
		LandDepth:              10,

		InitialLandTemperature:  280,
		InitialWaterTemperature: 280,
		WorldWaterMass:          1.35e21,
		WaterInitMode:           WaterInitEven,

		Distortions:          1000,
		DistortionHeight:     5000,
		DistortionScale:      100000,
		DistortionRateMin:    3,
		DistortionRateSpread: 3,
		MinGroundHeight:      -10000,
		MaxGroundHeight:      10000,

		VerticalConduction: true,
	}
}
