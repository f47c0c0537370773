package physics

import (
	"math"

	"eden/core"

	"gonum.org/v1/gonum/floats"
)

// WaterFlow moves water downhill between neighbouring cells
type WaterFlow struct {
	world *core.World

	// Flow parameters
	minWaveSpeed float64 // m/s, floor on how fast a wave travels
	speedDivisor float64 // wave speed is height difference over this
}

// NewWaterFlow creates the sloshing step for a world
func NewWaterFlow(world *core.World) *WaterFlow {
	return &WaterFlow{
		world:        world,
		minWaveSpeed: 1,
		speedDivisor: 5,
	}
}

// flowData is water leaving a cell for one neighbour
type flowData struct {
	to     *core.Cell
	volume float64 // m³
}

// SloshOceans visits every wet cell in random order and sends water to the
// neighbours whose surface sits lower. Each cell's outflows are computed from
// the state before any of them is applied and never exceed the water it holds.
func (wf *WaterFlow) SloshOceans(dt float64) {
	rng := wf.world.Rand()
	for _, cell := range wf.world.ShuffledCells() {
		if cell.Water.Depth() <= 0 {
			continue
		}
		rng.Shuffle(len(cell.Neighbors), func(i, j int) {
			cell.Neighbors[i], cell.Neighbors[j] = cell.Neighbors[j], cell.Neighbors[i]
		})

		flows := wf.calculateFlows(cell, dt)
		wf.applyFlows(cell, flows)
	}
}

// calculateFlows sizes the wave sent to each lower neighbour
func (wf *WaterFlow) calculateFlows(cell *core.Cell, dt float64) []flowData {
	depth := cell.Water.Depth()
	available := cell.Water.Volume()
	surface := cell.SurfaceHeight()

	flows := make([]flowData, 0, len(cell.Neighbors))
	volumes := make([]float64, 0, len(cell.Neighbors))
	for _, n := range cell.Neighbors {
		heightDiff := math.Max(0, surface-n.SurfaceHeight())
		if heightDiff == 0 {
			continue
		}

		// all neighbours are fed at once, so each wave only evens out half the gap
		waveHeight := math.Min(depth, heightDiff/2)
		waveArea := waveHeight * cell.Width()
		waveSpeed := math.Max(heightDiff/wf.speedDivisor, wf.minWaveSpeed)
		waveDistance := waveSpeed * dt

		volume := math.Min(waveDistance*waveArea, waveHeight*cell.Area())
		if volume <= 0 {
			continue
		}
		flows = append(flows, flowData{to: n, volume: volume})
		volumes = append(volumes, volume)
	}
	if len(flows) == 0 {
		return flows
	}

	if total := floats.Sum(volumes); total > available {
		scale := available / total
		for i := range flows {
			flows[i].volume *= scale
		}
	}
	return flows
}

// applyFlows moves the water, carrying the source temperature with it
func (wf *WaterFlow) applyFlows(cell *core.Cell, flows []flowData) {
	if len(flows) == 0 {
		return
	}
	density := cell.Water.Properties().Density
	temperature := cell.Water.Temperature()

	moved := 0.0
	for _, f := range flows {
		moved += f.volume * density
	}
	if moved > cell.Water.Mass {
		moved = cell.Water.Mass
	}

	cell.Water.ChangeMass(-moved, temperature)
	if cell.Water.Mass <= 0 {
		cell.Water.Mass = 0
		cell.Water.ThermalEnergy = 0
	}
	for _, f := range flows {
		f.to.Water.ChangeMass(f.volume*density, temperature)
	}
}
