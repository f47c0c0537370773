package physics

import (
	"eden/core"
)

// Phase names one stage of a step, in execution order
type Phase int

const (
	PhaseConduction Phase = iota
	PhaseSolar
	PhaseCore
	PhaseRadiation
	PhaseSlosh
	PhaseComplete
)

var phaseNames = [...]string{
	PhaseConduction: "conduction",
	PhaseSolar:      "solar",
	PhaseCore:       "core",
	PhaseRadiation:  "radiation",
	PhaseSlosh:      "slosh",
	PhaseComplete:   "complete",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// EnergyBalance advances a world's energy and water one step at a time
type EnergyBalance struct {
	world *core.World
	sun   core.Sun

	water *WaterFlow
}

// NewEnergyBalance creates the stepper for a world lit by sun
func NewEnergyBalance(world *core.World, sun core.Sun) *EnergyBalance {
	return &EnergyBalance{
		world: world,
		sun:   sun,
		water: NewWaterFlow(world),
	}
}

// World returns the world being stepped
func (eb *EnergyBalance) World() *core.World { return eb.world }

// Sun returns the energy source
func (eb *EnergyBalance) Sun() core.Sun { return eb.sun }

// Step performs one timestep. The phase order is fixed: conduction, sunlight,
// geothermal heat, radiation to space, then water movement. p supplies the
// step size and the constants the phases read.
func (eb *EnergyBalance) Step(p core.Params) {
	for phase := PhaseConduction; phase < PhaseComplete; phase++ {
		eb.RunPhase(phase, p)
	}
}

// RunPhase runs a single stage of the step
func (eb *EnergyBalance) RunPhase(phase Phase, p core.Params) {
	switch phase {
	case PhaseConduction:
		eb.ConductEnergyBetweenCells(p)
	case PhaseSolar:
		eb.AbsorbEnergyFromSun(p)
	case PhaseCore:
		eb.AbsorbEnergyFromCore(p)
	case PhaseRadiation:
		eb.RadiateEnergy(p)
	case PhaseSlosh:
		eb.SloshOceans(p)
	}
}

// ConductEnergyBetweenCells conducts land heat to neighbouring land in random
// cell order, then exchanges heat between land and water inside each cell.
func (eb *EnergyBalance) ConductEnergyBetweenCells(p core.Params) {
	dt := p.TimeStepSize
	rng := eb.world.Rand()
	for _, c := range eb.world.ShuffledCells() {
		c.ConductEnergyHorizontally(rng, dt)
	}
	if !p.VerticalConduction {
		return
	}
	for _, c := range eb.world.Cells() {
		c.ConductEnergyVertically(dt)
	}
}

// AbsorbEnergyFromSun delivers one step of sunlight to each cell, scaled by
// how directly the cell faces the sun.
func (eb *EnergyBalance) AbsorbEnergyFromSun(p core.Params) {
	maxEnergy := eb.sun.Flux(p.CellArea) * p.TimeStepSize
	for _, c := range eb.world.Cells() {
		c.GainSolarEnergy(maxEnergy * c.FacingSun)
	}
}

// AbsorbEnergyFromCore splits one step of geothermal output evenly across cells
func (eb *EnergyBalance) AbsorbEnergyFromCore(p core.Params) {
	cells := eb.world.Cells()
	if len(cells) == 0 {
		return
	}
	perCell := p.CorePower * p.TimeStepSize / float64(len(cells))
	for _, c := range cells {
		c.GainCoreEnergy(perCell)
	}
}

// RadiateEnergy loses heat to space from every cell
func (eb *EnergyBalance) RadiateEnergy(p core.Params) {
	for _, c := range eb.world.Cells() {
		c.RadiateEnergyVertically(p.StefanBoltzmann, p.TimeStepSize)
	}
}

// SloshOceans lets water run downhill
func (eb *EnergyBalance) SloshOceans(p core.Params) {
	eb.water.SloshOceans(p.TimeStepSize)
}
