package physics

import (
	"math"
	"testing"

	"eden/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSun() core.Sun {
	return core.NewSun(3.846e26, 149.6e9)
}

func newBalance(t *testing.T, p core.Params, seed int64) *EnergyBalance {
	t.Helper()
	w, err := core.NewWorld(p, core.NewRand(seed))
	require.NoError(t, err)
	return NewEnergyBalance(w, testSun())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "conduction", PhaseConduction.String())
	assert.Equal(t, "slosh", PhaseSlosh.String())
	assert.Equal(t, "complete", PhaseComplete.String())
	assert.Equal(t, "unknown", Phase(42).String())
}

func TestAbsorbEnergyFromCore(t *testing.T) {
	p := coarseWorldParams()
	p.WorldWaterMass = 0 // keep the ocean's heat out of the sum
	eb := newBalance(t, p, 1)
	before := eb.World().TotalThermalEnergy()

	eb.RunPhase(PhaseCore, p)

	gained := eb.World().TotalThermalEnergy() - before
	assert.InEpsilon(t, p.CorePower*p.TimeStepSize, gained, 1e-6)
}

func TestAbsorbEnergyFromSunDryWorld(t *testing.T) {
	p := coarseWorldParams()
	p.WorldWaterMass = 0
	eb := newBalance(t, p, 1)
	before := eb.World().TotalThermalEnergy()

	eb.RunPhase(PhaseSolar, p)

	want := 0.0
	maxEnergy := testSun().Flux(p.CellArea) * p.TimeStepSize
	for _, c := range eb.World().Cells() {
		want += maxEnergy * c.FacingSun * (1 - p.Land.Albedo)
	}
	gained := eb.World().TotalThermalEnergy() - before
	assert.InEpsilon(t, want, gained, 1e-6)
}

func TestAbsorbEnergyFromSunSkipsPoles(t *testing.T) {
	p := coarseWorldParams()
	eb := newBalance(t, p, 1)
	cells := eb.World().Cells()
	pole := cells[0]
	land, water := pole.Land.ThermalEnergy, pole.Water.ThermalEnergy

	eb.AbsorbEnergyFromSun(p)

	assert.Equal(t, land, pole.Land.ThermalEnergy)
	assert.Equal(t, water, pole.Water.ThermalEnergy)
}

func TestRadiateEnergyCoolsWorld(t *testing.T) {
	p := coarseWorldParams()
	eb := newBalance(t, p, 1)
	before := eb.World().TotalThermalEnergy()

	eb.RunPhase(PhaseRadiation, p)

	assert.Less(t, eb.World().TotalThermalEnergy(), before)
	for _, c := range eb.World().Cells() {
		assert.Greater(t, c.Land.ThermalEnergy, 0.0)
		assert.GreaterOrEqual(t, c.Water.ThermalEnergy, 0.0)
	}
}

func TestConductionConservesEnergy(t *testing.T) {
	p := coarseWorldParams()
	eb := newBalance(t, p, 1)
	// uneven temperatures so every pair has something to exchange
	for i, c := range eb.World().Cells() {
		c.Land.AbsorbEnergy(c.Land.HeatCapacity() * float64(i%7) * 3)
	}
	before := eb.World().TotalThermalEnergy()

	eb.RunPhase(PhaseConduction, p)

	assert.InEpsilon(t, before, eb.World().TotalThermalEnergy(), 1e-12)
}

func TestConductionWithoutVerticalExchange(t *testing.T) {
	p := coarseWorldParams()
	p.VerticalConduction = false
	eb := newBalance(t, p, 1)
	for _, c := range eb.World().Cells() {
		c.Water.AbsorbEnergy(-c.Water.HeatCapacity() * 20)
	}
	waterBefore := make([]float64, eb.World().Len())
	for i, c := range eb.World().Cells() {
		waterBefore[i] = c.Water.ThermalEnergy
	}

	eb.ConductEnergyBetweenCells(p)

	for i, c := range eb.World().Cells() {
		assert.Equal(t, waterBefore[i], c.Water.ThermalEnergy)
	}
}

func TestStepKeepsWaterAndStaysFinite(t *testing.T) {
	p := coarseWorldParams()
	eb := newBalance(t, p, 9)

	for i := 0; i < 20; i++ {
		eb.Step(p)
	}

	w := eb.World()
	assert.InEpsilon(t, p.WorldWaterMass, w.TotalWaterMass(), 1e-9)
	assert.GreaterOrEqual(t, w.MinWaterMass(), 0.0)
	for _, c := range w.Cells() {
		temp := c.SurfaceTemperature()
		assert.False(t, math.IsNaN(temp) || math.IsInf(temp, 0), "cell %d", c.ID)
		assert.Greater(t, temp, 0.0, "cell %d", c.ID)
	}
}

func TestStepDeterministicForSeed(t *testing.T) {
	p := coarseWorldParams()
	a := newBalance(t, p, 11)
	b := newBalance(t, p, 11)

	for i := 0; i < 5; i++ {
		a.Step(p)
		b.Step(p)
	}

	assert.Equal(t, a.World().TotalThermalEnergy(), b.World().TotalThermalEnergy())
	for i, c := range a.World().Cells() {
		assert.Equal(t, c.Water.Mass, b.World().Cells()[i].Water.Mass)
	}
}

func TestStepWithHugeTimeStep(t *testing.T) {
	p := coarseWorldParams()
	p.TimeStepSize = 365 * 86400 * 100
	eb := newBalance(t, p, 2)

	eb.Step(p)

	for _, c := range eb.World().Cells() {
		assert.GreaterOrEqual(t, c.Land.ThermalEnergy, 0.0)
		assert.False(t, math.IsNaN(c.Land.ThermalEnergy))
		assert.False(t, math.IsNaN(c.Water.ThermalEnergy))
	}
}

func TestStepRunsPhasesInOrder(t *testing.T) {
	p := coarseWorldParams()
	stepped := newBalance(t, p, 4)
	manual := newBalance(t, p, 4)

	for i := 0; i < 3; i++ {
		stepped.Step(p)

		manual.ConductEnergyBetweenCells(p)
		manual.AbsorbEnergyFromSun(p)
		manual.AbsorbEnergyFromCore(p)
		manual.RadiateEnergy(p)
		manual.SloshOceans(p)
	}

	for i, c := range stepped.World().Cells() {
		other := manual.World().Cells()[i]
		assert.Equal(t, c.Land.ThermalEnergy, other.Land.ThermalEnergy, "cell %d", i)
		assert.Equal(t, c.Water.ThermalEnergy, other.Water.ThermalEnergy, "cell %d", i)
		assert.Equal(t, c.Water.Mass, other.Water.Mass, "cell %d", i)
	}
}

func TestPhaseOrderMatters(t *testing.T) {
	p := coarseWorldParams()
	stepped := newBalance(t, p, 4)
	reordered := newBalance(t, p, 4)

	stepped.Step(p)

	reordered.RunPhase(PhaseRadiation, p)
	reordered.RunPhase(PhaseSolar, p)
	reordered.RunPhase(PhaseCore, p)
	reordered.RunPhase(PhaseConduction, p)
	reordered.RunPhase(PhaseSlosh, p)

	assert.NotEqual(t, stepped.World().TotalThermalEnergy(), reordered.World().TotalThermalEnergy())
}
