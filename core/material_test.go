package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stefanBoltzmann = 5.6703e-8

func landMaterial(mass, energy, area float64) *Material {
	m := NewMaterial(Land, Properties{
		SpecificHeatCapacity: 800,
		Density:              3000,
		Albedo:               0.17,
		Emissivity:           0.92,
		ThermalConductivity:  1.5,
	}, area)
	m.Mass = mass
	m.ThermalEnergy = energy
	return m
}

func waterMaterial(mass, temperature, area float64) *Material {
	m := NewMaterial(Water, DefaultMaterialProperties[Water], area)
	m.ChangeMass(mass, temperature)
	return m
}

func TestMaterialDerivedQuantities(t *testing.T) {
	m := waterMaterial(2e6, 300, 1000)

	assert.InDelta(t, 300.0, m.Temperature(), 1e-9)
	assert.InDelta(t, 2000.0, m.Volume(), 1e-9)
	assert.InDelta(t, 2.0, m.Depth(), 1e-12)

	empty := NewMaterial(Water, DefaultMaterialProperties[Water], 1000)
	assert.Zero(t, empty.Temperature())
	assert.Zero(t, empty.Depth())
}

func TestChangeMass(t *testing.T) {
	m := waterMaterial(1000, 280, 1)
	before := m.ThermalEnergy

	m.ChangeMass(500, 300)
	assert.InDelta(t, 1500.0, m.Mass, 1e-9)
	assert.InDelta(t, before+300*500*4186, m.ThermalEnergy, 1e-3)

	// removing at the material's own temperature keeps the temperature
	temp := m.Temperature()
	m.ChangeMass(-700, temp)
	assert.InDelta(t, 800.0, m.Mass, 1e-9)
	assert.InDelta(t, temp, m.Temperature(), 1e-9)
}

func TestReflectSolarEnergy(t *testing.T) {
	m := landMaterial(10, 1000, 1)
	reflected, remaining := m.ReflectSolarEnergy(100)
	assert.InDelta(t, 17.0, reflected, 1e-12)
	assert.InDelta(t, 83.0, remaining, 1e-12)
	assert.Equal(t, 1000.0, m.ThermalEnergy, "reflection must not change the material")

	empty := NewMaterial(Water, DefaultMaterialProperties[Water], 1)
	reflected, remaining = empty.ReflectSolarEnergy(100)
	assert.Zero(t, reflected)
	assert.Equal(t, 100.0, remaining)
}

func TestAbsorbSolarEnergyBeerLambert(t *testing.T) {
	m := waterMaterial(10*1000*1000, 280, 1000) // 10 m deep
	before := m.ThermalEnergy

	absorbed, remaining := m.AbsorbSolarEnergy(1e6)
	want := 1e6 * (1 - math.Exp(-0.05*10))
	assert.InDelta(t, want, absorbed, 1e-6)
	assert.InDelta(t, 1e6-want, remaining, 1e-6)
	assert.InEpsilon(t, before+want, m.ThermalEnergy, 1e-12)

	// infrared is absorbed far more strongly
	irAbsorbed, _ := m.AbsorbInfraredEnergy(1e6)
	assert.Greater(t, irAbsorbed, absorbed)

	dry := NewMaterial(Water, DefaultMaterialProperties[Water], 1000)
	absorbed, remaining = dry.AbsorbSolarEnergy(1e6)
	assert.Zero(t, absorbed)
	assert.Equal(t, 1e6, remaining)
}

func TestAbsorbEnergyAcceptsLoss(t *testing.T) {
	m := landMaterial(10, 1000, 1)
	m.AbsorbEnergy(-250)
	assert.Equal(t, 750.0, m.ThermalEnergy)
}

func TestRadiateEnergyScenario(t *testing.T) {
	m := landMaterial(5000, 1.2e9, 1e6)
	before := m.Temperature()
	require.InDelta(t, 300.0, before, 1e-9)

	lost := m.RadiateEnergy(stefanBoltzmann, 86400)

	assert.Greater(t, lost, 0.0)
	assert.False(t, math.IsInf(lost, 0) || math.IsNaN(lost))
	assert.LessOrEqual(t, lost, 1.2e9)
	assert.Greater(t, m.Temperature(), 0.0)
	assert.Less(t, m.Temperature(), before)
	assert.InDelta(t, 1.2e9-lost, m.ThermalEnergy, 1e-3)
}

func TestRadiateEnergyMatchesClosedForm(t *testing.T) {
	m := landMaterial(5000, 1.2e9, 1e6)
	mc := 5000.0 * 800.0
	z := 3 * stefanBoltzmann * 1e6 * 0.92 * 3600 / math.Pow(mc, 4)
	want := math.Pow(z+math.Pow(1.2e9, -3), -1.0/3.0)

	m.RadiateEnergy(stefanBoltzmann, 3600)
	assert.InEpsilon(t, want, m.ThermalEnergy, 1e-9)
}

func TestRadiateEnergyStableAtAnyStep(t *testing.T) {
	for _, dt := range []float64{1, 60, 86400, 3.15e7, 1e12, 1e20} {
		m := landMaterial(5000, 1.2e9, 1e6)
		lost := m.RadiateEnergy(stefanBoltzmann, dt)

		assert.GreaterOrEqual(t, lost, 0.0, "dt=%g", dt)
		assert.LessOrEqual(t, lost, 1.2e9, "dt=%g", dt)
		assert.GreaterOrEqual(t, m.ThermalEnergy, 0.0, "dt=%g", dt)
		assert.False(t, math.IsNaN(m.ThermalEnergy), "dt=%g", dt)
	}
}

func TestRadiateEnergyGuards(t *testing.T) {
	tests := []struct {
		name   string
		mass   float64
		energy float64
	}{
		{name: "no mass", mass: 0, energy: 1e9},
		{name: "zero energy", mass: 5000, energy: 0},
		{name: "negative energy", mass: 5000, energy: -10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := landMaterial(tc.mass, tc.energy, 1e6)
			assert.Zero(t, m.RadiateEnergy(stefanBoltzmann, 86400))
			assert.Equal(t, tc.energy, m.ThermalEnergy)
		})
	}
}

func TestConductEnergyOnlyFlowsHotToCold(t *testing.T) {
	hot := landMaterial(1000, 1000*800*350, 1)
	cold := landMaterial(1000, 1000*800*250, 1)

	assert.Zero(t, cold.ConductEnergy(hot, 1, 3600), "cold to hot must not transfer")
	assert.Equal(t, 1000*800*250.0, cold.ThermalEnergy)

	total := hot.ThermalEnergy + cold.ThermalEnergy
	moved := hot.ConductEnergy(cold, 1, 3600)
	assert.Greater(t, moved, 0.0)
	assert.InDelta(t, total, hot.ThermalEnergy+cold.ThermalEnergy, 1e-3)
	assert.GreaterOrEqual(t, hot.Temperature(), cold.Temperature())
}

func TestConductEnergyNeverOvershoots(t *testing.T) {
	for _, dt := range []float64{1, 1e3, 1e6, 1e9, 1e15} {
		hot := landMaterial(100, 100*800*400, 1)
		cold := waterMaterial(300, 270, 1)

		hot.ConductEnergy(cold, 10, dt)
		assert.GreaterOrEqual(t, hot.Temperature()+1e-9, cold.Temperature(), "dt=%g", dt)
	}

	// a very long step settles on the shared temperature
	hot := landMaterial(100, 100*800*400, 1)
	cold := landMaterial(300, 300*800*200, 1)
	hot.ConductEnergy(cold, 10, 1e12)
	assert.InDelta(t, 250.0, hot.Temperature(), 1e-6)
	assert.InDelta(t, 250.0, cold.Temperature(), 1e-6)
}

func TestConductEnergyEmptyTarget(t *testing.T) {
	hot := landMaterial(1000, 1000*800*350, 1)
	empty := NewMaterial(Water, DefaultMaterialProperties[Water], 1)

	assert.Zero(t, hot.ConductEnergy(empty, 1, 3600))
	assert.Zero(t, empty.ThermalEnergy)
}

func TestWaterAlbedo(t *testing.T) {
	overhead := WaterAlbedo(1, 0.05, 0.15)
	grazing := WaterAlbedo(0.1, 0.05, 0.15)

	assert.InDelta(t, 0.05/1.15, overhead, 1e-12)
	assert.Greater(t, grazing, overhead)
	assert.Equal(t, 1.0, WaterAlbedo(0, 1, 0.15))
	assert.Equal(t, 1.0, WaterAlbedo(-1, 0.05, 0))
}

func TestParseMaterialKind(t *testing.T) {
	kind, err := ParseMaterialKind("water")
	require.NoError(t, err)
	assert.Equal(t, Water, kind)
	assert.Equal(t, "land", Land.String())

	_, err = ParseMaterialKind("lava")
	assert.ErrorIs(t, err, ErrInvalidMaterial)
	assert.Contains(t, err.Error(), "lava")
}
