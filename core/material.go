package core

import "math"

// Material is one reservoir of mass and thermal energy inside a cell.
// Land and water share this struct; Kind selects which constants apply.
type Material struct {
	Kind          MaterialKind
	Mass          float64 // kg
	ThermalEnergy float64 // J

	// Height is the terrain elevation in meters. Only land uses it.
	Height float64

	props Properties
	area  float64 // footprint of the owning cell, m²
}

// NewMaterial creates an empty reservoir over a cell of the given area
func NewMaterial(kind MaterialKind, props Properties, area float64) *Material {
	return &Material{
		Kind:  kind,
		props: props,
		area:  area,
	}
}

// Properties returns the constants this material was created with
func (m *Material) Properties() Properties {
	return m.props
}

// Temperature in Kelvin. Zero for an empty reservoir.
func (m *Material) Temperature() float64 {
	heatCapacity := m.Mass * m.props.SpecificHeatCapacity
	if heatCapacity == 0 {
		return 0
	}
	return m.ThermalEnergy / heatCapacity
}

// Volume in m³
func (m *Material) Volume() float64 {
	if m.props.Density == 0 {
		return 0
	}
	return m.Mass / m.props.Density
}

// Depth of the material column in meters
func (m *Material) Depth() float64 {
	if m.area == 0 {
		return 0
	}
	return m.Volume() / m.area
}

// HeatCapacity is mass times specific heat capacity, J/K
func (m *Material) HeatCapacity() float64 {
	return m.Mass * m.props.SpecificHeatCapacity
}

// ChangeMass adds (or, with a negative delta, removes) mass arriving at the
// given temperature. The caller must not remove more than the reservoir holds.
func (m *Material) ChangeMass(delta, incomingTemperature float64) {
	m.Mass += delta
	m.ThermalEnergy += incomingTemperature * delta * m.props.SpecificHeatCapacity
}

// ReflectSolarEnergy splits incident sunlight into the reflected share and the
// remainder. An empty reservoir reflects nothing.
func (m *Material) ReflectSolarEnergy(incident float64) (reflected, remaining float64) {
	if m.Mass > 0 {
		reflected = incident * m.props.Albedo
	}
	return reflected, incident - reflected
}

// AbsorbEnergy adds energy, which may be negative
func (m *Material) AbsorbEnergy(energy float64) {
	m.ThermalEnergy += energy
}

// AbsorbSolarEnergy attenuates sunlight through the material column
func (m *Material) AbsorbSolarEnergy(incident float64) (absorbed, remaining float64) {
	return m.attenuate(incident, m.props.SunlightAttenuation)
}

// AbsorbInfraredEnergy attenuates longwave energy through the material column
func (m *Material) AbsorbInfraredEnergy(incident float64) (absorbed, remaining float64) {
	return m.attenuate(incident, m.props.InfraredAttenuation)
}

// attenuate applies Beer-Lambert absorption over the current depth
func (m *Material) attenuate(incident, coefficient float64) (absorbed, remaining float64) {
	depth := m.Depth()
	if depth <= 0 || coefficient <= 0 {
		return 0, incident
	}
	absorbed = incident * (1 - math.Exp(-coefficient*depth))
	m.ThermalEnergy += absorbed
	return absorbed, incident - absorbed
}

// RadiateEnergy advances Stefan-Boltzmann cooling by dt seconds using the
// closed-form solution of dE/dt = -σAεT⁴ with T = E/(m·c):
//
//	Z     = 3σAεΔt / (m⁴c⁴)
//	E_new = (Z + E_old⁻³)^(-1/3)
//
// It returns the energy lost. Empty or non-positive reservoirs are left alone.
func (m *Material) RadiateEnergy(stefanBoltzmann, dt float64) float64 {
	if m.ThermalEnergy <= 0 || m.Mass == 0 {
		return 0
	}
	heatCapacity := m.Mass * m.props.SpecificHeatCapacity
	if heatCapacity <= 0 {
		return 0
	}
	hc2 := heatCapacity * heatCapacity
	z := 3 * stefanBoltzmann * m.area * m.props.Emissivity * dt / (hc2 * hc2)
	if z <= 0 || math.IsInf(z, 0) || math.IsNaN(z) {
		return 0
	}

	old := m.ThermalEnergy
	updated := math.Pow(z+math.Pow(old, -3), -1.0/3.0)
	if math.IsNaN(updated) || updated > old {
		return 0
	}
	m.ThermalEnergy = updated
	return old - updated
}

// ConductEnergy moves heat from m into target over the contact area for dt
// seconds. Transfer only happens when m is hotter; the reverse direction is
// handled by calling it on target.
//
// The pair relaxes exponentially toward the energy split at which both
// temperatures match, so a single call never overshoots equilibrium.
func (m *Material) ConductEnergy(target *Material, area, dt float64) float64 {
	c1 := m.HeatCapacity()
	c2 := target.HeatCapacity()
	if c1 <= 0 || c2 <= 0 {
		return 0
	}
	e1 := m.ThermalEnergy
	e2 := target.ThermalEnergy
	if e1/c1 <= e2/c2 {
		return 0
	}

	conductance := m.props.ThermalConductivity * area
	rate := conductance * (1/c1 + 1/c2)
	equilibrium := (e1 + e2) * c1 / (c1 + c2)
	after := equilibrium + (e1-equilibrium)*math.Exp(-rate*dt)

	transferred := e1 - after
	if transferred <= 0 || math.IsNaN(transferred) {
		return 0
	}
	m.ThermalEnergy = e1 - transferred
	target.ThermalEnergy = e2 + transferred
	return transferred
}
