package core

import "fmt"

// MaterialKind tags the two reservoirs a cell carries
type MaterialKind uint8

const (
	Land MaterialKind = iota
	Water
)

// String returns the name accepted by Cell.AddMaterial
func (k MaterialKind) String() string {
	switch k {
	case Land:
		return "land"
	case Water:
		return "water"
	default:
		return fmt.Sprintf("MaterialKind(%d)", uint8(k))
	}
}

// ParseMaterialKind maps a material name to its kind
func ParseMaterialKind(name string) (MaterialKind, error) {
	switch name {
	case "land":
		return Land, nil
	case "water":
		return Water, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMaterial, name)
}

// Properties holds the fixed physical constants of one material
type Properties struct {
	SpecificHeatCapacity float64 // J/(kg·K)
	Density              float64 // kg/m³
	Albedo               float64 // fraction of sunlight reflected
	Emissivity           float64
	ThermalConductivity  float64 // W/(m·K)

	// Beer-Lambert attenuation, 1/m. Only meaningful for water.
	SunlightAttenuation float64
	InfraredAttenuation float64
}

// Material properties database
var DefaultMaterialProperties = map[MaterialKind]Properties{
	Land: {
		SpecificHeatCapacity: 800,
		Density:              3000,
		Albedo:               0.17,
		Emissivity:           0.92,
		ThermalConductivity:  1.5,
	},
	Water: {
		SpecificHeatCapacity: 4186,
		Density:              1000,
		Albedo:               0.06, // replaced per cell by the incidence-angle albedo
		Emissivity:           0.96,
		ThermalConductivity:  0.6,
		SunlightAttenuation:  0.05,
		InfraredAttenuation:  1.0,
	},
}

// WaterAlbedo returns the albedo of a water surface lit at the given
// facing-sun coefficient (1 overhead, 0 grazing).
func WaterAlbedo(facingSun, coefficient, offset float64) float64 {
	denom := facingSun + offset
	if denom <= 0 {
		return 1
	}
	albedo := coefficient / denom
	if albedo < 0 {
		return 0
	}
	if albedo > 1 {
		return 1
	}
	return albedo
}
