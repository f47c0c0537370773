package core

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Cell is one column of the world's surface: a land reservoir with a water
// reservoir on top of it.
type Cell struct {
	ID        int
	Latitude  float64 // degrees, [-90, 90]
	Longitude float64 // degrees, [-180, 180)

	// FacingSun stands in for the daily averaged solar incidence:
	// 1 at the equator, 0 at the poles.
	FacingSun float64

	Land  *Material
	Water *Material

	Neighbors []*Cell

	width float64 // m
	area  float64 // m²
	depth float64 // thickness of the thermally active land layer, m
}

// NewCell creates a cell at the given position. Land starts with the
// configured column mass at the initial land temperature; water starts empty.
func NewCell(id int, latitude, longitude float64, p Params) *Cell {
	facing := math.Cos(DegreesToRadians(latitude))
	if facing < 0 {
		facing = 0
	}
	if math.Abs(latitude) == 90 {
		facing = 0
	}

	waterProps := p.Water
	waterProps.Albedo = WaterAlbedo(facing, p.WaterAlbedoCoefficient, p.WaterAlbedoOffset)

	c := &Cell{
		ID:        id,
		Latitude:  latitude,
		Longitude: longitude,
		FacingSun: facing,
		Land:      NewMaterial(Land, p.Land, p.CellArea),
		Water:     NewMaterial(Water, waterProps, p.CellArea),
		width:     p.CellWidth,
		area:      p.CellArea,
		depth:     p.LandDepth,
	}
	c.Land.ChangeMass(p.CellArea*p.LandDepth*p.Land.Density, p.InitialLandTemperature)
	return c
}

// Width of the cell in meters
func (c *Cell) Width() float64 { return c.width }

// Area of the cell in m²
func (c *Cell) Area() float64 { return c.area }

// SurfaceHeight is the land height plus the water depth on top of it
func (c *Cell) SurfaceHeight() float64 {
	return c.Land.Height + c.Water.Depth()
}

// SurfaceTemperature is the water temperature where there is water, else the land's
func (c *Cell) SurfaceTemperature() float64 {
	if c.Water.Depth() > 0 {
		return c.Water.Temperature()
	}
	return c.Land.Temperature()
}

// HasWater reports whether any water sits on the cell
func (c *Cell) HasWater() bool {
	return c.Water.Mass > 0
}

// IsNeighbor reports whether other is in this cell's neighbour list
func (c *Cell) IsNeighbor(other *Cell) bool {
	for _, n := range c.Neighbors {
		if n == other {
			return true
		}
	}
	return false
}

// Link makes a and b neighbours of each other
func Link(a, b *Cell) {
	if a == b || a.IsNeighbor(b) {
		return
	}
	a.Neighbors = append(a.Neighbors, b)
	b.Neighbors = append(b.Neighbors, a)
}

// AddMaterial adds mass of the named material at the given temperature.
// Unknown names fail with ErrInvalidMaterial and leave the cell unchanged.
func (c *Cell) AddMaterial(name string, mass, temperature float64) error {
	kind, err := ParseMaterialKind(name)
	if err != nil {
		return fmt.Errorf("cell %d: %w", c.ID, err)
	}
	c.material(kind).ChangeMass(mass, temperature)
	return nil
}

func (c *Cell) material(kind MaterialKind) *Material {
	if kind == Water {
		return c.Water
	}
	return c.Land
}

// GainSolarEnergy runs sunlight down through the water column onto the land
// and sends the land's reflected share back up through the water. Whatever
// leaves the top of the column is lost to space.
func (c *Cell) GainSolarEnergy(incident float64) {
	remaining := incident

	// down through the water
	_, remaining = c.Water.ReflectSolarEnergy(remaining)
	_, remaining = c.Water.AbsorbSolarEnergy(remaining)

	// onto the land
	reflected, absorbed := c.Land.ReflectSolarEnergy(remaining)
	c.Land.AbsorbEnergy(absorbed)

	// back up through the water as diffuse longwave
	c.Water.AbsorbInfraredEnergy(reflected)
}

// GainCoreEnergy heats the land from below
func (c *Cell) GainCoreEnergy(energy float64) {
	c.Land.AbsorbEnergy(energy)
}

// RadiateEnergyVertically lets land radiate with the water column absorbing
// part of it on the way out, then hands the water's own radiative loss back to
// the land.
func (c *Cell) RadiateEnergyVertically(stefanBoltzmann, dt float64) {
	lost := c.Land.RadiateEnergy(stefanBoltzmann, dt)
	c.Water.AbsorbInfraredEnergy(lost)

	waterLost := c.Water.RadiateEnergy(stefanBoltzmann, dt)
	c.Land.AbsorbEnergy(waterLost)
}

// ConductEnergyVertically exchanges heat between land and water over the
// whole cell footprint. Each call only moves heat from hot to cold.
func (c *Cell) ConductEnergyVertically(dt float64) {
	if !c.HasWater() {
		return
	}
	c.Land.ConductEnergy(c.Water, c.area, dt)
	c.Water.ConductEnergy(c.Land, c.area, dt)
}

// ConductEnergyHorizontally conducts land heat into each neighbour's land
// across a vertical slice of cell width by land depth. Neighbours are visited
// in shuffled order when rng is non-nil.
func (c *Cell) ConductEnergyHorizontally(rng *rand.Rand, dt float64) {
	area := c.width * c.depth
	if rng != nil {
		rng.Shuffle(len(c.Neighbors), func(i, j int) {
			c.Neighbors[i], c.Neighbors[j] = c.Neighbors[j], c.Neighbors[i]
		})
	}
	for _, n := range c.Neighbors {
		c.Land.ConductEnergy(n.Land, area, dt)
	}
}
