package core

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// World is the ordered set of cells covering the sphere
type World struct {
	params Params
	cells  []*Cell
	rng    *rand.Rand
	log    *slog.Logger
}

// NewRand returns the deterministic random source used for terrain and shuffles
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// NewWorld builds cells, links neighbours, distorts the terrain and fills the
// oceans. The random source drives terrain, the dump cell and every shuffle.
func NewWorld(p Params, rng *rand.Rand) (*World, error) {
	if p.WaterInitMode != WaterInitEven && p.WaterInitMode != WaterInitDump {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWaterMode, p.WaterInitMode)
	}
	if p.CellCircumference < 2 {
		return nil, fmt.Errorf("cell circumference must be at least 2, got %d", p.CellCircumference)
	}
	if rng == nil {
		rng = NewRand(1)
	}

	w := &World{params: p, rng: rng, log: slog.Default()}

	w.log.Info("creating cells", "circumference", p.CellCircumference)
	w.createCells()

	w.log.Info("assigning cell neighbors", "cells", len(w.cells))
	w.AssignNeighbors()

	w.log.Info("distorting terrain", "distortions", p.Distortions)
	w.CreateTerrain(p.Distortions)
	w.NormalizeTerrain()

	w.log.Info("creating oceans", "mode", p.WaterInitMode, "mass", p.WorldWaterMass)
	if err := w.CreateOceans(p.WaterInitMode, p.WorldWaterMass, p.InitialWaterTemperature); err != nil {
		return nil, err
	}

	minH, maxH := w.LandHeightRange()
	w.log.Info("world created",
		"cells", len(w.cells),
		"min_height", minH,
		"max_height", maxH,
		"water_mass", w.TotalWaterMass())
	return w, nil
}

// NewWorldFromCells wraps an existing set of cells. Cell IDs are reassigned to
// their slice index; neighbour links are left as given.
func NewWorldFromCells(p Params, rng *rand.Rand, cells []*Cell) *World {
	if rng == nil {
		rng = NewRand(1)
	}
	for i, c := range cells {
		c.ID = i
	}
	return &World{params: p, cells: cells, rng: rng, log: slog.Default()}
}

// Params returns the parameters the world was built with
func (w *World) Params() Params { return w.params }

// Cells exposes the ordered cell slice. Callers must not reorder it.
func (w *World) Cells() []*Cell { return w.cells }

// Len returns the number of cells
func (w *World) Len() int { return len(w.cells) }

// Rand returns the world's random source
func (w *World) Rand() *rand.Rand { return w.rng }

// Cell returns the cell with the given id
func (w *World) Cell(id int) (*Cell, error) {
	if id < 0 || id >= len(w.cells) {
		return nil, fmt.Errorf("%w: %d", ErrCellNotFound, id)
	}
	return w.cells[id], nil
}

// ShuffledCells returns a random permutation of the cells without touching
// the world's own ordering.
func (w *World) ShuffledCells() []*Cell {
	order := make([]*Cell, len(w.cells))
	copy(order, w.cells)
	w.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// BandCellCount returns how many cells fit around the latitude band at the
// given polar angle (0 at the north pole, 180 at the south) so that each cell
// is roughly cellWidth wide.
func BandCellCount(polarDegrees, radius, cellWidth float64) int {
	if polarDegrees <= 0 || polarDegrees >= 180 {
		return 1
	}
	circ := 2 * math.Pi * math.Sin(DegreesToRadians(polarDegrees)) * radius
	count := int(math.Round(circ / cellWidth))
	if count < 1 {
		count = 1
	}
	return count
}

// createCells lays cells out band by band from the north pole southwards.
// With an odd circumference the last band stops short of the south pole.
func (w *World) createCells() {
	p := w.params
	bands := p.CellCircumference/2 + 1

	w.cells = w.cells[:0]
	for y := 0; y < bands; y++ {
		polar := 360.0 * float64(y) / float64(p.CellCircumference)
		latitude := 90.0 - polar

		count := BandCellCount(polar, p.WorldRadius, p.CellWidth)
		for x := 0; x < count; x++ {
			longitude := NormalizeLongitude(360.0/float64(count)*float64(x) - 180.0)
			w.cells = append(w.cells, NewCell(len(w.cells), latitude, longitude, p))
		}
	}
}

// AssignNeighbors links every pair of cells closer than the neighbour threshold
func (w *World) AssignNeighbors() {
	threshold := w.params.NeighborThreshold()
	for _, c := range w.cells {
		c.Neighbors = c.Neighbors[:0]
	}
	for a := 0; a < len(w.cells); a++ {
		cell := w.cells[a]
		for b := a + 1; b < len(w.cells); b++ {
			other := w.cells[b]
			if GreatCircleAngle(cell.Position(), other.Position()) < threshold {
				cell.Neighbors = append(cell.Neighbors, other)
				other.Neighbors = append(other.Neighbors, cell)
			}
		}
	}
}

// distortion is one radial terrain bump
type distortion struct {
	center    Geographic
	magnitude float64
	rate      float64
}

func (w *World) randomRate() float64 {
	return w.rng.Float64()*w.params.DistortionRateSpread + w.params.DistortionRateMin
}

// CreateTerrain raises n random bumps whose influence falls off as
// magnitude / (distance/(scale·rate) + 1).
func (w *World) CreateTerrain(n int) {
	if n <= 0 || len(w.cells) == 0 {
		return
	}
	bumps := make([]distortion, n)
	for i := range bumps {
		bumps[i] = distortion{
			center:    w.cells[w.rng.IntN(len(w.cells))].Position(),
			magnitude: w.params.DistortionHeight,
			rate:      w.randomRate(),
		}
	}

	contributions := make([]float64, n)
	for _, c := range w.cells {
		for i, d := range bumps {
			contributions[i] = w.bumpHeight(c, d)
		}
		c.Land.Height += floats.Sum(contributions)
	}
}

func (w *World) bumpHeight(c *Cell, d distortion) float64 {
	distance := GreatCircleDistance(c.Position(), d.center, w.params.WorldRadius)
	return d.magnitude / (distance/(w.params.DistortionScale*d.rate) + 1)
}

// NormalizeTerrain shifts land heights to a zero mean and then scales them
// uniformly so that none falls outside [MinGroundHeight, MaxGroundHeight].
func (w *World) NormalizeTerrain() {
	if len(w.cells) == 0 {
		return
	}
	heights := w.LandHeights()
	mean := floats.Sum(heights) / float64(len(heights))
	floats.AddConst(-mean, heights)

	scale := 1.0
	if w.params.MinGroundHeight < 0 {
		scale = math.Max(scale, floats.Min(heights)/w.params.MinGroundHeight)
	}
	if w.params.MaxGroundHeight > 0 {
		scale = math.Max(scale, floats.Max(heights)/w.params.MaxGroundHeight)
	}
	floats.Scale(1/scale, heights)

	for i, c := range w.cells {
		c.Land.Height = heights[i]
	}
}

// CreateOceans puts the world's water on the cells, either spread evenly or
// dumped into one random cell.
func (w *World) CreateOceans(mode string, mass, temperature float64) error {
	if len(w.cells) == 0 {
		return nil
	}
	switch mode {
	case WaterInitEven:
		perCell := mass / float64(len(w.cells))
		for _, c := range w.cells {
			if err := c.AddMaterial(Water.String(), perCell, temperature); err != nil {
				return err
			}
		}
	case WaterInitDump:
		c := w.cells[w.rng.IntN(len(w.cells))]
		if err := c.AddMaterial(Water.String(), mass, temperature); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidWaterMode, mode)
	}
	return nil
}

// RaiseCell adds a terrain bump of the given height centred on one cell and
// renormalises the whole world.
func (w *World) RaiseCell(id int, height float64) error {
	center, err := w.Cell(id)
	if err != nil {
		return err
	}
	d := distortion{
		center:    center.Position(),
		magnitude: height,
		rate:      w.randomRate(),
	}
	for _, c := range w.cells {
		c.Land.Height += w.bumpHeight(c, d)
	}
	w.NormalizeTerrain()
	return nil
}
