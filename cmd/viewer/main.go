//go:build raylib

package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"runtime"

	"eden/config"
	"eden/core"
	"eden/simulation"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type drawMode int

const (
	modeTerrain drawMode = iota
	modeTemperature
	modeWater
)

func (m drawMode) String() string {
	switch m {
	case modeTemperature:
		return "HEAT"
	case modeWater:
		return "WATER"
	default:
		return "TERRA"
	}
}

// tile is the screen rectangle of one cell on the equirectangular map
type tile struct {
	x, y, w, h int32
}

func main() {
	runtime.LockOSThread()

	var (
		configPath = flag.String("config", "settings.json", "Settings file (.json or .yaml)")
		width      = flag.Int("width", 1280, "Window width")
		height     = flag.Int("height", 640, "Window height")
		raise      = flag.Float64("raise", 2000, "Height added by a left click, removed by a right click")
	)
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	world, err := core.NewWorld(settings.Params(), core.NewRand(settings.Simulation.Seed))
	if err != nil {
		log.Fatalf("Failed to create world: %v", err)
	}
	runner := simulation.NewRunner(world, settings.Sun(), simulation.Options{
		LogEvery:    settings.Logging.LogEvery,
		MinTimeStep: settings.Simulation.MinTimeStep,
		MaxTimeStep: settings.Simulation.MaxTimeStep,
	})

	rl.InitWindow(int32(*width), int32(*height), "Eden")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	snapshot := runner.Snapshot()
	tiles := layoutTiles(snapshot, settings.Params().DegreesPerCell(), int32(*width), int32(*height))
	mode := modeTerrain
	running := false

	fmt.Println("\nControls:")
	fmt.Println("  1-3: Terrain / Temperature / Water")
	fmt.Println("  Space: Run or pause   S: Single step")
	fmt.Println("  Up/Down: Faster / slower time")
	fmt.Println("  Left/Right click: Raise / lower terrain")

	for !rl.WindowShouldClose() {
		switch {
		case rl.IsKeyPressed(rl.KeyOne):
			mode = modeTerrain
		case rl.IsKeyPressed(rl.KeyTwo):
			mode = modeTemperature
		case rl.IsKeyPressed(rl.KeyThree):
			mode = modeWater
		case rl.IsKeyPressed(rl.KeySpace):
			running = !running
		case rl.IsKeyPressed(rl.KeyUp):
			runner.FastForward()
		case rl.IsKeyPressed(rl.KeyDown):
			runner.SlowDown()
		}

		dirty := false
		if running || rl.IsKeyPressed(rl.KeyS) {
			runner.Step()
			dirty = true
		}
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) || rl.IsMouseButtonPressed(rl.MouseButtonRight) {
			pos := rl.GetMousePosition()
			id := pickCell(snapshot, float64(pos.X), float64(pos.Y), float64(*width), float64(*height))
			h := *raise
			if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
				h = -h
			}
			if err := runner.RaiseCell(id, h); err != nil {
				log.Printf("raise cell %d: %v", id, err)
			}
			dirty = true
		}
		if dirty {
			snapshot = runner.Snapshot()
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		for i, c := range snapshot.Cells {
			t := tiles[i]
			rl.DrawRectangle(t.x, t.y, t.w, t.h, cellColor(c, mode, settings.Physics))
		}
		status := fmt.Sprintf("%s | day %.0f | dt %.0fs (%s) | mean %.1fK | %s",
			mode, snapshot.Time/86400, snapshot.TimeStepSize, snapshot.StepInfo,
			snapshot.Stats.MeanSurfaceTemperature, runState(running))
		rl.DrawText(status, 10, 10, 20, rl.RayWhite)
		rl.EndDrawing()
	}
}

func runState(running bool) string {
	if running {
		return "running"
	}
	return "paused"
}

// layoutTiles maps each cell to a rectangle. Cells in one latitude band share
// the band's row and split its width evenly.
func layoutTiles(s simulation.Snapshot, degreesPerCell float64, width, height int32) []tile {
	bandSize := map[float64]int{}
	for _, c := range s.Cells {
		bandSize[c.Latitude]++
	}
	rowHeight := float64(height) * degreesPerCell / 180
	tiles := make([]tile, len(s.Cells))
	for i, c := range s.Cells {
		n := bandSize[c.Latitude]
		w := float64(width) / float64(n)
		x := (c.Longitude + 180) / 360 * float64(width)
		y := (90-c.Latitude)/180*float64(height) - rowHeight/2
		tiles[i] = tile{
			x: int32(math.Floor(x)),
			y: int32(math.Floor(y)),
			w: int32(math.Ceil(w)),
			h: int32(math.Ceil(rowHeight)),
		}
	}
	return tiles
}

// pickCell returns the cell nearest to a screen position
func pickCell(s simulation.Snapshot, x, y, width, height float64) int {
	target := core.Geographic{
		Lat: 90 - y/height*180,
		Lon: core.NormalizeLongitude(x/width*360 - 180),
	}
	// the closest cell on the unit sphere has the largest dot product
	dir := core.GeographicToCartesian(target, 1.0)
	best, bestDot := 0, math.Inf(-1)
	for i, c := range s.Cells {
		if dot := c.Position.Dot(dir); dot > bestDot {
			best, bestDot = i, dot
		}
	}
	return best
}

func cellColor(c simulation.CellState, mode drawMode, p config.PhysicsSettings) rl.Color {
	switch mode {
	case modeTemperature:
		// 200K blue to 340K red
		t := clamp01((c.SurfaceTemperature - 200) / 140)
		return lerp(rl.NewColor(40, 60, 220, 255), rl.NewColor(230, 40, 30, 255), t)
	case modeWater:
		if c.WaterDepth <= 0 {
			return rl.NewColor(60, 50, 40, 255)
		}
		t := clamp01(c.WaterDepth / -p.MinGroundHeight)
		return lerp(rl.NewColor(150, 200, 255, 255), rl.NewColor(10, 30, 120, 255), t)
	default:
		if c.WaterDepth > 0 {
			return rl.NewColor(30, 80, 170, 255)
		}
		t := clamp01((c.LandHeight - p.MinGroundHeight) / (p.MaxGroundHeight - p.MinGroundHeight))
		return lerp(rl.NewColor(59, 19, 9, 255), rl.NewColor(245, 222, 179, 255), t)
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func lerp(a, b rl.Color, t float64) rl.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x)*(1-t) + float64(y)*t)
	}
	return rl.NewColor(mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255)
}
