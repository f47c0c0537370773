package simulation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"eden/core"
	"eden/physics"
)

// Options tunes the run loop
type Options struct {
	Interval    time.Duration // wall time between steps in Run
	LogEvery    int64         // log diagnostics every N steps, 0 disables
	MinTimeStep float64
	MaxTimeStep float64
	Logger      *slog.Logger
}

// Runner owns a world and steps it from a single goroutine. Readers take
// snapshots under the same lock, so a step is never observed half done.
type Runner struct {
	mu sync.RWMutex

	world   *core.World
	physics *physics.EnergyBalance
	params  core.Params
	clock   *TimeControl
	steps   int64
	paused  bool

	interval time.Duration
	logEvery int64
	log      *slog.Logger
}

// NewRunner wires a world to its stepper
func NewRunner(world *core.World, sun core.Sun, opts Options) *Runner {
	params := world.Params()
	if opts.MinTimeStep <= 0 {
		opts.MinTimeStep = 60
	}
	if opts.MaxTimeStep <= 0 {
		opts.MaxTimeStep = 365 * 86400
	}
	if opts.Interval <= 0 {
		opts.Interval = 100 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	clock := NewTimeControl(params.TimeStepSize, opts.MinTimeStep, opts.MaxTimeStep)
	params.TimeStepSize = clock.CurrentStep

	return &Runner{
		world:    world,
		physics:  physics.NewEnergyBalance(world, sun),
		params:   params,
		clock:    clock,
		interval: opts.Interval,
		logEvery: opts.LogEvery,
		log:      opts.Logger,
	}
}

// Step advances the world by one time step
func (r *Runner) Step() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stepLocked()
}

// StepN advances the world n steps, stopping early if ctx is cancelled.
// A step in progress always completes.
func (r *Runner) StepN(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Step()
	}
	return nil
}

func (r *Runner) stepLocked() {
	r.params.TimeStepSize = r.clock.CurrentStep
	r.physics.Step(r.params)
	r.clock.Advance()
	r.steps++

	if r.logEvery > 0 && r.steps%r.logEvery == 0 {
		stats := CollectStats(r.world)
		r.log.Info("step",
			"step", r.steps,
			"days", r.clock.ElapsedDays(),
			"time_step", r.clock.CurrentStep,
			"water_mass", stats.TotalWaterMass,
			"energy", stats.TotalThermalEnergy,
			"mean_surface_temp", stats.MeanSurfaceTemperature,
			"ocean_fraction", stats.OceanFraction)
	}
}

// Run steps the world on a ticker until ctx is cancelled
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("simulation loop started", "interval", r.interval, "time_step", r.TimeStep())
	for {
		select {
		case <-ctx.Done():
			r.log.Info("simulation loop stopped", "steps", r.Steps())
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			r.mu.Lock()
			if !r.paused {
				r.stepLocked()
			}
			r.mu.Unlock()
			if elapsed := time.Since(start); elapsed > r.interval {
				r.log.Warn("slow step", "elapsed", elapsed, "interval", r.interval)
			}
		}
	}
}

// Snapshot copies the current world state
func (r *Runner) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := createSnapshot(r.world)
	snap.Step = r.steps
	snap.Time = r.clock.Elapsed
	snap.TimeStepSize = r.clock.CurrentStep
	snap.StepInfo = r.clock.GetStepInfo()
	return snap
}

// Stats summarises the current world
func (r *Runner) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return CollectStats(r.world)
}

// RaiseCell edits the terrain around one cell
func (r *Runner) RaiseCell(id int, height float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.world.RaiseCell(id, height); err != nil {
		return err
	}
	r.log.Debug("raised cell", "cell", id, "height", height)
	return nil
}

// SetTimeStep changes the seconds simulated per step and returns the clamped value
func (r *Runner) SetTimeStep(step float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	applied := r.clock.Set(step)
	r.log.Info("time step changed", "requested", step, "applied", applied)
	return applied
}

// FastForward increases the time step by the clock's factor
func (r *Runner) FastForward() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clock.FastForward()
}

// SlowDown decreases the time step by the clock's factor
func (r *Runner) SlowDown() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clock.SlowDown()
}

// TimeStep returns the current seconds per step
func (r *Runner) TimeStep() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clock.CurrentStep
}

// Steps returns how many steps have run
func (r *Runner) Steps() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.steps
}

// SetPaused stops or resumes stepping in Run
func (r *Runner) SetPaused(paused bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = paused
}

// Paused reports whether Run is skipping steps
func (r *Runner) Paused() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.paused
}
