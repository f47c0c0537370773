package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"eden/core"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSettings is returned when a settings value cannot drive a world
var ErrInvalidSettings = errors.New("invalid settings")

type Settings struct {
	Simulation SimulationSettings `json:"simulation" yaml:"simulation"`
	Physics    PhysicsSettings    `json:"physics" yaml:"physics"`
	Server     ServerSettings     `json:"server" yaml:"server"`
	Logging    LoggingSettings    `json:"logging" yaml:"logging"`
}

type SimulationSettings struct {
	CellCircumference  int     `json:"cellCircumference" yaml:"cell_circumference"`
	Seed               int64   `json:"seed" yaml:"seed"`
	TimeStepSize       float64 `json:"timeStepSize" yaml:"time_step_size"`
	MinTimeStep        float64 `json:"minTimeStep" yaml:"min_time_step"`
	MaxTimeStep        float64 `json:"maxTimeStep" yaml:"max_time_step"`
	Distortions        int     `json:"distortions" yaml:"distortions"`
	WaterInitMode      string  `json:"waterInitMode" yaml:"water_init_mode"`
	VerticalConduction bool    `json:"verticalConduction" yaml:"vertical_conduction"`
	Comment            string  `json:"comment" yaml:"comment"`
}

type PhysicsSettings struct {
	WorldCircumference float64 `json:"worldCircumference" yaml:"world_circumference"`
	StefanBoltzmann    float64 `json:"stefanBoltzmann" yaml:"stefan_boltzmann"`
	CorePower          float64 `json:"corePower" yaml:"core_power"`
	SunPower           float64 `json:"sunPower" yaml:"sun_power"`
	SunDistance        float64 `json:"sunDistance" yaml:"sun_distance"`
	WorldWaterMass     float64 `json:"worldWaterMass" yaml:"world_water_mass"`
	LandDepth          float64 `json:"landDepth" yaml:"land_depth"`

	InitialLandTemperature  float64 `json:"initialLandTemperature" yaml:"initial_land_temperature"`
	InitialWaterTemperature float64 `json:"initialWaterTemperature" yaml:"initial_water_temperature"`

	Land                   MaterialSettings `json:"land" yaml:"land"`
	Water                  MaterialSettings `json:"water" yaml:"water"`
	WaterAlbedoCoefficient float64          `json:"waterAlbedoCoefficient" yaml:"water_albedo_coefficient"`
	WaterAlbedoOffset      float64          `json:"waterAlbedoOffset" yaml:"water_albedo_offset"`

	MinGroundHeight      float64 `json:"minGroundHeight" yaml:"min_ground_height"`
	MaxGroundHeight      float64 `json:"maxGroundHeight" yaml:"max_ground_height"`
	DistortionHeight     float64 `json:"distortionHeight" yaml:"distortion_height"`
	DistortionScale      float64 `json:"distortionScale" yaml:"distortion_scale"`
	DistortionRateMin    float64 `json:"distortionRateMin" yaml:"distortion_rate_min"`
	DistortionRateSpread float64 `json:"distortionRateSpread" yaml:"distortion_rate_spread"`
}

type MaterialSettings struct {
	SpecificHeatCapacity float64 `json:"specificHeatCapacity" yaml:"specific_heat_capacity"`
	Density              float64 `json:"density" yaml:"density"`
	Albedo               float64 `json:"albedo" yaml:"albedo"`
	Emissivity           float64 `json:"emissivity" yaml:"emissivity"`
	ThermalConductivity  float64 `json:"thermalConductivity" yaml:"thermal_conductivity"`
	SunlightAttenuation  float64 `json:"sunlightAttenuation,omitempty" yaml:"sunlight_attenuation,omitempty"`
	InfraredAttenuation  float64 `json:"infraredAttenuation,omitempty" yaml:"infrared_attenuation,omitempty"`
}

type ServerSettings struct {
	Port             int `json:"port" yaml:"port"`
	UpdateIntervalMs int `json:"updateIntervalMs" yaml:"update_interval_ms"`
	StepIntervalMs   int `json:"stepIntervalMs" yaml:"step_interval_ms"`
}

type LoggingSettings struct {
	Level    string `json:"level" yaml:"level"`
	Format   string `json:"format" yaml:"format"`
	LogEvery int64  `json:"logEvery" yaml:"log_every"`
}

func materialSettings(p core.Properties) MaterialSettings {
	return MaterialSettings{
		SpecificHeatCapacity: p.SpecificHeatCapacity,
		Density:              p.Density,
		Albedo:               p.Albedo,
		Emissivity:           p.Emissivity,
		ThermalConductivity:  p.ThermalConductivity,
		SunlightAttenuation:  p.SunlightAttenuation,
		InfraredAttenuation:  p.InfraredAttenuation,
	}
}

// Properties converts material settings into core constants
func (m MaterialSettings) Properties() core.Properties {
	return core.Properties{
		SpecificHeatCapacity: m.SpecificHeatCapacity,
		Density:              m.Density,
		Albedo:               m.Albedo,
		Emissivity:           m.Emissivity,
		ThermalConductivity:  m.ThermalConductivity,
		SunlightAttenuation:  m.SunlightAttenuation,
		InfraredAttenuation:  m.InfraredAttenuation,
	}
}

// Default returns an Earth-like world with a one-day step
func Default() Settings {
	p := core.DefaultParams()
	return Settings{
		Simulation: SimulationSettings{
			CellCircumference:  p.CellCircumference,
			Seed:               1,
			TimeStepSize:       p.TimeStepSize,
			MinTimeStep:        60,
			MaxTimeStep:        365 * 86400,
			Distortions:        p.Distortions,
			WaterInitMode:      p.WaterInitMode,
			VerticalConduction: p.VerticalConduction,
		},
		Physics: PhysicsSettings{
			WorldCircumference:      40.075e6,
			StefanBoltzmann:         p.StefanBoltzmann,
			CorePower:               p.CorePower,
			SunPower:                3.846e26,
			SunDistance:             149.6e9,
			WorldWaterMass:          p.WorldWaterMass,
			LandDepth:               p.LandDepth,
			InitialLandTemperature:  p.InitialLandTemperature,
			InitialWaterTemperature: p.InitialWaterTemperature,
			Land:                    materialSettings(p.Land),
			Water:                   materialSettings(p.Water),
			WaterAlbedoCoefficient:  p.WaterAlbedoCoefficient,
			WaterAlbedoOffset:       p.WaterAlbedoOffset,
			MinGroundHeight:         p.MinGroundHeight,
			MaxGroundHeight:         p.MaxGroundHeight,
			DistortionHeight:        p.DistortionHeight,
			DistortionScale:         p.DistortionScale,
			DistortionRateMin:       p.DistortionRateMin,
			DistortionRateSpread:    p.DistortionRateSpread,
		},
		Server: ServerSettings{
			Port:             8080,
			UpdateIntervalMs: 100,
			StepIntervalMs:   100,
		},
		Logging: LoggingSettings{
			Level:    "info",
			Format:   "text",
			LogEvery: 100,
		},
	}
}

// Load reads settings from path on top of the defaults. A missing file is
// not an error. Files ending in .yaml or .yml are YAML, anything else JSON.
func Load(path string) (Settings, error) {
	settings := Default()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("no settings file found, using defaults", "path", path)
			return settings, nil
		}
		return settings, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return settings, fmt.Errorf("error parsing %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &settings); err != nil {
			return settings, fmt.Errorf("error parsing %s: %w", path, err)
		}
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}

	slog.Info("loaded settings",
		"path", path,
		"cell_circumference", settings.Simulation.CellCircumference,
		"approx_cells", settings.ApproximateCellCount())
	return settings, nil
}

// Validate rejects settings that cannot build a world
func (s Settings) Validate() error {
	sim := s.Simulation
	phys := s.Physics
	switch {
	case sim.CellCircumference < 2:
		return fmt.Errorf("%w: cell circumference %d must be at least 2", ErrInvalidSettings, sim.CellCircumference)
	case sim.TimeStepSize <= 0:
		return fmt.Errorf("%w: time step %g must be positive", ErrInvalidSettings, sim.TimeStepSize)
	case sim.WaterInitMode != core.WaterInitEven && sim.WaterInitMode != core.WaterInitDump:
		return fmt.Errorf("%w: water init mode %q", ErrInvalidSettings, sim.WaterInitMode)
	case sim.Distortions < 0:
		return fmt.Errorf("%w: distortions %d must not be negative", ErrInvalidSettings, sim.Distortions)
	case phys.WorldCircumference <= 0:
		return fmt.Errorf("%w: world circumference must be positive", ErrInvalidSettings)
	case phys.MinGroundHeight >= 0 || phys.MaxGroundHeight <= 0:
		return fmt.Errorf("%w: ground heights must straddle zero, got [%g, %g]",
			ErrInvalidSettings, phys.MinGroundHeight, phys.MaxGroundHeight)
	case phys.Land.Density <= 0 || phys.Water.Density <= 0:
		return fmt.Errorf("%w: densities must be positive", ErrInvalidSettings)
	case phys.Land.SpecificHeatCapacity <= 0 || phys.Water.SpecificHeatCapacity <= 0:
		return fmt.Errorf("%w: specific heat capacities must be positive", ErrInvalidSettings)
	case phys.SunDistance <= 0:
		return fmt.Errorf("%w: sun distance must be positive", ErrInvalidSettings)
	}
	return nil
}

// CellWidth is the physical width of one cell, m
func (s Settings) CellWidth() float64 {
	return s.Physics.WorldCircumference / float64(s.Simulation.CellCircumference)
}

// WorldRadius in meters
func (s Settings) WorldRadius() float64 {
	return s.Physics.WorldCircumference / (2 * math.Pi)
}

// ApproximateCellCount estimates the number of cells the grid will hold
func (s Settings) ApproximateCellCount() int {
	// band counts follow sin(polar), which averages 2/π over the half circle
	n := float64(s.Simulation.CellCircumference)
	return int(n*n/math.Pi) + 2
}

// Params converts settings into the numbers the core reads
func (s Settings) Params() core.Params {
	width := s.CellWidth()
	return core.Params{
		CellCircumference: s.Simulation.CellCircumference,
		WorldRadius:       s.WorldRadius(),
		CellWidth:         width,
		CellArea:          width * width,

		TimeStepSize: s.Simulation.TimeStepSize,

		StefanBoltzmann: s.Physics.StefanBoltzmann,
		CorePower:       s.Physics.CorePower,

		Land:                   s.Physics.Land.Properties(),
		Water:                  s.Physics.Water.Properties(),
		WaterAlbedoCoefficient: s.Physics.WaterAlbedoCoefficient,
		WaterAlbedoOffset:      s.Physics.WaterAlbedoOffset,
		LandDepth:              s.Physics.LandDepth,

		InitialLandTemperature:  s.Physics.InitialLandTemperature,
		InitialWaterTemperature: s.Physics.InitialWaterTemperature,
		WorldWaterMass:          s.Physics.WorldWaterMass,
		WaterInitMode:           s.Simulation.WaterInitMode,

		Distortions:          s.Simulation.Distortions,
		DistortionHeight:     s.Physics.DistortionHeight,
		DistortionScale:      s.Physics.DistortionScale,
		DistortionRateMin:    s.Physics.DistortionRateMin,
		DistortionRateSpread: s.Physics.DistortionRateSpread,
		MinGroundHeight:      s.Physics.MinGroundHeight,
		MaxGroundHeight:      s.Physics.MaxGroundHeight,

		VerticalConduction: s.Simulation.VerticalConduction,
	}
}

// Sun builds the energy source
func (s Settings) Sun() core.Sun {
	return core.NewSun(s.Physics.SunPower, s.Physics.SunDistance)
}
