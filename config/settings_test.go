package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"eden/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, core.DefaultParams(), s.Params())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)

	s, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "settings.json", `{
		"simulation": {"cellCircumference": 24, "seed": 7, "waterInitMode": "dump"},
		"physics": {"land": {"specificHeatCapacity": 900, "density": 2700}},
		"server": {"port": 9090}
	}`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 24, s.Simulation.CellCircumference)
	assert.Equal(t, int64(7), s.Simulation.Seed)
	assert.Equal(t, core.WaterInitDump, s.Simulation.WaterInitMode)
	assert.Equal(t, 9090, s.Server.Port)
	assert.Equal(t, 900.0, s.Physics.Land.SpecificHeatCapacity)
	// fields absent from the file keep their defaults
	assert.Equal(t, 86400.0, s.Simulation.TimeStepSize)
	assert.Equal(t, 0.92, s.Physics.Land.Emissivity)
	assert.Equal(t, 4186.0, s.Physics.Water.SpecificHeatCapacity)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "settings.yaml", strings.Join([]string{
		"simulation:",
		"  cell_circumference: 18",
		"  time_step_size: 3600",
		"  vertical_conduction: false",
		"physics:",
		"  water_albedo_offset: 0.2",
		"logging:",
		"  level: debug",
		"  format: json",
		"",
	}, "\n"))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 18, s.Simulation.CellCircumference)
	assert.Equal(t, 3600.0, s.Simulation.TimeStepSize)
	assert.False(t, s.Simulation.VerticalConduction)
	assert.Equal(t, 0.2, s.Physics.WaterAlbedoOffset)
	assert.Equal(t, "debug", s.Logging.Level)
	assert.Equal(t, core.WaterInitEven, s.Simulation.WaterInitMode)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeFile(t, "bad.json", `{"simulation": `))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yml", "simulation: [1, 2"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := Load(writeFile(t, "settings.json", `{"simulation": {"waterInitMode": "flood"}}`))
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{name: "tiny grid", modify: func(s *Settings) { s.Simulation.CellCircumference = 1 }},
		{name: "zero step", modify: func(s *Settings) { s.Simulation.TimeStepSize = 0 }},
		{name: "unknown water mode", modify: func(s *Settings) { s.Simulation.WaterInitMode = "rain" }},
		{name: "negative distortions", modify: func(s *Settings) { s.Simulation.Distortions = -1 }},
		{name: "no world", modify: func(s *Settings) { s.Physics.WorldCircumference = 0 }},
		{name: "ground above zero", modify: func(s *Settings) { s.Physics.MinGroundHeight = 10 }},
		{name: "massless water", modify: func(s *Settings) { s.Physics.Water.Density = 0 }},
		{name: "no heat capacity", modify: func(s *Settings) { s.Physics.Land.SpecificHeatCapacity = 0 }},
		{name: "no sun distance", modify: func(s *Settings) { s.Physics.SunDistance = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Default()
			tc.modify(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}
}

func TestDerivedValues(t *testing.T) {
	s := Default()
	s.Simulation.CellCircumference = 12

	assert.InEpsilon(t, 40.075e6/12, s.CellWidth(), 1e-12)
	assert.InEpsilon(t, 40.075e6/(2*3.141592653589793), s.WorldRadius(), 1e-12)
	assert.Equal(t, 47, s.ApproximateCellCount())

	p := s.Params()
	assert.Equal(t, 12, p.CellCircumference)
	assert.InEpsilon(t, s.CellWidth()*s.CellWidth(), p.CellArea, 1e-12)

	sun := s.Sun()
	assert.Equal(t, 3.846e26, sun.Power)
	assert.Equal(t, 149.6e9, sun.Distance)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggingSettings{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "cell", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"cell":3`)

	buf.Reset()
	LoggingSettings{Level: "debug"}.NewLogger(&buf).Debug("detail")
	assert.Contains(t, buf.String(), "msg=detail")
}
