package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantio/verdant/estimate"
)

const testConfig = `{
  "valveInterface": { "pins": [17, 27] },
  "sim": { "steps": 12, "zone": 1, "stepIntervalMs": 100 },
  "httpAddr": ":9090",
  "storePath": "decisions.db"
}`

func TestLoadConfig(t *testing.T) {
	ass := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(testConfig), 0644))
	t.Setenv("CONFIG", path)
	t.Setenv("RPI", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	ass.Equal([]uint16{17, 27}, cfg.Pins)
	ass.Equal("mock", cfg.Valves.Name())
	ass.Equal(12, cfg.SimOptions.Steps)
	ass.Equal(uint16(1), cfg.SimOptions.Zone)
	ass.Equal(100*time.Millisecond, cfg.SimOptions.StepInterval)
	ass.Equal(":9090", cfg.HTTPAddr)
	ass.Equal("decisions.db", cfg.StorePath)
	ass.NotEmpty(cfg.RulesFile)
}

func TestLoadConfig_Missing(t *testing.T) {
	t.Setenv("CONFIG", filepath.Join(t.TempDir(), "nope.json"))
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestWriteConfig_RoundTrip(t *testing.T) {
	ass := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(testConfig), 0644))
	t.Setenv("CONFIG", path)
	t.Setenv("RPI", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, WriteConfig(&cfg))

	again, err := LoadConfig()
	require.NoError(t, err)
	ass.Equal(cfg.Pins, again.Pins)
	ass.Equal(cfg.SimOptions, again.SimOptions)
	ass.Equal(cfg.HTTPAddr, again.HTTPAddr)
}

func TestLoadRuleTable(t *testing.T) {
	ass := assert.New(t)

	// the artifact shipped with the repo parses to the default table
	table, doc, err := LoadRuleTable(filepath.Join("..", "rules.yml"))
	require.NoError(t, err)
	ass.Equal(1, doc.Version)
	ass.Len(doc.Rules, 9)

	defaultTable, err := estimate.DefaultTable()
	require.NoError(t, err)
	in := map[string]float64{"soil_moisture": 25, "temperature": 35, "air_humidity": 30}
	ass.InDelta(defaultTable.Evaluate(in), table.Evaluate(in), 1e-9)
}

func TestLoadRuleTable_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yml")
	require.NoError(t, ioutil.WriteFile(path, []byte("version: [not a version"), 0644))
	_, _, err := LoadRuleTable(path)
	assert.Error(t, err)
}
