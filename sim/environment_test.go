package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvironment_StaysInBounds(t *testing.T) {
	ass := assert.New(t)
	env := NewEnvironment(rand.New(rand.NewSource(3)))

	for i := 0; i < 500; i++ {
		r := env.Step()
		ass.GreaterOrEqual(r.Temperature, float64(envTempMin))
		ass.LessOrEqual(r.Temperature, float64(envTempMax))
		ass.GreaterOrEqual(r.AirHumidity, float64(envHumMin))
		ass.LessOrEqual(r.AirHumidity, float64(envHumMax))
		ass.GreaterOrEqual(r.SoilMoisture, float64(envSoilMin))
		ass.LessOrEqual(r.SoilMoisture, float64(envSoilMax))
	}
}

func TestEnvironment_SeededReplays(t *testing.T) {
	ass := assert.New(t)
	a := NewEnvironment(rand.New(rand.NewSource(11)))
	b := NewEnvironment(rand.New(rand.NewSource(11)))

	for i := 0; i < 48; i++ {
		ass.Equal(a.Step(), b.Step())
	}
}

func TestEnvironment_Water(t *testing.T) {
	ass := assert.New(t)
	env := NewEnvironment(rand.New(rand.NewSource(1)))

	before := env.Readings.SoilMoisture
	env.Water(10)
	ass.InDelta(before+10*soilPerMinute, env.Readings.SoilMoisture, 1e-9)

	// gains are clamped to the soil ceiling
	env.Water(1000)
	ass.Equal(float64(envSoilMax), env.Readings.SoilMoisture)
}
