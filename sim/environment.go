package sim

import (
	"math/rand"

	"github.com/verdantio/verdant/estimate"
	"github.com/verdantio/verdant/util"
)

// Drift bounds for the synthetic environment. Tighter than the estimator
// domains so the simulation stays in plausible territory.
const (
	envTempMin = 5
	envTempMax = 40
	envHumMin  = 20
	envHumMax  = 95
	envSoilMin = 10
	envSoilMax = 90
)

// soilPerMinute is how much soil moisture rises per simulated minute of
// watering
const soilPerMinute = 1.5

// Environment produces a synthetic series of sensor readings: temperature
// follows a diurnal cycle, air humidity drifts inversely to it and soil
// dries out faster when hot and dry. Each instance owns its random source,
// so a seeded Environment replays identically.
type Environment struct {
	Hour     int
	Readings estimate.Readings

	rng *rand.Rand
}

// NewEnvironment creates an Environment at hour 0 with moderate initial
// conditions, drawing noise from rng
func NewEnvironment(rng *rand.Rand) *Environment {
	return &Environment{
		Hour: 0,
		Readings: estimate.Readings{
			SoilMoisture: 60,
			Temperature:  18,
			AirHumidity:  50,
		},
		rng: rng,
	}
}

func (e *Environment) uniform(min, max float64) float64 {
	return min + e.rng.Float64()*(max-min)
}

// Step advances the environment one hour and returns the new readings
func (e *Environment) Step() estimate.Readings {
	e.Hour++
	r := &e.Readings

	// temperature rises through the "day" and falls at "night"
	drift := float64(10 - e.Hour%24)
	r.Temperature = util.Clamp(
		r.Temperature+drift*0.5+e.uniform(-1, 1), envTempMin, envTempMax)

	// air humidity moves opposite to temperature
	r.AirHumidity = util.Clamp(
		r.AirHumidity-(drift*0.3+e.uniform(-2, 2)), envHumMin, envHumMax)

	// soil dries out; heat and dry air speed it up
	drying := r.Temperature/10 + (1 - r.AirHumidity/100)
	r.SoilMoisture = util.Clamp(
		r.SoilMoisture-(drying+e.uniform(0, 1)), envSoilMin, envSoilMax)

	return e.Readings
}

// Water applies the effect of watering for the specified number of minutes
func (e *Environment) Water(minutes float64) {
	e.Readings.SoilMoisture = util.Clamp(
		e.Readings.SoilMoisture+minutes*soilPerMinute, envSoilMin, envSoilMax)
}
