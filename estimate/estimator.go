package estimate

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/verdantio/verdant/fuzzy"
	"github.com/verdantio/verdant/util"
)

// Readings is one set of environmental sensor readings. Values outside
// their domain are clamped during estimation, never rejected.
type Readings struct {
	// SoilMoisture in percent, 0-100
	SoilMoisture float64 `json:"soilMoisture"`
	// Temperature in degrees C, 0-45
	Temperature float64 `json:"temperature"`
	// AirHumidity in percent, 0-100
	AirHumidity float64 `json:"airHumidity"`
}

func (r Readings) String() string {
	return fmt.Sprintf("{soil: %.1f%%, temp: %.1fC, humidity: %.1f%%}",
		r.SoilMoisture, r.Temperature, r.AirHumidity)
}

// Estimator computes recommended watering durations from sensor readings
// using a fixed fuzzy rule table
type Estimator struct {
	table *fuzzy.RuleTable
	log   *logrus.Entry
}

// NewEstimator creates an Estimator over the specified rule table. The
// table must have the three watering input variables and is validated once
// here; Estimate never fails afterwards.
func NewEstimator(table *fuzzy.RuleTable) (e *Estimator, err error) {
	if err = util.CheckNotNil(table, "rule table"); err != nil {
		return
	}
	if err = table.Validate(); err != nil {
		err = fmt.Errorf("invalid rule table: %v", err)
		return
	}
	for _, name := range []string{VarSoilMoisture, VarTemperature, VarAirHumidity} {
		if table.Input(name) == nil {
			err = util.NewConfigError(name,
				fmt.Sprintf("rule table is missing input variable %q", name))
			return
		}
	}
	e = &Estimator{
		table,
		util.Logger.WithField("module", "estimate"),
	}
	return
}

// NewDefaultEstimator creates an Estimator with the default rule table
func NewDefaultEstimator() (*Estimator, error) {
	table, err := DefaultTable()
	if err != nil {
		return nil, err
	}
	return NewEstimator(table)
}

// Table returns the rule table the estimator was built with
func (e *Estimator) Table() *fuzzy.RuleTable {
	return e.table
}

// Estimate returns the recommended watering duration in minutes for the
// specified readings. Pure and idempotent: identical readings always
// produce identical durations.
func (e *Estimator) Estimate(r Readings) (minutes float64) {
	minutes = e.table.Evaluate(map[string]float64{
		VarSoilMoisture: r.SoilMoisture,
		VarTemperature:  r.Temperature,
		VarAirHumidity:  r.AirHumidity,
	})
	e.log.WithFields(logrus.Fields{
		"readings": r, "minutes": minutes,
	}).Debug("estimated watering time")
	return
}
