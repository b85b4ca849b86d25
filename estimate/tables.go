package estimate

import (
	"github.com/verdantio/verdant/fuzzy"
)

// Input and output variable names of the watering rule table
const (
	VarSoilMoisture = "soil_moisture"
	VarTemperature  = "temperature"
	VarAirHumidity  = "air_humidity"
	VarWateringTime = "watering_time"
)

// Domain bounds. Temperature tops out at 45 degC; anything hotter is
// clamped and treated as fully "hot".
const (
	SoilMoistureMin = 0
	SoilMoistureMax = 100
	TemperatureMin  = 0
	TemperatureMax  = 45
	AirHumidityMin  = 0
	AirHumidityMax  = 100
	WateringTimeMin = 0
	WateringTimeMax = 60
)

func cond(variable, term string) fuzzy.Condition {
	return fuzzy.Condition{Variable: variable, Term: term}
}

func notCond(variable, term string) fuzzy.Condition {
	return fuzzy.Condition{Variable: variable, Term: term, Negate: true}
}

// DefaultTable builds the watering rule table: three sensor inputs, one
// duration output and nine rules. The membership breakpoints and the rule
// list are a versioned behavior artifact; changing them changes every
// estimate.
func DefaultTable() (*fuzzy.RuleTable, error) {
	soil := fuzzy.NewVariable(VarSoilMoisture, SoilMoistureMin, SoilMoistureMax).
		AddTerm("dry", fuzzy.Trapmf(0, 0, 20, 40)).
		AddTerm("moist", fuzzy.Trimf(30, 50, 70)).
		AddTerm("wet", fuzzy.Trapmf(60, 80, 100, 100))

	temp := fuzzy.NewVariable(VarTemperature, TemperatureMin, TemperatureMax).
		AddTerm("cold", fuzzy.Trapmf(0, 0, 10, 18)).
		AddTerm("warm", fuzzy.Trimf(15, 23, 30)).
		AddTerm("hot", fuzzy.Trapmf(27, 35, 45, 45))

	humidity := fuzzy.NewVariable(VarAirHumidity, AirHumidityMin, AirHumidityMax).
		AddTerm("low", fuzzy.Trapmf(0, 0, 25, 45)).
		AddTerm("medium", fuzzy.Trimf(35, 50, 65)).
		AddTerm("high", fuzzy.Trapmf(55, 75, 100, 100))

	watering := fuzzy.NewVariable(VarWateringTime, WateringTimeMin, WateringTimeMax).
		AddTerm("none", fuzzy.Trimf(0, 0, 10)).
		AddTerm("short", fuzzy.Trimf(5, 15, 25)).
		AddTerm("medium", fuzzy.Trimf(20, 30, 40)).
		AddTerm("long", fuzzy.Trapmf(35, 45, 60, 60))

	rules := []fuzzy.Rule{
		// wet soil never gets watered
		{Antecedents: []fuzzy.Condition{cond(VarSoilMoisture, "wet")}, Consequent: "none"},
		{Antecedents: []fuzzy.Condition{cond(VarSoilMoisture, "dry"), cond(VarTemperature, "hot")}, Consequent: "long"},
		{Antecedents: []fuzzy.Condition{cond(VarSoilMoisture, "dry"), cond(VarTemperature, "warm")}, Consequent: "medium"},
		{Antecedents: []fuzzy.Condition{cond(VarSoilMoisture, "dry"), cond(VarTemperature, "cold")}, Consequent: "short"},
		// moist soil evaporates fast in the heat
		{Antecedents: []fuzzy.Condition{cond(VarSoilMoisture, "moist"), cond(VarTemperature, "hot")}, Consequent: "medium"},
		{Antecedents: []fuzzy.Condition{cond(VarSoilMoisture, "moist"), cond(VarTemperature, "warm")}, Consequent: "short"},
		{Antecedents: []fuzzy.Condition{cond(VarSoilMoisture, "moist"), cond(VarTemperature, "cold")}, Consequent: "none"},
		// dry air reinforces the dry-and-hot case
		{Antecedents: []fuzzy.Condition{cond(VarAirHumidity, "low"), cond(VarSoilMoisture, "dry")}, Consequent: "long"},
		{Antecedents: []fuzzy.Condition{cond(VarAirHumidity, "high"), notCond(VarSoilMoisture, "dry")}, Consequent: "none"},
	}

	return fuzzy.NewRuleTable([]*fuzzy.Variable{soil, temp, humidity}, watering, rules)
}
