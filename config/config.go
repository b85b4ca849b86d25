package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"sync"
	"time"

	rpio "github.com/stianeikeland/go-rpio/v4"
	"gopkg.in/yaml.v3"

	"github.com/verdantio/verdant/datamodel"
	"github.com/verdantio/verdant/fuzzy"
	"github.com/verdantio/verdant/sim"
	"github.com/verdantio/verdant/util"
	"github.com/verdantio/verdant/valve"
)

// ConfigData is the app state after being read from config
type ConfigData struct {
	Pins       []uint16
	Valves     valve.Interface
	SimOptions sim.Options
	HTTPAddr   string
	StorePath  string
	RulesFile  string
}

// ToJSON converts a ConfigData to a ConfigDataJSON
func (c *ConfigData) ToJSON() (j ConfigDataJSON) {
	j = ConfigDataJSON{}
	j.ValveInterface = ValveInterfaceJSON{Pins: c.Pins}
	j.Sim = SimOptionsJSON{
		Steps:           c.SimOptions.Steps,
		Zone:            c.SimOptions.Zone,
		StepIntervalMs:  int(c.SimOptions.StepInterval / time.Millisecond),
		WateringScaleMs: int(c.SimOptions.WateringScale / time.Millisecond),
	}
	j.HTTPAddr = c.HTTPAddr
	j.StorePath = c.StorePath
	j.RulesFile = c.RulesFile
	return
}

// ValveInterfaceJSON is the configured set of gpio pins driving zone valves
type ValveInterfaceJSON struct {
	Pins []uint16 `json:"pins"`
}

// ToInterface creates the valve interface for the configured pins: gpio
// backed when running on the pi (RPI=true), mock otherwise
func (vj *ValveInterfaceJSON) ToInterface() valve.Interface {
	rpi := os.Getenv("RPI") == "true"
	if rpi {
		pins := make(valve.RpioPins, len(vj.Pins))
		for i, pin := range vj.Pins {
			pins[i] = (rpio.Pin)(pin)
		}
		return valve.NewRpioInterface(pins)
	}
	mock := valve.NewMockInterface(len(vj.Pins))
	mock.SetupAllReturns()
	return mock
}

// SimOptionsJSON is the JSON form of sim.Options
type SimOptionsJSON struct {
	Steps           int           `json:"steps"`
	Zone            valve.ValveID `json:"zone"`
	StepIntervalMs  int           `json:"stepIntervalMs"`
	WateringScaleMs int           `json:"wateringScaleMs"`
}

// ToOptions converts a SimOptionsJSON to sim.Options, filling in defaults
// for unset fields
func (j *SimOptionsJSON) ToOptions() (opts sim.Options) {
	opts = sim.DefaultOptions()
	if j.Steps > 0 {
		opts.Steps = j.Steps
	}
	opts.Zone = j.Zone
	if j.StepIntervalMs > 0 {
		opts.StepInterval = time.Duration(j.StepIntervalMs) * time.Millisecond
	}
	if j.WateringScaleMs > 0 {
		opts.WateringScale = time.Duration(j.WateringScaleMs) * time.Millisecond
	}
	return
}

// ConfigDataJSON is the JSON form of config data
type ConfigDataJSON struct {
	ValveInterface ValveInterfaceJSON `json:"valveInterface"`
	Sim            SimOptionsJSON     `json:"sim"`
	HTTPAddr       string             `json:"httpAddr"`
	StorePath      string             `json:"storePath"`
	RulesFile      string             `json:"rulesFile"`
}

// ToConfigData converts a ConfigDataJSON to a ConfigData
func (j *ConfigDataJSON) ToConfigData() (c ConfigData, err error) {
	c = ConfigData{}
	c.Pins = j.ValveInterface.Pins
	c.Valves = j.ValveInterface.ToInterface()
	c.SimOptions = j.Sim.ToOptions()
	c.HTTPAddr = j.HTTPAddr
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	c.StorePath = j.StorePath
	c.RulesFile = j.RulesFile
	if c.RulesFile == "" {
		c.RulesFile = findRulesFile()
	}
	return
}

func findConfigFile() (configFile string) {
	configFile = os.Getenv("CONFIG")
	if configFile == "" {
		dir, _ := os.Getwd()
		configFile = dir + "/config.json"
	}
	return
}

func findRulesFile() (rulesFile string) {
	rulesFile = os.Getenv("RULES")
	if rulesFile == "" {
		dir, _ := os.Getwd()
		rulesFile = dir + "/rules.yml"
	}
	return
}

var log = util.Logger.WithField("module", "config")
var configMutex = &sync.Mutex{}

// LoadConfig loads a ConfigData from the config file
func LoadConfig() (config ConfigData, err error) {
	configMutex.Lock()
	defer configMutex.Unlock()

	var j ConfigDataJSON

	configFile := findConfigFile()
	log.Debugf("loading config from %v", configFile)
	file, err := ioutil.ReadFile(configFile)
	if err != nil {
		err = fmt.Errorf("could not read config file: %v", err)
		return
	}
	err = json.Unmarshal(file, &j)
	if err != nil {
		err = fmt.Errorf("could not parse config file: %v", err)
		return
	}

	config, err = j.ToConfigData()
	return
}

// WriteConfig writes a ConfigData to the config file
func WriteConfig(configData *ConfigData) (err error) {
	configMutex.Lock()
	defer configMutex.Unlock()

	configFile := findConfigFile()
	log.Debugf("writing config to %v", configFile)
	data := configData.ToJSON()

	bytes, err := json.MarshalIndent(&data, "", "  ")
	if err != nil {
		err = fmt.Errorf("could not marshal config data: %v", err)
		return
	}

	err = ioutil.WriteFile(configFile, bytes, 0644)
	if err != nil {
		err = fmt.Errorf("could not write config file: %v", err)
		return
	}
	return
}

// LoadRuleTable loads and validates the rule-table artifact at path
func LoadRuleTable(path string) (table *fuzzy.RuleTable, doc datamodel.RuleTableDoc, err error) {
	log.Debugf("loading rule table from %v", path)
	file, err := ioutil.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("could not read rules file: %v", err)
		return
	}
	err = yaml.Unmarshal(file, &doc)
	if err != nil {
		err = fmt.Errorf("could not parse rules file: %v", err)
		return
	}
	table, err = doc.ToRuleTable()
	if err != nil {
		err = fmt.Errorf("invalid rules file: %v", err)
		return
	}
	log.WithField("version", doc.Version).Info("loaded rule table")
	return
}

// WriteRuleTable writes the rule-table artifact to path
func WriteRuleTable(path string, doc *datamodel.RuleTableDoc) (err error) {
	bytes, err := yaml.Marshal(doc)
	if err != nil {
		err = fmt.Errorf("could not marshal rule table: %v", err)
		return
	}
	err = ioutil.WriteFile(path, bytes, 0644)
	if err != nil {
		err = fmt.Errorf("could not write rules file: %v", err)
		return
	}
	return
}
