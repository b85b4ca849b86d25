package sim

import (
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/verdantio/verdant/estimate"
	"github.com/verdantio/verdant/util"
	"github.com/verdantio/verdant/valve"
)

// wateringThreshold is the minimum recommended duration (minutes) that
// actually opens the valve
const wateringThreshold = 1.0

// StepResult is the outcome of one simulation step
type StepResult struct {
	Step     int               `json:"step"`
	Readings estimate.Readings `json:"readings"`
	Minutes  float64           `json:"minutes"`
	Watered  bool              `json:"watered"`
}

// Recorder persists watering decisions. Implemented by store.DB.
type Recorder interface {
	RecordDecision(step int, r estimate.Readings, minutes float64) error
}

// Options configure a Simulator
type Options struct {
	// Steps is the number of simulated hours to run
	Steps int
	// Zone is the valve opened while watering
	Zone valve.ValveID
	// StepInterval is the pause between simulated hours
	StepInterval time.Duration
	// WateringScale is the real time the valve stays open per simulated
	// minute of watering
	WateringScale time.Duration
}

// DefaultOptions are the options used when config does not specify any
func DefaultOptions() Options {
	return Options{
		Steps:         24,
		Zone:          0,
		StepInterval:  500 * time.Millisecond,
		WateringScale: 0,
	}
}

// Simulator steps a synthetic environment on a background goroutine,
// asking the estimator for a watering decision each step and actuating the
// zone valve while watering. Step results are sent on OnStep when set.
type Simulator struct {
	estimator *estimate.Estimator
	valves    valve.Interface
	env       *Environment
	opts      Options
	recorder  Recorder
	running   util.AtomicBool
	quit      chan struct{}
	OnStep    chan<- StepResult
	log       *logrus.Entry
}

// NewSimulator creates a Simulator without starting it. recorder may be nil
// to skip persisting decisions.
func NewSimulator(estimator *estimate.Estimator, valves valve.Interface,
	rng *rand.Rand, opts Options, recorder Recorder) *Simulator {
	return &Simulator{
		estimator,
		valves,
		NewEnvironment(rng),
		opts,
		recorder,
		util.NewAtomicBool(false),
		make(chan struct{}, 1),
		nil,
		util.Logger.WithField("module", "sim"),
	}
}

// Start starts the background goroutine of the Simulator
func (s *Simulator) Start(wait *sync.WaitGroup) {
	if wait != nil {
		wait.Add(1)
	}
	go s.run(wait)
}

// Quit tells the background goroutine to stop after its current step
func (s *Simulator) Quit() {
	select {
	case s.quit <- struct{}{}:
	default:
	}
}

// Running reports whether the simulation loop is still going
func (s *Simulator) Running() bool {
	return s.running.Load()
}

func (s *Simulator) run(wait *sync.WaitGroup) {
	if wait != nil {
		defer wait.Done()
	}
	if !s.running.StoreIf(false, true) {
		s.log.Info("simulator was started when already running")
		return
	}
	defer s.running.Store(false)
	s.log.WithField("steps", s.opts.Steps).Info("starting simulation")

	for step := 1; step <= s.opts.Steps; step++ {
		select {
		case <-s.quit:
			s.log.Debug("quitting simulator")
			return
		default:
		}

		readings := s.env.Step()
		minutes := s.estimator.Estimate(readings)
		watered := minutes > wateringThreshold
		if watered {
			s.water(minutes)
		}

		result := StepResult{step, readings, minutes, watered}
		s.log.WithFields(logrus.Fields{
			"step": step, "readings": readings,
			"minutes": minutes, "watered": watered,
		}).Info("simulation step")
		if s.recorder != nil {
			if err := s.recorder.RecordDecision(step, readings, minutes); err != nil {
				s.log.WithError(err).Error("could not record decision")
			}
		}
		if s.OnStep != nil {
			select {
			case s.OnStep <- result:
			default:
				s.log.Warn("dropping step update, channel full")
			}
		}

		if s.opts.StepInterval > 0 {
			select {
			case <-s.quit:
				s.log.Debug("quitting simulator")
				return
			case <-time.After(s.opts.StepInterval):
			}
		}
	}
	s.log.Info("finished simulation")
}

// water opens the zone valve for the scaled watering time and applies the
// moisture gain to the environment
func (s *Simulator) water(minutes float64) {
	s.valves.Set(s.opts.Zone, true)
	if s.opts.WateringScale > 0 {
		time.Sleep(time.Duration(minutes * float64(s.opts.WateringScale)))
	}
	s.valves.Set(s.opts.Zone, false)
	s.env.Water(minutes)
}
