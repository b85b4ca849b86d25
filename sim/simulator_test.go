package sim

import (
	"io/ioutil"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/verdantio/verdant/estimate"
	"github.com/verdantio/verdant/util"
	"github.com/verdantio/verdant/valve"
)

type recordedDecision struct {
	step    int
	minutes float64
}

type fakeRecorder struct {
	decisions []recordedDecision
	mu        sync.Mutex
}

func (f *fakeRecorder) RecordDecision(step int, r estimate.Readings, minutes float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions = append(f.decisions, recordedDecision{step, minutes})
	return nil
}

type SimulatorSuite struct {
	estimator *estimate.Estimator
	valves    *valve.MockInterface
	waitGroup *sync.WaitGroup
	suite.Suite
}

func (s *SimulatorSuite) SetupSuite() {
	util.Logger.Out = ioutil.Discard
	est, err := estimate.NewDefaultEstimator()
	require.NoError(s.T(), err)
	s.estimator = est
	s.waitGroup = &sync.WaitGroup{}
	s.valves = valve.NewMockInterface(1)
}

func (s *SimulatorSuite) SetupTest() {
	s.valves.Initialize()
}

func (s *SimulatorSuite) makeSimulator(seed int64, opts Options, rec Recorder) *Simulator {
	return NewSimulator(s.estimator, s.valves,
		rand.New(rand.NewSource(seed)), opts, rec)
}

func (s *SimulatorSuite) TestRunsAllSteps() {
	ass := s.Assert()

	opts := Options{Steps: 24, Zone: 0, StepInterval: 0}
	sim := s.makeSimulator(1, opts, nil)
	onStep := make(chan StepResult, opts.Steps)
	sim.OnStep = onStep

	sim.Start(s.waitGroup)
	s.waitGroup.Wait()
	close(onStep)

	var results []StepResult
	for r := range onStep {
		results = append(results, r)
	}
	ass.Len(results, opts.Steps)
	for i, r := range results {
		ass.Equal(i+1, r.Step)
		ass.GreaterOrEqual(r.Minutes, 0.0)
		ass.LessOrEqual(r.Minutes, 60.0)
		ass.Equal(r.Minutes > wateringThreshold, r.Watered)
	}
	ass.False(sim.Running())
}

func (s *SimulatorSuite) TestRecordsDecisions() {
	ass := s.Assert()

	rec := &fakeRecorder{}
	sim := s.makeSimulator(2, Options{Steps: 10, StepInterval: 0}, rec)
	sim.Start(s.waitGroup)
	s.waitGroup.Wait()

	ass.Len(rec.decisions, 10)
	ass.Equal(1, rec.decisions[0].step)
}

func (s *SimulatorSuite) TestSeededRunsMatch() {
	ass := s.Assert()

	run := func() (results []StepResult) {
		sim := s.makeSimulator(77, Options{Steps: 12, StepInterval: 0}, nil)
		onStep := make(chan StepResult, 12)
		sim.OnStep = onStep
		wg := &sync.WaitGroup{}
		sim.Start(wg)
		wg.Wait()
		close(onStep)
		for r := range onStep {
			results = append(results, r)
		}
		return
	}

	ass.Equal(run(), run())
}

func (s *SimulatorSuite) TestQuitStopsEarly() {
	ass := s.Assert()

	sim := s.makeSimulator(3, Options{Steps: 1000, StepInterval: 5 * time.Millisecond}, nil)
	sim.Start(s.waitGroup)
	time.Sleep(20 * time.Millisecond)
	ass.True(sim.Running())
	sim.Quit()
	s.waitGroup.Wait()
	ass.False(sim.Running())
}

func TestSimulatorSuite(t *testing.T) {
	suite.Run(t, new(SimulatorSuite))
}
