package mqtt

import (
	"github.com/sirupsen/logrus"

	"github.com/verdantio/verdant/sim"
	"github.com/verdantio/verdant/util"
)

// MQTTUpdater publishes simulation state to MQTT topics as it changes
type MQTTUpdater struct {
	onStep chan sim.StepResult
	stop   chan int
	api    *MQTTApi
	logger *logrus.Entry
}

// NewMQTTUpdater creates a new MQTTUpdater listening to the specified
// simulator's step results
func NewMQTTUpdater(simulator *sim.Simulator) *MQTTUpdater {
	onStep := make(chan sim.StepResult, 10)
	simulator.OnStep = onStep
	return &MQTTUpdater{
		onStep,
		make(chan int),
		nil,
		util.Logger.WithField("module", "MQTTUpdater"),
	}
}

func (u *MQTTUpdater) run() {
	u.logger.Debug("starting updater")
	for {
		select {
		case <-u.stop:
			return
		case result := <-u.onStep:
			err := u.api.UpdateStep(result)
			if err != nil {
				u.logger.WithError(err).Error("error updating simulation step")
			}
		}
	}
}

// Start starts the MQTTUpdater to listen and update topics
func (u *MQTTUpdater) Start(api *MQTTApi) {
	u.api = api
	go u.run()
}

// Stop stops the updater from updating topics
func (u *MQTTUpdater) Stop() {
	u.stop <- 0
}
