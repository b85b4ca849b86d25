package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	c "github.com/verdantio/verdant/config"
	"github.com/verdantio/verdant/estimate"
	"github.com/verdantio/verdant/game"
	verdanthttp "github.com/verdantio/verdant/http"
	"github.com/verdantio/verdant/httpapi"
	"github.com/verdantio/verdant/mqtt"
	"github.com/verdantio/verdant/sim"
	"github.com/verdantio/verdant/store"
	"github.com/verdantio/verdant/util"

	"github.com/joho/godotenv"
)

func main() {
	util.InitLogLevel()
	var logger = util.Logger.WithField("module", "server")
	// channel which is notified on an interrupt signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, os.Kill)

	godotenv.Load()

	config, err := c.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatalf("error loading config")
	}

	logger.Info("writing back config")
	c.WriteConfig(&config)

	table, rulesDoc, err := c.LoadRuleTable(config.RulesFile)
	if err != nil {
		logger.WithError(err).Fatalf("error loading rule table")
	}

	estimator, err := estimate.NewEstimator(table)
	if err != nil {
		logger.WithError(err).Fatalf("error creating estimator")
	}
	selector := game.NewSelector(rand.New(rand.NewSource(time.Now().UnixNano())))

	if hubURL := os.Getenv("SENSOR_HUB_URL"); hubURL != "" {
		hub := verdanthttp.NewAPIClient(&verdanthttp.Config{
			HubURL:                  hubURL,
			DeviceRegistrationToken: os.Getenv("SENSOR_HUB_REG_TOKEN"),
		})
		readings, err := hub.RegisterAndRead()
		if err != nil {
			logger.WithError(err).Error("error reading from sensor hub")
		} else {
			logger.WithFields(log.Fields{
				"readings": readings.String(),
				"minutes":  estimator.Estimate(readings),
			}).Info("initial estimate from sensor hub readings")
		}
	}

	err = config.Valves.Initialize()
	if err != nil {
		logger.WithError(err).Fatalf("error initializing valves")
	}

	var db *store.DB
	var recorder sim.Recorder
	var decisions httpapi.DecisionStore
	if config.StorePath != "" {
		db, err = store.Open(config.StorePath)
		if err != nil {
			logger.WithError(err).Fatalf("error opening decision store")
		}
		recorder = db
		decisions = db
	}

	waitGroup := sync.WaitGroup{}

	simRng := rand.New(rand.NewSource(time.Now().UnixNano()))
	simulator := sim.NewSimulator(estimator, config.Valves, simRng,
		config.SimOptions, recorder)

	updater := mqtt.NewMQTTUpdater(simulator)

	simulator.Start(&waitGroup)

	logger.WithFields(log.Fields{
		"steps": config.SimOptions.Steps, "zone": config.SimOptions.Zone,
	}).Info("started simulation")

	api := mqtt.NewMQTTApi(estimator, selector, &rulesDoc)
	api.Start()

	updater.Start(api)
	api.UpdateRuleTable()

	httpServer := httpapi.NewServer(config.HTTPAddr, estimator, selector, decisions)
	httpServer.Start()

	<-sigc

	logger.Info("cleaning up...")
	updater.Stop()
	api.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	httpServer.Stop(ctx)
	cancel()
	simulator.Quit()
	waitGroup.Wait()
	config.Valves.Deinitialize()
	if db != nil {
		db.Close()
	}
}
