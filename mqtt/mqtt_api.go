package mqtt

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/verdantio/verdant/datamodel"
	"github.com/verdantio/verdant/estimate"
	"github.com/verdantio/verdant/game"
	"github.com/verdantio/verdant/sim"
	"github.com/verdantio/verdant/util"
)

const CONNECT_RETRY_TIMEOUT = 10 * time.Second
const MQTT_TIMEOUT = 10 * time.Second

type responseData map[string]interface{}
type requestHandler func(message mqtt.Message, rData responseData) (err error)

// MQTTApi encapsulates all functionality exposed over MQTT: watering
// estimates, game move selection and simulation state topics
type MQTTApi struct {
	estimator *estimate.Estimator
	selector  *game.Selector
	rulesDoc  *datamodel.RuleTableDoc
	client    mqtt.Client
	prefix    string
	logger    *logrus.Entry
}

// NewMQTTApi creates a new MQTTApi that uses the specified decision engines
func NewMQTTApi(estimator *estimate.Estimator, selector *game.Selector,
	rulesDoc *datamodel.RuleTableDoc) *MQTTApi {
	return &MQTTApi{
		estimator, selector, rulesDoc,
		nil, "",
		util.Logger.WithField("module", "MQTTApi"),
	}
}

func (a *MQTTApi) createMQTTOpts() (opts *mqtt.ClientOptions) {
	broker := os.Getenv("MQTT_BROKER")
	if broker == "" {
		broker = "tcp://localhost:1883"
	}
	brokerURI, err := url.Parse(broker)
	if err != nil {
		err = fmt.Errorf("error parsing MQTT_BROKER: %v", err)
		return
	}
	if brokerURI.Scheme == "mqtt" { // translate scheme to compatible
		brokerURI.Scheme = "tcp"
	} else if brokerURI.Scheme == "mqtts" {
		brokerURI.Scheme = "ssl"
	} else if brokerURI.Scheme == "" {
		brokerURI.Scheme = "tcp"
	}
	if brokerURI.Path != "" {
		a.prefix = brokerURI.Path
	} else {
		a.prefix = "verdant"
	}
	if a.prefix[0] == '/' {
		a.prefix = a.prefix[1:]
	}
	a.logger.Debugf("broker prefix: '%s'", a.prefix)

	cid := os.Getenv("MQTT_CID")
	if cid == "" {
		cid = "verdant-1"
	}

	opts = mqtt.NewClientOptions()
	opts.AddBroker(brokerURI.String())
	if brokerURI.User != nil {
		username := brokerURI.User.Username()
		opts.SetUsername(username)
		password, _ := brokerURI.User.Password()
		opts.SetPassword(password)
		a.logger.WithFields(logrus.Fields{
			"username": username,
		}).Debug("authenticating to mqtt server")
	}
	opts.SetClientID(cid)
	opts.SetCleanSession(false)
	return
}

// Start connects to the MQTT broker and listens to the API topics
func (a *MQTTApi) Start() (err error) {
	opts := a.createMQTTOpts()
	opts.SetWill(a.prefix+"/connected", "false", 1, true)
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		a.logger.Info("connected to mqtt broker")
		a.updateConnected(true)
		a.UpdateRuleTable()
	})
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		a.logger.WithError(err).Warn("lost connection to mqtt broker")
	})
	a.client = mqtt.NewClient(opts)

	go func() {
		for {
			if token := a.client.Connect(); token.WaitTimeout(MQTT_TIMEOUT) && token.Error() != nil {
				a.logger.WithError(token.Error()).
					Errorf("error connecting to mqtt broker. will retry in %v", CONNECT_RETRY_TIMEOUT)
				time.Sleep(CONNECT_RETRY_TIMEOUT)
			} else {
				break
			}
		}

		a.subscribe()
	}()

	return
}

// Stop disconnects from the broker
func (a *MQTTApi) Stop() {
	if a.client.IsConnected() {
		a.logger.Info("disconnecting from mqtt broker")
		a.updateConnected(false)
		a.client.Disconnect(250)
	} else {
		a.logger.Warn("was never connected to broker")
	}
}

// Client gets the MQTT client used by the MQTTApi
func (a *MQTTApi) Client() mqtt.Client {
	return a.client
}

// Prefix gets the topic prefix of this MQTTApi
func (a *MQTTApi) Prefix() string {
	return a.prefix
}

func (a *MQTTApi) updateConnected(connected bool) (err error) {
	str := strconv.FormatBool(connected)
	token := a.client.Publish(a.prefix+"/connected", 1, true, str)
	if token.WaitTimeout(MQTT_TIMEOUT); token.Error() != nil {
		return token.Error()
	}
	return
}

// UpdateRuleTable publishes the active rule-table artifact so clients can
// see which behavior version is running
func (a *MQTTApi) UpdateRuleTable() (err error) {
	if a.rulesDoc == nil {
		return
	}
	bytes, err := json.Marshal(a.rulesDoc)
	if err != nil {
		err = fmt.Errorf("error marshalling rule table: %v", err)
		return
	}
	a.client.Publish(a.prefix+"/rules", 1, true, bytes)
	return
}

// UpdateStep publishes the result of one simulation step
func (a *MQTTApi) UpdateStep(result sim.StepResult) (err error) {
	bytes, err := json.Marshal(&result)
	if err != nil {
		err = fmt.Errorf("error marshalling step result: %v", err)
		return
	}
	a.client.Publish(a.prefix+"/sim/step", 1, true, bytes)
	return
}

func (a *MQTTApi) subscribe() {
	reqPath := a.prefix + "/requests"
	resPath := a.prefix + "/responses"
	a.logger.WithField("path", reqPath).Debug("registering request handler")
	a.client.Subscribe(reqPath, 2, func(client mqtt.Client, message mqtt.Message) {
		var (
			data struct {
				Rid  int    `json:"rid"`
				Type string `json:"type"`
			}
			rData = make(responseData)
			err   error
		)

		defer func() {
			var (
				merr *util.Error
				ok   bool
			)
			if err != nil {
				if merr, ok = err.(*util.Error); !ok {
					merr = util.NewInternalError(err)
				}
			}
			if merr != nil {
				a.logger.WithError(merr).Info("error processing request")
				rData["result"] = "error"
				rData["code"] = merr.Code
				rData["message"] = merr.Error()
				if merr.Name != "" {
					rData["name"] = merr.Name
				}
				if merr.Cause != nil {
					rData["cause"] = merr.Cause.Error()
				}
			} else {
				rData["result"] = "success"
			}
			resBytes, err := json.Marshal(&rData)
			if err != nil {
				a.logger.WithError(err).Error("error marshaling response")
				return
			}
			client.Publish(resPath, 2, false, resBytes)
		}()

		err = json.Unmarshal(message.Payload(), &data)
		if err != nil {
			err = fmt.Errorf("could not parse api request: %v", err)
			return
		}

		rData["rid"] = data.Rid
		rData["type"] = data.Type

		var handler requestHandler
		switch data.Type {
		case "estimate":
			handler = a.estimate
		case "selectMove":
			handler = a.selectMove
		}

		if handler != nil {
			err = handler(message, rData)
		} else {
			err = util.NewError(util.EC_NotImplemented, fmt.Sprintf("invalid api request type: %s", data.Type))
		}
	})
}

func (a *MQTTApi) estimate(message mqtt.Message, rData responseData) (err error) {
	var data struct {
		SoilMoisture *float64
		Temperature  *float64
		AirHumidity  *float64
	}
	err = json.Unmarshal(message.Payload(), &data)
	if err != nil {
		err = util.NewParseError("estimate request", err)
		return
	}
	if err = util.CheckNotNil(data.SoilMoisture, "soilMoisture"); err != nil {
		return
	}
	if err = util.CheckNotNil(data.Temperature, "temperature"); err != nil {
		return
	}
	if err = util.CheckNotNil(data.AirHumidity, "airHumidity"); err != nil {
		return
	}
	readings := estimate.Readings{
		SoilMoisture: *data.SoilMoisture,
		Temperature:  *data.Temperature,
		AirHumidity:  *data.AirHumidity,
	}
	minutes := a.estimator.Estimate(readings)
	rData["minutes"] = minutes
	rData["message"] = fmt.Sprintf("watering for %.1f minutes", minutes)
	return
}

func (a *MQTTApi) selectMove(message mqtt.Message, rData responseData) (err error) {
	var data struct {
		RunningTotal *int
	}
	err = json.Unmarshal(message.Payload(), &data)
	if err != nil {
		err = util.NewParseError("selectMove request", err)
		return
	}
	if err = util.CheckNotNil(data.RunningTotal, "runningTotal"); err != nil {
		return
	}
	move, err := a.selector.SelectMove(*data.RunningTotal)
	if err != nil {
		return
	}
	rData["move"] = move
	rData["said"] = game.SpokenNumbers(*data.RunningTotal, move)
	return
}
