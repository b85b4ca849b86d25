package valve

import (
	"fmt"

	"github.com/sirupsen/logrus"
	rpio "github.com/stianeikeland/go-rpio/v4"

	"github.com/verdantio/verdant/util"
)

type RpioPins []rpio.Pin

// RpioInterface is a valve interface which uses raspberry pi gpio pins to
// drive zone valve relays
type RpioInterface struct {
	pins RpioPins
	log  *logrus.Entry
}

var _ Interface = (*RpioInterface)(nil)

func NewRpioInterface(pins RpioPins) *RpioInterface {
	return &RpioInterface{
		pins,
		util.Logger.WithField("valve_interface", "rpio"),
	}
}

func (i *RpioInterface) Name() string {
	return "rpio"
}

func (i *RpioInterface) Initialize() (err error) {
	i.log.Info("opening rpio")
	err = rpio.Open()
	if err != nil {
		err = fmt.Errorf("error opening rpio: %v", err)
	}
	return
}

func (i *RpioInterface) Deinitialize() (err error) {
	return rpio.Close()
}

func (i *RpioInterface) Count() ValveID {
	return (ValveID)(len(i.pins))
}

func (i *RpioInterface) Set(id ValveID, open bool) {
	i.log.WithFields(logrus.Fields{
		"valve": id, "open": open,
	}).Debug("setting valve state")
	pin := i.pins[id]
	if open {
		pin.Output()
		pin.High()
	} else {
		pin.Low()
		pin.Input()
	}
}

func (i *RpioInterface) Get(id ValveID) bool {
	pin := i.pins[id]
	return pin.Read() == rpio.High
}
