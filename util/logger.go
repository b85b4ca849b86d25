package util

import (
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogLevel sets the Logger level from the LOG_LEVEL environment variable
func InitLogLevel() {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err == nil {
			Logger.SetLevel(lvl)
		}
	}
}

// Logger is the global logger for the application
var Logger = logrus.New()
