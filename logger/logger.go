package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger. Init must be called once at startup
// before any package logs through it.
var Log = logrus.New()

func Init() {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.JSONFormatter{})
	Log.SetLevel(logrus.InfoLevel)
}
