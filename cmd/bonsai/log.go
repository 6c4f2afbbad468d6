package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "cli")

func (rcc *rootCmdConfig) setupLogging() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if rcc.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
}

// Logf reports progress on the command, only when running verbosely
func (rcc *rootCmdConfig) Logf(format string, a ...interface{}) {
	log.Infof(format, a...)
}
