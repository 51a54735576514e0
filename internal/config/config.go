package config

import "github.com/sirupsen/logrus"

// Verbose enables debug output when true
var Verbose bool

// Log is the shared logger for the driver and CLI.
var Log = logrus.New()

// Setup configures the logger according to the verbose flag.
// Call once after flag parsing.
func Setup(verbose bool) {
	Verbose = verbose
	Log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		Log.SetLevel(logrus.DebugLevel)
	}
}

// Debugf prints debug messages when Verbose is true
func Debugf(format string, args ...any) {
	if Verbose {
		Log.Debugf(format, args...)
	}
}
