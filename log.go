package gamerules

import (
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "gamerules",
	Level:  log.WarnLevel,
})

// SetLogger replaces the package logger. A nil logger is ignored.
// Like every other mutation here, call it from the server thread.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Logger returns the package logger.
func Logger() *log.Logger {
	return logger
}
