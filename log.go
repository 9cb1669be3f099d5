package nocgen

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// logger is used by the builders.  It is silent until a caller installs its own.
var logger = newDiscardLogger()

func newDiscardLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

// SetLogger installs the logger the package reports build steps to
func SetLogger(l *log.Logger) {
	if l == nil {
		l = newDiscardLogger()
	}
	logger = l
}

// Logger returns the logger currently in use
func Logger() *log.Logger {
	return logger
}
