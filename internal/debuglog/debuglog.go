// Package debuglog holds the process-wide debug logging switch.
package debuglog

import (
	"log"
	"sync/atomic"
)

var enabled int32

// SetEnabled sets whether debug logging is enabled
func SetEnabled(on bool) {
	if on {
		atomic.StoreInt32(&enabled, 1)
	} else {
		atomic.StoreInt32(&enabled, 0)
	}
}

// Enabled returns whether debug logging is enabled
func Enabled() bool {
	return atomic.LoadInt32(&enabled) == 1
}

// Logger prefixes every line with a component tag
type Logger struct {
	prefix string
}

// New returns a logger tagging lines with "[component] "
func New(component string) Logger {
	return Logger{prefix: "[" + component + "] "}
}

// Printf logs through the standard logger when debug logging is enabled
func (l Logger) Printf(format string, args ...interface{}) {
	if Enabled() {
		log.Printf(l.prefix+format, args...)
	}
}
