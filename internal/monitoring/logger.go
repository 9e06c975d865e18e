package monitoring

import "log"

// Logf is the package-level diagnostic logger for the orchestration
// libraries. It defaults to log.Printf; SetLogger replaces or mutes it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op
// logger, which is what the batch tools do unless -verbose is set.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
