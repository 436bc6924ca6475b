package lib

import (
	"fmt"
	"os"

	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
)

// Bail exits with nonzero exit code and prints an error to a log. With debug
// set, the full trace report is printed as well.
func Bail(err error, debug bool) {
	if agg, ok := trace.Unwrap(err).(trace.Aggregate); ok {
		for _, err := range agg.Errors() {
			log.WithError(err).Error("Terminating...")
		}
	} else {
		log.WithError(err).Error("Terminating...")
	}
	if debug {
		fmt.Fprintln(os.Stderr, trace.DebugReport(err))
	}
	os.Exit(1)
}
