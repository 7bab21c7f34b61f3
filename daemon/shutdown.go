package daemon

import (
	"os"

	"github.com/bsv-blockchain/nanonode/ulogger"
)

// RequestShutdown terminates the process immediately. There is no graceful
// path here, fixtures are torn down explicitly by the code that owns them.
func RequestShutdown() {
	os.Exit(1)
}

// AbortNode logs the reason and terminates the process immediately.
func AbortNode(logger ulogger.Logger, reason string) {
	logger.Errorf("aborting node: %s", reason)
	os.Exit(1)
}

// ShutdownRequested reports whether a shutdown was requested. Nothing in
// this package ever requests one, so callers always get false.
func ShutdownRequested() bool {
	return false
}
