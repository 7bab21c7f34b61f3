// Package daemon provides the nested test fixtures that stand up a complete
// node: process-wide state, node-level state and a fully wired chain state
// with a mineable best chain.
package daemon

import (
	"context"

	"go.uber.org/atomic"

	"github.com/bsv-blockchain/nanonode/ulogger"
)

// ProcessEnvironment owns process-wide state shared by every fixture built
// on top of it. Exactly one should exist per test binary.
type ProcessEnvironment struct {
	logger ulogger.Logger
	lc     *lifecycle

	started atomic.Bool
	stopped atomic.Bool
}

func NewProcessEnvironment(logger ulogger.Logger) *ProcessEnvironment {
	return &ProcessEnvironment{
		logger: logger,
		lc:     newLifecycle(),
	}
}

// Start initializes the process tier. Calling Start again before Stop is a
// no-op, the environment is not restartable after Stop.
func (e *ProcessEnvironment) Start(ctx context.Context) error {
	if e.started.Load() && !e.stopped.Load() {
		return nil
	}

	if err := e.lc.transition(ctx, eventStartProcess); err != nil {
		return err
	}

	e.started.Store(true)
	e.logger.Debugf("process environment started")

	return nil
}

// MustStart is Start for callers with no recovery path. Initialization
// failure aborts the run.
func (e *ProcessEnvironment) MustStart(ctx context.Context) {
	if err := e.Start(ctx); err != nil {
		e.logger.Fatalf("process environment failed to start: %v", err)
	}
}

// Stop tears the process tier down. It fails while a node or chain fixture
// built on this environment is still alive.
func (e *ProcessEnvironment) Stop(ctx context.Context) error {
	if e.stopped.Load() {
		return nil
	}

	if err := e.lc.transition(ctx, eventStopProcess); err != nil {
		return err
	}

	e.stopped.Store(true)
	e.logger.Debugf("process environment stopped")

	return nil
}

// State returns the current lifecycle state of the fixture stack.
func (e *ProcessEnvironment) State() string {
	return e.lc.Current()
}
