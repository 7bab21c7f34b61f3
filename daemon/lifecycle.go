package daemon

import (
	"context"

	"github.com/looplab/fsm"

	"github.com/bsv-blockchain/nanonode/errors"
)

// Fixture lifecycle states. Construction nests strictly inwards, teardown
// reverses exactly one tier per call.
const (
	StateUninitialized = "uninitialized"
	StateProcessReady  = "process_ready"
	StateNodeReady     = "node_ready"
	StateChainReady    = "chain_ready"
	StateTornDown      = "torn_down"
)

const (
	eventStartProcess   = "start_process"
	eventConstructNode  = "construct_node"
	eventConstructChain = "construct_chain"
	eventDestructChain  = "destruct_chain"
	eventDestructNode   = "destruct_node"
	eventStopProcess    = "stop_process"
)

// lifecycle enforces the fixture stack discipline. Tearing tiers down in the
// wrong order is rejected rather than silently corrupting shared state.
type lifecycle struct {
	machine *fsm.FSM
}

func newLifecycle() *lifecycle {
	return &lifecycle{
		machine: fsm.NewFSM(
			StateUninitialized,
			fsm.Events{
				{Name: eventStartProcess, Src: []string{StateUninitialized}, Dst: StateProcessReady},
				{Name: eventConstructNode, Src: []string{StateProcessReady}, Dst: StateNodeReady},
				{Name: eventConstructChain, Src: []string{StateNodeReady}, Dst: StateChainReady},
				{Name: eventDestructChain, Src: []string{StateChainReady}, Dst: StateNodeReady},
				{Name: eventDestructNode, Src: []string{StateNodeReady}, Dst: StateProcessReady},
				{Name: eventStopProcess, Src: []string{StateProcessReady}, Dst: StateTornDown},
			},
			fsm.Callbacks{},
		),
	}
}

func (l *lifecycle) transition(ctx context.Context, event string) error {
	if err := l.machine.Event(ctx, event); err != nil {
		return errors.NewConfigurationError("fixture lifecycle violation: cannot %s in state %s", event, l.machine.Current(), err)
	}

	return nil
}

func (l *lifecycle) Current() string {
	return l.machine.Current()
}
