package daemon

import (
	"context"
	"math/rand"
	"sync"

	"github.com/bsv-blockchain/nanonode/errors"
	"github.com/bsv-blockchain/nanonode/mempool"
	"github.com/bsv-blockchain/nanonode/model"
	"github.com/bsv-blockchain/nanonode/settings"
	"github.com/bsv-blockchain/nanonode/ulogger"
)

// Tests that need randomness draw it from the fixture so runs are
// reproducible.
const deterministicRandSeed = 1337

// NodeFixture holds node-level state: the activated chain parameter set, a
// deterministic random source and the notification sink. It does not yet
// have a chain, that is the next tier down.
type NodeFixture struct {
	env      *ProcessEnvironment
	logger   ulogger.Logger
	settings *settings.Settings
	rng      *rand.Rand

	// connMan is only set while a chain fixture is alive.
	connMan *ConnectionManager

	sinkMu           sync.RWMutex
	notificationSink func(*model.Notification)
}

// NewNodeFixture activates the chain parameters for the given network
// profile and prepares node-level state. The parameter set is copied so
// per-test tweaks never leak into the package-level params.
func NewNodeFixture(ctx context.Context, env *ProcessEnvironment, profile string) (*NodeFixture, error) {
	params, err := settings.GetChainParams(profile)
	if err != nil {
		return nil, err
	}

	if err = env.lc.transition(ctx, eventConstructNode); err != nil {
		return nil, err
	}

	chainParams := *params

	tSettings := settings.NewSettings()
	tSettings.Network = profile
	tSettings.ChainCfgParams = &chainParams

	// every block index walk and every mempool mutation is checked in tests
	tSettings.BlockChain.CheckBlockIndexStrict = true
	tSettings.Mempool.CheckFrequency = mempool.CheckFrequencyAlways

	n := &NodeFixture{
		env:      env,
		logger:   env.logger.New("node"),
		settings: tSettings,
		rng:      rand.New(rand.NewSource(deterministicRandSeed)), //nolint:gosec // deterministic on purpose
		notificationSink: func(*model.Notification) {
			// notifications are accepted and dropped
		},
	}

	n.logger.Debugf("node fixture constructed for %s", profile)

	return n, nil
}

// Settings returns the node's settings, including the activated chain
// parameters. Callers may tweak them before constructing the chain tier.
func (n *NodeFixture) Settings() *settings.Settings {
	return n.settings
}

// Rand returns the fixture's deterministic random source.
func (n *NodeFixture) Rand() *rand.Rand {
	return n.rng
}

// ConnectionManager returns the network stub, or nil when no chain fixture
// is alive.
func (n *NodeFixture) ConnectionManager() *ConnectionManager {
	return n.connMan
}

// SetNotificationSink replaces the sink chain-change notifications are
// drained into.
func (n *NodeFixture) SetNotificationSink(sink func(*model.Notification)) error {
	if sink == nil {
		return errors.NewInvalidArgumentError("notification sink is required")
	}

	n.sinkMu.Lock()
	defer n.sinkMu.Unlock()

	n.notificationSink = sink

	return nil
}

func (n *NodeFixture) notify(notification *model.Notification) {
	n.sinkMu.RLock()
	defer n.sinkMu.RUnlock()

	n.notificationSink(notification)
}

// Destruct tears the node tier down. It fails while a chain fixture built on
// this node is still alive.
func (n *NodeFixture) Destruct(ctx context.Context) error {
	if err := n.env.lc.transition(ctx, eventDestructNode); err != nil {
		return err
	}

	n.connMan = nil
	n.logger.Debugf("node fixture destructed")

	return nil
}
