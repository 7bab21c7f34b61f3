package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/labstack/gommon/random"

	"github.com/bsv-blockchain/nanonode/errors"
	"github.com/bsv-blockchain/nanonode/mempool"
	"github.com/bsv-blockchain/nanonode/services/blockassembly"
	"github.com/bsv-blockchain/nanonode/services/blockvalidation"
	"github.com/bsv-blockchain/nanonode/settings"
	"github.com/bsv-blockchain/nanonode/stores/blockchain"
	"github.com/bsv-blockchain/nanonode/stores/utxo"
	"github.com/bsv-blockchain/nanonode/stores/utxo/cached"
	"github.com/bsv-blockchain/nanonode/stores/utxo/memory"
	"github.com/bsv-blockchain/nanonode/ulogger"
)

// ChainStateFixture is the innermost tier: a fully wired chain state with an
// active genesis chain, utxo set, mempool, script verification workers,
// block validation and block assembly. Everything it creates is released in
// Destruct, in reverse order of acquisition.
type ChainStateFixture struct {
	node     *NodeFixture
	logger   ulogger.Logger
	settings *settings.Settings

	// DataDir is the ephemeral working directory, removed on teardown.
	DataDir string

	blockchainStore blockchain.Store
	utxoMemStore    *memory.Store
	utxoStore       utxo.Store
	txMempool       *mempool.TxMempool
	verifyPool      *blockvalidation.VerifyPool
	blockValidation *blockvalidation.BlockValidation
	blockAssembler  *blockassembly.BlockAssembler
	connMan         *ConnectionManager

	notifyCancel context.CancelFunc
	notifyWg     sync.WaitGroup
}

// NewChainStateFixture wires up the full chain state on top of a node
// fixture. The block index is opened with the genesis block active, the
// genesis coinbase is registered in the utxo set and the script verification
// workers are started.
func NewChainStateFixture(ctx context.Context, node *NodeFixture) (f *ChainStateFixture, err error) {
	if err = node.env.lc.transition(ctx, eventConstructChain); err != nil {
		return nil, err
	}

	defer func() {
		// a half-built fixture must not leave the stack in chain_ready
		if err != nil {
			_ = node.env.lc.transition(ctx, eventDestructChain)

			if f != nil {
				f.releaseOnError()
			}
		}
	}()

	tSettings := node.settings
	logger := node.logger.New("chain")

	dataDir := filepath.Join(tSettings.DataFolder, fmt.Sprintf("test_%d_%s", time.Now().UnixNano(), random.String(8)))
	if err = os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, errors.NewStorageError("failed to create data directory %s", dataDir, err)
	}

	tSettings.DataFolder = dataDir

	f = &ChainStateFixture{
		node:     node,
		logger:   logger,
		settings: tSettings,
		DataDir:  dataDir,
	}

	f.blockchainStore, err = blockchain.NewStore(logger, tSettings.BlockChain.StoreURL, tSettings)
	if err != nil {
		return nil, err
	}

	// opening the index activates the best chain, which must end at genesis
	// on a fresh store
	bestHeader, bestHeight, err := f.blockchainStore.GetBestBlockHeader(ctx)
	if err != nil {
		return nil, err
	}

	if bestHeight == 0 && !bestHeader.Hash().IsEqual(tSettings.ChainCfgParams.GenesisHash) {
		return nil, errors.NewBlockInvalidError("genesis activation failed: tip is %s, want %s", bestHeader.Hash(), tSettings.ChainCfgParams.GenesisHash)
	}

	f.utxoMemStore = memory.New(logger)

	if tSettings.UtxoStore.CacheEnabled {
		f.utxoStore = cached.New(logger, f.utxoMemStore, ttlcache.WithTTL[utxo.Outpoint, *utxo.Output](tSettings.UtxoStore.CacheTTL))
	} else {
		f.utxoStore = f.utxoMemStore
	}

	genesis, err := f.blockchainStore.GetBlockByHeight(ctx, 0)
	if err != nil {
		return nil, err
	}

	if err = f.utxoStore.Create(ctx, genesis.CoinbaseTx(), 0); err != nil {
		return nil, err
	}

	f.txMempool = mempool.New(logger, tSettings)

	f.verifyPool = blockvalidation.NewVerifyPool(logger, tSettings.BlockValidation.ScriptVerificationWorkers)

	f.blockValidation = blockvalidation.New(logger, tSettings, f.blockchainStore, f.utxoStore, f.txMempool, f.verifyPool)
	f.blockAssembler = blockassembly.NewBlockAssembler(logger, tSettings, f.blockchainStore, f.txMempool)

	// drain chain-change notifications into the node's sink until teardown
	notifyCtx, cancel := context.WithCancel(context.Background())
	f.notifyCancel = cancel

	notifications := f.blockValidation.Subscribe()

	f.notifyWg.Add(1)

	go func() {
		defer f.notifyWg.Done()

		for {
			select {
			case <-notifyCtx.Done():
				return
			case n := <-notifications:
				node.notify(n)
			}
		}
	}()

	f.connMan = NewConnectionManagerStub()
	node.connMan = f.connMan

	logger.Debugf("chain state fixture constructed in %s", dataDir)

	return f, nil
}

// releaseOnError closes whatever a failed construction already acquired.
func (f *ChainStateFixture) releaseOnError() {
	if f.notifyCancel != nil {
		f.notifyCancel()
		f.notifyWg.Wait()
	}

	if f.verifyPool != nil {
		f.verifyPool.Stop()
	}

	if f.utxoStore != nil {
		_ = f.utxoStore.Close()
	}

	if f.utxoMemStore != nil {
		_ = f.utxoMemStore.Close()
	}

	if f.blockchainStore != nil {
		_ = f.blockchainStore.Close()
	}

	if f.DataDir != "" {
		_ = os.RemoveAll(f.DataDir)
	}
}

func (f *ChainStateFixture) BlockchainStore() blockchain.Store {
	return f.blockchainStore
}

func (f *ChainStateFixture) UtxoStore() utxo.Store {
	return f.utxoStore
}

func (f *ChainStateFixture) Mempool() *mempool.TxMempool {
	return f.txMempool
}

func (f *ChainStateFixture) BlockValidation() *blockvalidation.BlockValidation {
	return f.blockValidation
}

func (f *ChainStateFixture) BlockAssembler() *blockassembly.BlockAssembler {
	return f.blockAssembler
}

// Destruct releases all chain state in strict reverse order of acquisition:
// the network stub, the notification drain, the verification workers, the
// stores and finally the data directory. When strict index checking is on,
// the block index is verified before the stores close.
func (f *ChainStateFixture) Destruct(ctx context.Context) error {
	if err := f.node.env.lc.transition(ctx, eventDestructChain); err != nil {
		return err
	}

	f.node.connMan = nil
	f.connMan = nil

	f.notifyCancel()
	// the join is unbounded, the drain goroutine owns no blocking work
	f.notifyWg.Wait()

	f.verifyPool.Stop()

	if f.settings.BlockChain.CheckBlockIndexStrict {
		if err := f.blockchainStore.CheckBlockIndex(ctx); err != nil {
			return err
		}
	}

	f.txMempool.Clear()

	if err := f.utxoStore.Close(); err != nil {
		return err
	}

	if err := f.utxoMemStore.Close(); err != nil {
		return err
	}

	if err := f.blockchainStore.Close(); err != nil {
		return err
	}

	if err := os.RemoveAll(f.DataDir); err != nil {
		return errors.NewStorageError("failed to remove data directory %s", f.DataDir, err)
	}

	f.logger.Debugf("chain state fixture destructed")

	return nil
}
