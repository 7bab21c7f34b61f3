// Package blockvalidation checks candidate blocks against consensus rules
// and connects them to the chain.
package blockvalidation

import (
	"context"
	"sync"
	"time"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/ordishs/gocore"
	"golang.org/x/sync/errgroup"

	"github.com/bsv-blockchain/nanonode/errors"
	"github.com/bsv-blockchain/nanonode/mempool"
	"github.com/bsv-blockchain/nanonode/model"
	"github.com/bsv-blockchain/nanonode/settings"
	"github.com/bsv-blockchain/nanonode/stores/blockchain"
	"github.com/bsv-blockchain/nanonode/stores/utxo"
	"github.com/bsv-blockchain/nanonode/ulogger"
	"github.com/bsv-blockchain/nanonode/util"
)

type BlockValidation struct {
	logger          ulogger.Logger
	settings        *settings.Settings
	blockchainStore blockchain.Store
	utxoStore       utxo.Store
	txMempool       *mempool.TxMempool

	// verifyPool, when set, runs per-transaction checks on its background
	// workers instead of inline goroutines.
	verifyPool *VerifyPool

	subscribersMu sync.Mutex
	subscribers   []chan *model.Notification
}

func New(logger ulogger.Logger, tSettings *settings.Settings, blockchainStore blockchain.Store, utxoStore utxo.Store, txMempool *mempool.TxMempool, verifyPool *VerifyPool) *BlockValidation {
	initPrometheusMetrics()

	return &BlockValidation{
		logger:          logger,
		settings:        tSettings,
		blockchainStore: blockchainStore,
		utxoStore:       utxoStore,
		txMempool:       txMempool,
		verifyPool:      verifyPool,
	}
}

// Subscribe returns a channel receiving a notification for every block this
// validator accepts. Slow subscribers miss notifications rather than block
// validation.
func (u *BlockValidation) Subscribe() <-chan *model.Notification {
	ch := make(chan *model.Notification, 16)

	u.subscribersMu.Lock()
	u.subscribers = append(u.subscribers, ch)
	u.subscribersMu.Unlock()

	return ch
}

func (u *BlockValidation) notify(n *model.Notification) {
	u.subscribersMu.Lock()
	defer u.subscribersMu.Unlock()

	for _, ch := range u.subscribers {
		select {
		case ch <- n:
		default:
			u.logger.Warnf("dropping %s notification for %s, subscriber is slow", n.Type, n.Hash)
		}
	}
}

// ValidateBlock checks the block against consensus rules and, when valid,
// stores it, applies its transactions to the utxo set, trims the mempool and
// notifies subscribers. The block must extend the current tip.
func (u *BlockValidation) ValidateBlock(ctx context.Context, block *model.Block) error {
	start := gocore.CurrentTime()
	defer func() {
		prometheusBlockValidationValidateBlock.Observe(float64(time.Since(start).Microseconds()) / 1_000_000)
	}()

	if err := u.checkBlock(ctx, block); err != nil {
		prometheusBlockValidationInvalidBlocks.Inc()
		return err
	}

	fees, err := u.applyTransactions(ctx, block)
	if err != nil {
		prometheusBlockValidationInvalidBlocks.Inc()
		return err
	}

	// the coinbase may not claim more than subsidy plus fees
	coinbaseReward := util.GetBlockSubsidyForHeight(block.Height, u.settings.ChainCfgParams) + fees
	if claimed := block.CoinbaseTx().TotalOutputSatoshis(); claimed > coinbaseReward {
		prometheusBlockValidationInvalidBlocks.Inc()
		return errors.NewBlockInvalidError("coinbase claims %d, only %d allowed", claimed, coinbaseReward)
	}

	if _, err = u.blockchainStore.StoreBlock(ctx, block); err != nil {
		return err
	}

	u.txMempool.RemoveForBlock(block.Transactions)

	prometheusBlockValidationBestHeight.Set(float64(block.Height))
	prometheusBlockValidationTxsPerBlock.Observe(float64(block.TransactionCount))

	u.logger.Infof("accepted block %s at height %d with %d transactions", block.Hash(), block.Height, block.TransactionCount)

	u.notify(&model.Notification{
		Type:   model.NotificationBlockValidated,
		Hash:   block.Hash(),
		Height: block.Height,
	})

	return nil
}

// checkBlock runs the stateless and chain-linkage checks.
func (u *BlockValidation) checkBlock(ctx context.Context, block *model.Block) error {
	if block == nil || block.Header == nil {
		return errors.NewInvalidArgumentError("block is required")
	}

	headerValid, _, err := block.Header.HasMetTargetDifficulty()
	if err != nil {
		return err
	}

	if !headerValid {
		return errors.NewBlockInvalidError("block %s does not meet its difficulty target", block.Hash())
	}

	bestHeader, bestHeight, err := u.blockchainStore.GetBestBlockHeader(ctx)
	if err != nil {
		return err
	}

	if !block.Header.HashPrevBlock.IsEqual(bestHeader.Hash()) {
		return errors.NewBlockInvalidError("block %s does not extend the tip %s", block.Hash(), bestHeader.Hash())
	}

	if block.Height != bestHeight+1 {
		return errors.NewBlockInvalidError("block %s has height %d, expected %d", block.Hash(), block.Height, bestHeight+1)
	}

	if err = block.CheckMerkleRoot(); err != nil {
		return err
	}

	coinbase := block.CoinbaseTx()
	if !coinbase.IsCoinbase() {
		return errors.NewBlockInvalidError("first transaction of block %s is not a coinbase", block.Hash())
	}

	if block.Header.Version >= 2 {
		coinbaseHeight, err := block.ExtractCoinbaseHeight()
		if err != nil {
			return err
		}

		if coinbaseHeight != block.Height {
			return errors.NewBlockInvalidError("coinbase height %d does not match block height %d", coinbaseHeight, block.Height)
		}
	}

	return u.checkTransactions(ctx, block)
}

// checkTransactions runs the per-transaction checks concurrently on the
// configured number of workers.
func (u *BlockValidation) checkTransactions(ctx context.Context, block *model.Block) error {
	seen := make(map[chainhash.Hash]struct{}, len(block.Transactions))
	for _, tx := range block.Transactions {
		txID := *tx.TxIDChainHash()
		if _, ok := seen[txID]; ok {
			return errors.NewBlockInvalidError("duplicate transaction %s in block %s", txID, block.Hash())
		}

		seen[txID] = struct{}{}
	}

	if u.verifyPool != nil {
		errChs := make([]<-chan error, 0, len(block.Transactions)-1)
		for _, tx := range block.Transactions[1:] {
			errChs = append(errChs, u.verifyPool.Submit(tx, u.checkTransaction))
		}

		var firstErr error

		for _, errCh := range errChs {
			if err := <-errCh; err != nil && firstErr == nil {
				firstErr = err
			}
		}

		return firstErr
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(u.settings.BlockValidation.ScriptVerificationWorkers)

	for _, tx := range block.Transactions[1:] {
		tx := tx

		g.Go(func() error {
			return u.checkTransaction(tx)
		})
	}

	return g.Wait()
}

func (u *BlockValidation) checkTransaction(tx *bt.Tx) error {
	txID := tx.TxIDChainHash()

	if tx.IsCoinbase() {
		return errors.NewTxInvalidError("tx %s is an unexpected coinbase", txID)
	}

	if len(tx.Inputs) == 0 {
		return errors.NewTxInvalidError("tx %s has no inputs", txID)
	}

	if len(tx.Outputs) == 0 {
		return errors.NewTxInvalidError("tx %s has no outputs", txID)
	}

	if u.settings.Policy.MaxTxSizePolicy > 0 && tx.Size() > u.settings.Policy.MaxTxSizePolicy {
		return errors.NewTxInvalidError("tx %s exceeds the maximum size", txID)
	}

	for _, input := range tx.Inputs {
		if input.UnlockingScript == nil || len(*input.UnlockingScript) == 0 {
			return errors.NewTxInvalidError("tx %s has an input without an unlocking script", txID)
		}
	}

	return nil
}

// applyTransactions spends every input and creates every output of the
// block in the utxo store, returning the total fees. Outputs created earlier
// in the same block are spendable by later transactions.
func (u *BlockValidation) applyTransactions(ctx context.Context, block *model.Block) (uint64, error) {
	coinbaseMaturity := uint32(u.settings.ChainCfgParams.CoinbaseMaturity)

	for _, tx := range block.Transactions {
		if err := u.utxoStore.Create(ctx, tx, block.Height); err != nil {
			return 0, err
		}
	}

	var fees uint64

	for _, tx := range block.Transactions[1:] {
		var totalIn uint64

		for _, input := range tx.Inputs {
			outpoint := utxo.NewOutpoint(input.PreviousTxIDChainHash(), input.PreviousTxOutIndex)

			output, err := u.utxoStore.Spend(ctx, outpoint, block.Height, coinbaseMaturity)
			if err != nil {
				return 0, err
			}

			totalIn += output.Satoshis
		}

		totalOut := tx.TotalOutputSatoshis()
		if totalIn < totalOut {
			return 0, errors.NewTxInvalidError("tx %s spends %d but only provides %d", tx.TxIDChainHash(), totalOut, totalIn)
		}

		fees += totalIn - totalOut
	}

	return fees, nil
}
