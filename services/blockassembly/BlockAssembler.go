// Package blockassembly builds block templates from the mempool and turns
// mining solutions back into full blocks.
package blockassembly

import (
	"context"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/google/uuid"
	"github.com/ordishs/gocore"

	"github.com/bsv-blockchain/nanonode/errors"
	"github.com/bsv-blockchain/nanonode/mempool"
	"github.com/bsv-blockchain/nanonode/model"
	"github.com/bsv-blockchain/nanonode/settings"
	"github.com/bsv-blockchain/nanonode/stores/blockchain"
	"github.com/bsv-blockchain/nanonode/ulogger"
	"github.com/bsv-blockchain/nanonode/util"
)

// candidateState remembers the transactions promised by a mining candidate
// so the block can be reassembled when a solution comes back.
type candidateState struct {
	candidate *model.MiningCandidate
	txs       []*bt.Tx
}

type BlockAssembler struct {
	logger          ulogger.Logger
	settings        *settings.Settings
	blockchainStore blockchain.Store
	txMempool       *mempool.TxMempool

	mu         sync.Mutex
	candidates map[string]*candidateState
}

func NewBlockAssembler(logger ulogger.Logger, tSettings *settings.Settings, blockchainStore blockchain.Store, txMempool *mempool.TxMempool) *BlockAssembler {
	initPrometheusMetrics()

	return &BlockAssembler{
		logger:          logger,
		settings:        tSettings,
		blockchainStore: blockchainStore,
		txMempool:       txMempool,
		candidates:      make(map[string]*candidateState),
	}
}

// GetMiningCandidate builds a template on top of the current chain tip from
// the transactions in the mempool. Difficulty follows the tip header.
func (b *BlockAssembler) GetMiningCandidate(ctx context.Context) (*model.MiningCandidate, error) {
	prometheusBlockAssemblerGetMiningCandidate.Inc()

	bestHeader, bestHeight, err := b.blockchainStore.GetBestBlockHeader(ctx)
	if err != nil {
		return nil, err
	}

	prometheusBlockAssemblerBestBlockHeight.Set(float64(bestHeight))

	entries := b.txMempool.Entries()

	// stable block order: oldest first, ties broken by ID
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Time != entries[j].Time {
			return entries[i].Time < entries[j].Time
		}

		return entries[i].Tx.TxID() < entries[j].Tx.TxID()
	})

	txs := make([]*bt.Tx, len(entries))
	txHashes := make([]*chainhash.Hash, len(entries))
	sizeWithoutCoinbase := uint64(model.BlockHeaderSize)

	coinbaseValue := util.GetBlockSubsidyForHeight(bestHeight+1, b.settings.ChainCfgParams)

	for i, entry := range entries {
		txs[i] = entry.Tx
		txHashes[i] = entry.Tx.TxIDChainHash()
		sizeWithoutCoinbase += entry.Size
		coinbaseValue += entry.Fee
	}

	numTxs, err := safeconversion.IntToUint32(len(txs))
	if err != nil {
		return nil, errors.NewProcessingError("invalid transaction count", err)
	}

	id := uuid.New()

	candidate := &model.MiningCandidate{
		Id:                  id[:],
		PreviousHash:        bestHeader.Hash().CloneBytes(),
		CoinbaseValue:       coinbaseValue,
		Version:             2,
		NBits:               bestHeader.Bits[:],
		Time:                uint32(time.Now().Unix()),
		Height:              bestHeight + 1,
		NumTxs:              numTxs,
		SizeWithoutCoinbase: sizeWithoutCoinbase,
		TxHashes:            txHashes,
	}

	prometheusBlockAssemblerCandidateTransactions.Set(float64(numTxs))

	b.mu.Lock()
	b.candidates[hex.EncodeToString(candidate.Id)] = &candidateState{
		candidate: candidate,
		txs:       txs,
	}
	b.mu.Unlock()

	b.logger.Debugf("built %s", candidate.Stringify())

	return candidate, nil
}

// OverrideCandidateTransactions replaces the transactions promised by a
// handed-out candidate with the given set, preserving order. Used by the
// test harness to mine blocks with an exact body.
func (b *BlockAssembler) OverrideCandidateTransactions(id []byte, txs []*bt.Tx) error {
	key := hex.EncodeToString(id)

	b.mu.Lock()
	defer b.mu.Unlock()

	state, ok := b.candidates[key]
	if !ok {
		return errors.NewNotFoundError("unknown mining candidate %s", key)
	}

	numTxs, err := safeconversion.IntToUint32(len(txs))
	if err != nil {
		return errors.NewProcessingError("invalid transaction count", err)
	}

	txHashes := make([]*chainhash.Hash, len(txs))
	sizeWithoutCoinbase := uint64(model.BlockHeaderSize)

	for i, tx := range txs {
		txHashes[i] = tx.TxIDChainHash()
		sizeWithoutCoinbase += uint64(tx.Size())
	}

	state.txs = txs
	state.candidate.TxHashes = txHashes
	state.candidate.NumTxs = numTxs
	state.candidate.SizeWithoutCoinbase = sizeWithoutCoinbase

	return nil
}

// SubmitMiningSolution assembles the full block for a previously handed out
// candidate. The block is returned for validation, it is not stored here.
func (b *BlockAssembler) SubmitMiningSolution(ctx context.Context, solution *model.MiningSolution) (*model.Block, error) {
	start := gocore.CurrentTime()
	defer func() {
		prometheusBlockAssemblerSubmitMiningSolution.Observe(float64(time.Since(start).Microseconds()) / 1_000_000)
	}()

	if solution == nil {
		return nil, errors.NewInvalidArgumentError("mining solution is required")
	}

	key := hex.EncodeToString(solution.Id)

	b.mu.Lock()
	state, ok := b.candidates[key]
	if ok {
		delete(b.candidates, key)
	}
	b.mu.Unlock()

	if !ok {
		return nil, errors.NewNotFoundError("unknown mining candidate %s", key)
	}

	candidate := state.candidate

	coinbaseTx, err := bt.NewTxFromBytes(solution.Coinbase)
	if err != nil {
		return nil, errors.NewTxInvalidError("error decoding coinbase from solution", err)
	}

	merkleRootHash, err := candidate.CalculateMerkleRoot(coinbaseTx.TxIDChainHash())
	if err != nil {
		return nil, err
	}

	previousHash, err := chainhash.NewHash(candidate.PreviousHash)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("invalid previous hash in candidate", err)
	}

	nBits, err := model.NewNBitFromSlice(candidate.NBits)
	if err != nil {
		return nil, err
	}

	version := candidate.Version
	if solution.Version != nil {
		version = *solution.Version
	}

	timestamp := candidate.Time
	if solution.Time != nil {
		timestamp = *solution.Time
	}

	header := &model.BlockHeader{
		Version:        version,
		HashPrevBlock:  previousHash,
		HashMerkleRoot: merkleRootHash,
		Timestamp:      timestamp,
		Bits:           *nBits,
		Nonce:          solution.Nonce,
	}

	transactions := make([]*bt.Tx, 0, len(state.txs)+1)
	transactions = append(transactions, coinbaseTx)
	transactions = append(transactions, state.txs...)

	return model.NewBlock(header, transactions, candidate.Height)
}
