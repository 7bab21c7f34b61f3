package blockassembly

import (
	"context"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/bsv-blockchain/go-chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/nanonode/mempool"
	"github.com/bsv-blockchain/nanonode/model"
	"github.com/bsv-blockchain/nanonode/settings"
	"github.com/bsv-blockchain/nanonode/stores/blockchain"
	"github.com/bsv-blockchain/nanonode/ulogger"
)

const testLockingScriptHex = "76a914ae7b0b4e2750e5e96ef37c83b0c959f7875e439188ac"

func newTestAssembler(t *testing.T) (*BlockAssembler, *mempool.TxMempool, *settings.Settings) {
	t.Helper()

	tSettings := settings.NewSettings()
	tSettings.Network = "regtest"
	tSettings.ChainCfgParams = &chaincfg.RegressionNetParams

	store, err := blockchain.NewStore(ulogger.TestLogger{}, tSettings.BlockChain.StoreURL, tSettings)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
	})

	txMempool := mempool.New(ulogger.TestLogger{}, tSettings)

	return NewBlockAssembler(ulogger.TestLogger{}, tSettings, store, txMempool), txMempool, tSettings
}

func newMempoolTx(t *testing.T, parentTxID string, satoshis uint64) *bt.Tx {
	t.Helper()

	tx := bt.NewTx()
	require.NoError(t, tx.From(parentTxID, 0, testLockingScriptHex, satoshis+100))

	lockingScript, err := bscript.NewFromHexString(testLockingScriptHex)
	require.NoError(t, err)

	tx.AddOutput(&bt.Output{
		Satoshis:      satoshis,
		LockingScript: lockingScript,
	})

	return tx
}

func TestGetMiningCandidate(t *testing.T) {
	t.Run("empty mempool", func(t *testing.T) {
		assembler, _, _ := newTestAssembler(t)

		candidate, err := assembler.GetMiningCandidate(context.Background())
		require.NoError(t, err)

		assert.Equal(t, uint32(1), candidate.Height)
		assert.Equal(t, uint32(2), candidate.Version)
		assert.Equal(t, uint32(0), candidate.NumTxs)
		assert.Equal(t, uint64(5_000_000_000), candidate.CoinbaseValue)
		assert.Equal(t, chaincfg.RegressionNetParams.GenesisHash.CloneBytes(), candidate.PreviousHash)
	})

	t.Run("fees and order from the mempool", func(t *testing.T) {
		assembler, txMempool, _ := newTestAssembler(t)

		older := newMempoolTx(t, "a599d9a9f21fd9e6feebcee7bae5e1270bf1d50b16ccf528c34bee2ec4a24ad7", 1000)
		newer := newMempoolTx(t, "b599d9a9f21fd9e6feebcee7bae5e1270bf1d50b16ccf528c34bee2ec4a24ad7", 2000)

		require.NoError(t, txMempool.AddUnchecked(mempool.NewEntryFactory().Fee(100).Time(10).FromTx(older, txMempool)))
		require.NoError(t, txMempool.AddUnchecked(mempool.NewEntryFactory().Fee(200).Time(20).FromTx(newer, txMempool)))

		candidate, err := assembler.GetMiningCandidate(context.Background())
		require.NoError(t, err)

		assert.Equal(t, uint32(2), candidate.NumTxs)
		assert.Equal(t, uint64(5_000_000_300), candidate.CoinbaseValue)

		require.Len(t, candidate.TxHashes, 2)
		assert.True(t, candidate.TxHashes[0].IsEqual(older.TxIDChainHash()))
		assert.True(t, candidate.TxHashes[1].IsEqual(newer.TxIDChainHash()))
	})
}

func TestOverrideCandidateTransactions(t *testing.T) {
	assembler, _, _ := newTestAssembler(t)

	candidate, err := assembler.GetMiningCandidate(context.Background())
	require.NoError(t, err)

	tx := newMempoolTx(t, "a599d9a9f21fd9e6feebcee7bae5e1270bf1d50b16ccf528c34bee2ec4a24ad7", 1000)

	require.NoError(t, assembler.OverrideCandidateTransactions(candidate.Id, []*bt.Tx{tx}))

	assert.Equal(t, uint32(1), candidate.NumTxs)
	require.Len(t, candidate.TxHashes, 1)
	assert.True(t, candidate.TxHashes[0].IsEqual(tx.TxIDChainHash()))

	t.Run("unknown candidate", func(t *testing.T) {
		require.Error(t, assembler.OverrideCandidateTransactions([]byte{0xde, 0xad}, nil))
	})
}

func TestSubmitMiningSolution(t *testing.T) {
	t.Run("assembles the block", func(t *testing.T) {
		assembler, _, tSettings := newTestAssembler(t)
		ctx := context.Background()

		candidate, err := assembler.GetMiningCandidate(ctx)
		require.NoError(t, err)

		lockingScript, err := bscript.NewFromHexString(testLockingScriptHex)
		require.NoError(t, err)

		coinbaseTx, err := model.CreateCoinbase(candidate.Height, candidate.CoinbaseValue, tSettings.BlockAssembly.ArbitraryText, lockingScript)
		require.NoError(t, err)

		block, err := assembler.SubmitMiningSolution(ctx, &model.MiningSolution{
			Id:       candidate.Id,
			Nonce:    7,
			Coinbase: coinbaseTx.Bytes(),
		})
		require.NoError(t, err)

		assert.Equal(t, uint32(1), block.Height)
		assert.Equal(t, uint64(1), block.TransactionCount)
		assert.Equal(t, uint32(7), block.Header.Nonce)
		assert.True(t, block.CoinbaseTx().IsCoinbase())
		require.NoError(t, block.CheckMerkleRoot())

		// the candidate is single use
		_, err = assembler.SubmitMiningSolution(ctx, &model.MiningSolution{
			Id:       candidate.Id,
			Nonce:    7,
			Coinbase: coinbaseTx.Bytes(),
		})
		require.Error(t, err)
	})

	t.Run("nil solution", func(t *testing.T) {
		assembler, _, _ := newTestAssembler(t)

		_, err := assembler.SubmitMiningSolution(context.Background(), nil)
		require.Error(t, err)
	})
}
