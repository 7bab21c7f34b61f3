package sql

import (
	"context"
	"net/url"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/go-chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/nanonode/errors"
	"github.com/bsv-blockchain/nanonode/model"
	"github.com/bsv-blockchain/nanonode/settings"
	"github.com/bsv-blockchain/nanonode/ulogger"
)

func newTestStore(t *testing.T) *SQL {
	t.Helper()

	tSettings := settings.NewSettings()
	tSettings.Network = "regtest"
	tSettings.ChainCfgParams = &chaincfg.RegressionNetParams

	storeURL, err := url.Parse("sqlitememory:///blockchain")
	require.NoError(t, err)

	store, err := New(ulogger.TestLogger{}, storeURL, tSettings)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// newChildBlock builds a version 2 block on top of the given header. The
// store does not verify proof of work, only linkage.
func newChildBlock(t *testing.T, prevHeader *model.BlockHeader, height uint32) *model.Block {
	t.Helper()

	lockingScript, err := bscript.NewFromHexString("76a914ae7b0b4e2750e5e96ef37c83b0c959f7875e439188ac")
	require.NoError(t, err)

	coinbaseTx, err := model.CreateCoinbase(height, 5_000_000_000, "/test/", lockingScript)
	require.NoError(t, err)

	merkleRoot, err := model.CalculateMerkleRootFromHashes([]*chainhash.Hash{coinbaseTx.TxIDChainHash()})
	require.NoError(t, err)

	header := &model.BlockHeader{
		Version:        2,
		HashPrevBlock:  prevHeader.Hash(),
		HashMerkleRoot: merkleRoot,
		Timestamp:      prevHeader.Timestamp + 600,
		Bits:           prevHeader.Bits,
		Nonce:          height,
	}

	block, err := model.NewBlock(header, []*bt.Tx{coinbaseTx}, height)
	require.NoError(t, err)

	return block
}

func TestNewInsertsGenesis(t *testing.T) {
	store := newTestStore(t)

	bestHeader, bestHeight, err := store.GetBestBlockHeader(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint32(0), bestHeight)
	assert.True(t, bestHeader.Hash().IsEqual(chaincfg.RegressionNetParams.GenesisHash))

	exists, err := store.GetBlockExists(context.Background(), chaincfg.RegressionNetParams.GenesisHash)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStoreBlock(t *testing.T) {
	t.Run("store and read back", func(t *testing.T) {
		store := newTestStore(t)
		ctx := context.Background()

		bestHeader, _, err := store.GetBestBlockHeader(ctx)
		require.NoError(t, err)

		block := newChildBlock(t, bestHeader, 1)

		id, err := store.StoreBlock(ctx, block)
		require.NoError(t, err)
		assert.NotZero(t, id)

		got, err := store.GetBlock(ctx, block.Hash())
		require.NoError(t, err)

		assert.True(t, got.Hash().IsEqual(block.Hash()))
		assert.Equal(t, uint32(1), got.Height)
		assert.Equal(t, block.TransactionCount, got.TransactionCount)

		byHeight, err := store.GetBlockByHeight(ctx, 1)
		require.NoError(t, err)
		assert.True(t, byHeight.Hash().IsEqual(block.Hash()))

		_, bestHeight, err := store.GetBestBlockHeader(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint32(1), bestHeight)
	})

	t.Run("duplicate rejected", func(t *testing.T) {
		store := newTestStore(t)
		ctx := context.Background()

		bestHeader, _, err := store.GetBestBlockHeader(ctx)
		require.NoError(t, err)

		block := newChildBlock(t, bestHeader, 1)

		_, err = store.StoreBlock(ctx, block)
		require.NoError(t, err)

		_, err = store.StoreBlock(ctx, block)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrBlockExists))
	})
}

func TestGetBlockNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	unknown := chaincfg.MainNetParams.GenesisHash

	_, err := store.GetBlock(ctx, unknown)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBlockNotFound))

	_, err = store.GetBlockByHeight(ctx, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBlockNotFound))

	exists, err := store.GetBlockExists(ctx, unknown)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCheckBlockIndex(t *testing.T) {
	t.Run("contiguous chain passes", func(t *testing.T) {
		store := newTestStore(t)
		ctx := context.Background()

		prevHeader, _, err := store.GetBestBlockHeader(ctx)
		require.NoError(t, err)

		for height := uint32(1); height <= 3; height++ {
			block := newChildBlock(t, prevHeader, height)

			_, err = store.StoreBlock(ctx, block)
			require.NoError(t, err)

			prevHeader = block.Header
		}

		require.NoError(t, store.CheckBlockIndex(ctx))
	})

	t.Run("height gap fails", func(t *testing.T) {
		store := newTestStore(t)
		ctx := context.Background()

		bestHeader, _, err := store.GetBestBlockHeader(ctx)
		require.NoError(t, err)

		// height 2 with no block at height 1
		block := newChildBlock(t, bestHeader, 2)

		_, err = store.StoreBlock(ctx, block)
		require.NoError(t, err)

		require.Error(t, store.CheckBlockIndex(ctx))
	})

	t.Run("broken linkage fails", func(t *testing.T) {
		store := newTestStore(t)
		ctx := context.Background()

		// parent hash points at the mainnet genesis instead of the tip
		fakeParent := &model.BlockHeader{}
		*fakeParent = *mustGenesisHeader(t)
		fakeParent.Nonce++

		block := newChildBlock(t, fakeParent, 1)

		_, err := store.StoreBlock(ctx, block)
		require.NoError(t, err)

		require.Error(t, store.CheckBlockIndex(ctx))
	})
}

func mustGenesisHeader(t *testing.T) *model.BlockHeader {
	t.Helper()

	genesis, err := model.NewGenesisBlock(&chaincfg.RegressionNetParams)
	require.NoError(t, err)

	return genesis.Header
}
