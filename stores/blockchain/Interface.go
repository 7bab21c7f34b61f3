// Package blockchain defines the block index store used by the node.
package blockchain

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"

	"github.com/bsv-blockchain/nanonode/model"
)

// Store persists the block index and full block data.
type Store interface {
	// StoreBlock persists a block and returns its database ID.
	StoreBlock(ctx context.Context, block *model.Block) (uint64, error)

	// GetBlock returns the full block with the given hash.
	GetBlock(ctx context.Context, blockHash *chainhash.Hash) (*model.Block, error)

	// GetBlockByHeight returns the block at the given height on the main chain.
	GetBlockByHeight(ctx context.Context, height uint32) (*model.Block, error)

	// GetBlockExists reports whether a block with the given hash is stored.
	GetBlockExists(ctx context.Context, blockHash *chainhash.Hash) (bool, error)

	// GetBestBlockHeader returns the header and height of the chain tip.
	GetBestBlockHeader(ctx context.Context) (*model.BlockHeader, uint32, error)

	// CheckBlockIndex verifies that the stored index forms a single
	// contiguous chain from genesis to the tip.
	CheckBlockIndex(ctx context.Context) error

	Close() error
}
