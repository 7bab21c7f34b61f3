package sql

import (
	"context"

	"github.com/ordishs/gocore"

	"github.com/bsv-blockchain/nanonode/errors"
	"github.com/bsv-blockchain/nanonode/model"
)

func (s *SQL) StoreBlock(ctx context.Context, block *model.Block) (uint64, error) {
	start := gocore.CurrentTime()
	defer func() {
		gocore.NewStat("blockchain").NewStat("StoreBlock").AddTime(start)
	}()

	exists, err := s.GetBlockExists(ctx, block.Hash())
	if err != nil {
		return 0, err
	}

	if exists {
		return 0, errors.NewBlockExistsError("block %s already exists", block.Hash())
	}

	blockBytes, err := block.Bytes()
	if err != nil {
		return 0, err
	}

	q := `
		INSERT INTO blocks (
		 version
		,hash
		,previous_hash
		,merkle_root
		,block_time
		,n_bits
		,nonce
		,height
		,tx_count
		,size_in_bytes
		,block_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id uint64

	if err = s.db.QueryRowContext(ctx, q,
		block.Header.Version,
		block.Hash()[:],
		block.Header.HashPrevBlock[:],
		block.Header.HashMerkleRoot[:],
		block.Header.Timestamp,
		block.Header.Bits[:],
		block.Header.Nonce,
		block.Height,
		block.TransactionCount,
		block.SizeInBytes,
		blockBytes,
	).Scan(&id); err != nil {
		return 0, errors.NewStorageError("failed to store block %s", block.Hash(), err)
	}

	return id, nil
}

func (s *SQL) storeBlock(block *model.Block) (uint64, error) {
	return s.StoreBlock(context.Background(), block)
}
