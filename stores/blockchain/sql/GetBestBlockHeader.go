package sql

import (
	"context"
	"database/sql"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/ordishs/gocore"

	"github.com/bsv-blockchain/nanonode/errors"
	"github.com/bsv-blockchain/nanonode/model"
)

func (s *SQL) GetBestBlockHeader(ctx context.Context) (*model.BlockHeader, uint32, error) {
	start := gocore.CurrentTime()
	defer func() {
		gocore.NewStat("blockchain").NewStat("GetBestBlockHeader").AddTime(start)
	}()

	q := `
		SELECT
	     b.version
		,b.block_time
	    ,b.nonce
		,b.previous_hash
		,b.merkle_root
		,b.n_bits
		,b.height
		FROM blocks b
		ORDER BY height DESC, id ASC
		LIMIT 1
	`

	blockHeader := &model.BlockHeader{}

	var (
		hashPrevBlock  []byte
		hashMerkleRoot []byte
		nBits          []byte
		height         uint32
	)

	var err error
	if err = s.db.QueryRowContext(ctx, q).Scan(
		&blockHeader.Version,
		&blockHeader.Timestamp,
		&blockHeader.Nonce,
		&hashPrevBlock,
		&hashMerkleRoot,
		&nBits,
		&height,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, errors.NewBlockNotFoundError("no blocks in store")
		}

		return nil, 0, errors.NewStorageError("failed to get best block header", err)
	}

	bits, err := model.NewNBitFromSlice(nBits)
	if err != nil {
		return nil, 0, err
	}

	blockHeader.Bits = *bits

	blockHeader.HashPrevBlock, err = chainhash.NewHash(hashPrevBlock)
	if err != nil {
		return nil, 0, errors.NewProcessingError("failed to convert hashPrevBlock", err)
	}

	blockHeader.HashMerkleRoot, err = chainhash.NewHash(hashMerkleRoot)
	if err != nil {
		return nil, 0, errors.NewProcessingError("failed to convert hashMerkleRoot", err)
	}

	return blockHeader, height, nil
}
