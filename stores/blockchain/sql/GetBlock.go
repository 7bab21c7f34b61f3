package sql

import (
	"context"
	"database/sql"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/ordishs/gocore"

	"github.com/bsv-blockchain/nanonode/errors"
	"github.com/bsv-blockchain/nanonode/model"
)

func (s *SQL) GetBlock(ctx context.Context, blockHash *chainhash.Hash) (*model.Block, error) {
	start := gocore.CurrentTime()
	defer func() {
		gocore.NewStat("blockchain").NewStat("GetBlock").AddTime(start)
	}()

	q := `
		SELECT
	     b.height
		,b.block_data
		FROM blocks b
		WHERE b.hash = $1
	`

	var height uint32

	var blockBytes []byte

	if err := s.db.QueryRowContext(ctx, q, blockHash[:]).Scan(
		&height,
		&blockBytes,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewBlockNotFoundError("block %s not found", blockHash)
		}

		return nil, errors.NewStorageError("failed to get block %s", blockHash, err)
	}

	block, err := model.NewBlockFromBytes(blockBytes)
	if err != nil {
		return nil, err
	}

	block.Height = height

	return block, nil
}
