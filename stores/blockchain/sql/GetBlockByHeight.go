package sql

import (
	"context"
	"database/sql"

	"github.com/ordishs/gocore"

	"github.com/bsv-blockchain/nanonode/errors"
	"github.com/bsv-blockchain/nanonode/model"
)

func (s *SQL) GetBlockByHeight(ctx context.Context, height uint32) (*model.Block, error) {
	start := gocore.CurrentTime()
	defer func() {
		gocore.NewStat("blockchain").NewStat("GetBlockByHeight").AddTime(start)
	}()

	q := `
		SELECT
	     b.block_data
		FROM blocks b
		WHERE b.height = $1
		ORDER BY b.id ASC
		LIMIT 1
	`

	var blockBytes []byte

	if err := s.db.QueryRowContext(ctx, q, height).Scan(
		&blockBytes,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewBlockNotFoundError("block at height %d not found", height)
		}

		return nil, errors.NewStorageError("failed to get block at height %d", height, err)
	}

	block, err := model.NewBlockFromBytes(blockBytes)
	if err != nil {
		return nil, err
	}

	block.Height = height

	return block, nil
}
