package sql

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/ordishs/gocore"

	"github.com/bsv-blockchain/nanonode/errors"
)

// CheckBlockIndex walks the whole index and verifies it forms a single
// contiguous chain: exactly one block per height and every block linked to
// its parent by hash.
func (s *SQL) CheckBlockIndex(ctx context.Context) error {
	start := gocore.CurrentTime()
	defer func() {
		gocore.NewStat("blockchain").NewStat("CheckBlockIndex").AddTime(start)
	}()

	q := `
		SELECT
	     b.hash
		,b.previous_hash
		,b.height
		FROM blocks b
		ORDER BY b.height ASC, b.id ASC
	`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return errors.NewStorageError("failed to read block index", err)
	}
	defer rows.Close()

	var (
		prevHash   *chainhash.Hash
		nextHeight uint32
		rowCount   int
	)

	for rows.Next() {
		var (
			hashBytes     []byte
			prevHashBytes []byte
			height        uint32
		)

		if err = rows.Scan(&hashBytes, &prevHashBytes, &height); err != nil {
			return errors.NewStorageError("failed to scan block index row", err)
		}

		hash, err := chainhash.NewHash(hashBytes)
		if err != nil {
			return errors.NewProcessingError("invalid block hash in index", err)
		}

		if height != nextHeight {
			return errors.NewBlockInvalidError("block index is not contiguous: expected height %d, got %d for block %s", nextHeight, height, hash)
		}

		if prevHash != nil {
			parent, err := chainhash.NewHash(prevHashBytes)
			if err != nil {
				return errors.NewProcessingError("invalid previous hash in index", err)
			}

			if !parent.IsEqual(prevHash) {
				return errors.NewBlockInvalidError("block %s at height %d does not link to %s", hash, height, prevHash)
			}
		}

		prevHash = hash
		nextHeight = height + 1
		rowCount++
	}

	if err = rows.Err(); err != nil {
		return errors.NewStorageError("failed to iterate block index", err)
	}

	if rowCount == 0 {
		return errors.NewBlockNotFoundError("block index is empty")
	}

	return nil
}
