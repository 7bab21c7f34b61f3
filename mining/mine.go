// Package mining implements the nonce search over a mining candidate.
package mining

import (
	"context"
	"math"

	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"

	"github.com/bsv-blockchain/nanonode/errors"
	"github.com/bsv-blockchain/nanonode/model"
	"github.com/bsv-blockchain/nanonode/settings"
)

// Mine searches for a nonce that makes the candidate's header meet its
// difficulty target, paying the coinbase to lockingScript.
//
// The search is bounded: it stops with a threshold error once
// settings.Mining.MaxIterations nonces have been tried (the full nonce space
// when zero), and it stops early when ctx is canceled. A target that cannot
// be reached within the budget is reported as an error rather than searched
// forever.
func Mine(ctx context.Context, tSettings *settings.Settings, candidate *model.MiningCandidate, lockingScript *bscript.Script) (*model.MiningSolution, error) {
	coinbaseTx, err := model.CreateCoinbase(candidate.Height, candidate.CoinbaseValue, tSettings.BlockAssembly.ArbitraryText, lockingScript)
	if err != nil {
		return nil, err
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

	maxIterations := tSettings.Mining.MaxIterations
	if maxIterations == 0 {
		maxIterations = uint64(math.MaxUint32) + 1
	}

	nonce := uint32(0)

	for iterations := uint64(0); ; iterations++ {
		select {
		case <-ctx.Done():
			return nil, errors.NewContextCanceledError("mining canceled after %d iterations", iterations, ctx.Err())
		default:
		}

		if iterations >= maxIterations {
			return nil, errors.NewThresholdExceededError("no solution for nBits %s within %d iterations", nBits.String(), maxIterations)
		}

		blockHeader := model.BlockHeader{
			Version:        candidate.Version,
			HashPrevBlock:  previousHash,
			HashMerkleRoot: merkleRootHash,
			Timestamp:      candidate.Time,
			Bits:           *nBits,
			Nonce:          nonce,
		}

		headerValid, blockHash, err := blockHeader.HasMetTargetDifficulty()
		if err != nil {
			return nil, err
		}

		if headerValid {
			return &model.MiningSolution{
				Id:        candidate.Id,
				Nonce:     nonce,
				Time:      &candidate.Time,
				Coinbase:  coinbaseTx.Bytes(),
				Version:   &candidate.Version,
				BlockHash: blockHash.CloneBytes(),
			}, nil
		}

		if nonce == math.MaxUint32 {
			return nil, errors.NewThresholdExceededError("nonce space exhausted for nBits %s", nBits.String())
		}

		nonce++
	}
}
