package daemon

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/bscript"

	"github.com/bsv-blockchain/nanonode/errors"
	"github.com/bsv-blockchain/nanonode/mining"
	"github.com/bsv-blockchain/nanonode/model"
)

// CreateAndProcessBlock builds a template on the current tip, replaces its
// body with exactly the given transactions behind a fresh coinbase paying
// payoutScript, mines it and runs it through full validation. The accepted
// block is returned.
//
// A missing template means the chain state is unusable and aborts the run.
func (f *ChainStateFixture) CreateAndProcessBlock(ctx context.Context, txs []*bt.Tx, payoutScript *bscript.Script) (*model.Block, error) {
	candidate, err := f.blockAssembler.GetMiningCandidate(ctx)
	if err != nil || candidate == nil {
		f.logger.Fatalf("no mining candidate available: %v", err)
		// only reachable with a non-exiting test logger
		return nil, errors.NewServiceError("no mining candidate available", err)
	}

	if err = f.blockAssembler.OverrideCandidateTransactions(candidate.Id, txs); err != nil {
		return nil, err
	}

	solution, err := mining.Mine(ctx, f.settings, candidate, payoutScript)
	if err != nil {
		return nil, err
	}

	block, err := f.blockAssembler.SubmitMiningSolution(ctx, solution)
	if err != nil {
		return nil, err
	}

	if err = f.blockValidation.ValidateBlock(ctx, block); err != nil {
		return nil, err
	}

	return block, nil
}
