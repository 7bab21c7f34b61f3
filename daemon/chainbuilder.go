package daemon

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/bsv-blockchain/go-bt/v2/unlocker"
	bec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/bsv-blockchain/nanonode/errors"
)

// SyntheticChainBuilder extends a chain fixture with freshly mined blocks,
// all paying a key it generates. The recorded coinbases can be spent in
// later tests once they mature.
type SyntheticChainBuilder struct {
	chain        *ChainStateFixture
	privKey      *bec.PrivateKey
	payoutScript *bscript.Script
	coinbaseTxs  []*bt.Tx
}

// NewSyntheticChainBuilder generates a fresh key pair and the P2PKH script
// all mined coinbases will pay.
func NewSyntheticChainBuilder(chain *ChainStateFixture) (*SyntheticChainBuilder, error) {
	privKey, err := bec.NewPrivateKey()
	if err != nil {
		return nil, errors.NewProcessingError("failed to generate coinbase key", err)
	}

	payoutScript, err := bscript.NewP2PKHFromPubKeyBytes(privKey.PubKey().Compressed())
	if err != nil {
		return nil, errors.NewProcessingError("failed to build payout script", err)
	}

	return &SyntheticChainBuilder{
		chain:        chain,
		privKey:      privKey,
		payoutScript: payoutScript,
	}, nil
}

// BuildChain mines length empty blocks on top of the current tip and returns
// their coinbase transactions in order.
func (b *SyntheticChainBuilder) BuildChain(ctx context.Context, length int) ([]*bt.Tx, error) {
	coinbases := make([]*bt.Tx, 0, length)

	for i := 0; i < length; i++ {
		block, err := b.chain.CreateAndProcessBlock(ctx, nil, b.payoutScript)
		if err != nil {
			return nil, err
		}

		coinbases = append(coinbases, block.CoinbaseTx())
	}

	b.coinbaseTxs = append(b.coinbaseTxs, coinbases...)

	return coinbases, nil
}

// BuildMaturedChain mines exactly one coinbase maturity interval worth of
// blocks, so the first coinbase is spendable in the next block.
func (b *SyntheticChainBuilder) BuildMaturedChain(ctx context.Context) ([]*bt.Tx, error) {
	return b.BuildChain(ctx, int(b.chain.settings.ChainCfgParams.CoinbaseMaturity))
}

// CoinbaseTxs returns the coinbases of every block this builder has mined.
func (b *SyntheticChainBuilder) CoinbaseTxs() []*bt.Tx {
	return b.coinbaseTxs
}

func (b *SyntheticChainBuilder) PrivateKey() *bec.PrivateKey {
	return b.privKey
}

func (b *SyntheticChainBuilder) PayoutScript() *bscript.Script {
	return b.payoutScript
}

// CreateTransaction spends one output of parentTx back to the builder's own
// key, leaving fee satoshis on the table. The parent output must pay the
// builder's script.
func (b *SyntheticChainBuilder) CreateTransaction(ctx context.Context, parentTx *bt.Tx, vout uint32, fee uint64) (*bt.Tx, error) {
	if int(vout) >= len(parentTx.Outputs) {
		return nil, errors.NewInvalidArgumentError("parent tx %s has no output %d", parentTx.TxID(), vout)
	}

	parentOutput := parentTx.Outputs[vout]
	if parentOutput.Satoshis <= fee {
		return nil, errors.NewInvalidArgumentError("parent output value %d does not cover the fee %d", parentOutput.Satoshis, fee)
	}

	tx := bt.NewTx()

	if err := tx.FromUTXOs(&bt.UTXO{
		TxIDHash:      parentTx.TxIDChainHash(),
		Vout:          vout,
		LockingScript: parentOutput.LockingScript,
		Satoshis:      parentOutput.Satoshis,
	}); err != nil {
		return nil, errors.NewTxInvalidError("failed to add input", err)
	}

	if err := tx.AddP2PKHOutputFromPubKeyBytes(b.privKey.PubKey().Compressed(), parentOutput.Satoshis-fee); err != nil {
		return nil, errors.NewTxInvalidError("failed to add output", err)
	}

	if err := tx.FillAllInputs(ctx, &unlocker.Getter{PrivateKey: b.privKey}); err != nil {
		return nil, errors.NewTxInvalidError("failed to sign inputs", err)
	}

	return tx, nil
}
