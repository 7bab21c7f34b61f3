package model

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/ordishs/go-utils"
)

// MiningCandidate is a block template handed to a miner. TxHashes carries the
// IDs of the non-coinbase transactions in block order; the coinbase is built
// by the miner.
type MiningCandidate struct {
	Id                  []byte
	PreviousHash        []byte
	CoinbaseValue       uint64
	Version             uint32
	NBits               []byte
	Time                uint32
	Height              uint32
	NumTxs              uint32
	SizeWithoutCoinbase uint64
	TxHashes            []*chainhash.Hash
}

// MiningSolution is the result of a successful nonce search for a candidate.
type MiningSolution struct {
	Id        []byte
	Nonce     uint32
	Time      *uint32
	Coinbase  []byte
	Version   *uint32
	BlockHash []byte
}

// CalculateMerkleRoot computes the merkle root the candidate's block will
// carry once the given coinbase transaction ID fills the first slot.
func (mc *MiningCandidate) CalculateMerkleRoot(coinbaseTxID *chainhash.Hash) (*chainhash.Hash, error) {
	hashes := make([]*chainhash.Hash, 0, len(mc.TxHashes)+1)
	hashes = append(hashes, coinbaseTxID)
	hashes = append(hashes, mc.TxHashes...)

	return CalculateMerkleRootFromHashes(hashes)
}

func (mc *MiningCandidate) Stringify() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Mining Candidate (%d transactions)\n\t", mc.NumTxs))

	sb.WriteString(hex.EncodeToString(mc.Id))
	sb.WriteString("\n\t")

	sb.WriteString(utils.ReverseAndHexEncodeSlice(mc.PreviousHash))
	sb.WriteString("\n\t")

	sb.WriteString(fmt.Sprintf("Coinbase value: %d\n\t", mc.CoinbaseValue))
	sb.WriteString(fmt.Sprintf("Version:        %d\n\t", mc.Version))

	sb.WriteString(hex.EncodeToString(mc.NBits))
	sb.WriteString("\n\t")

	sb.WriteString(fmt.Sprintf("Time:           %d\n\t", mc.Time))
	sb.WriteString(fmt.Sprintf("Height:         %d\n", mc.Height))

	return sb.String()
}
