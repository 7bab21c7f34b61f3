package model

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"

	"github.com/bsv-blockchain/nanonode/errors"
)

// BlockHeaderSize is the length of a serialized block header in bytes.
const BlockHeaderSize = 80

type BlockHeader struct {
	// Version of the block. This is not the same as the protocol version.
	Version uint32

	// Hash of the previous block header in the chain.
	HashPrevBlock *chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	HashMerkleRoot *chainhash.Hash

	// Time the block was created in unix time.
	Timestamp uint32

	// Difficulty target for the block.
	Bits NBit

	// Nonce used to generate the block.
	Nonce uint32
}

func NewBlockHeaderFromBytes(headerBytes []byte) (*BlockHeader, error) {
	if len(headerBytes) != BlockHeaderSize {
		return nil, errors.NewInvalidArgumentError("block header should be 80 bytes long, got %d", len(headerBytes))
	}

	hashPrevBlock, err := chainhash.NewHash(headerBytes[4:36])
	if err != nil {
		return nil, errors.NewProcessingError("error creating previous block hash from bytes", err)
	}

	hashMerkleRoot, err := chainhash.NewHash(headerBytes[36:68])
	if err != nil {
		return nil, errors.NewProcessingError("error creating merkle root hash from bytes", err)
	}

	bits, err := NewNBitFromSlice(headerBytes[72:76])
	if err != nil {
		return nil, err
	}

	return &BlockHeader{
		Version:        binary.LittleEndian.Uint32(headerBytes[:4]),
		HashPrevBlock:  hashPrevBlock,
		HashMerkleRoot: hashMerkleRoot,
		Timestamp:      binary.LittleEndian.Uint32(headerBytes[68:72]),
		Bits:           *bits,
		Nonce:          binary.LittleEndian.Uint32(headerBytes[76:]),
	}, nil
}

func NewBlockHeaderFromString(headerHex string) (*BlockHeader, error) {
	headerBytes, err := hex.DecodeString(headerHex)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("error decoding hex string to bytes", err)
	}

	return NewBlockHeaderFromBytes(headerBytes)
}

func (bh *BlockHeader) Hash() *chainhash.Hash {
	hash := chainhash.DoubleHashH(bh.Bytes())

	return &hash
}

func (bh *BlockHeader) String() string {
	return bh.Hash().String()
}

// HasMetTargetDifficulty reports whether the header hash is at or below the
// target encoded in Bits. The hash is returned so callers do not compute it
// twice.
func (bh *BlockHeader) HasMetTargetDifficulty() (bool, *chainhash.Hash, error) {
	hash := bh.Hash()

	target := bh.Bits.CalculateTarget()
	if target.Sign() <= 0 {
		return false, hash, errors.NewProcessingError("invalid target from nBits %s", bh.Bits.String())
	}

	hashInt := new(big.Int).SetBytes(bt.ReverseBytes(hash.CloneBytes()))

	return hashInt.Cmp(target) <= 0, hash, nil
}

func (bh *BlockHeader) Bytes() []byte {
	blockHeaderBytes := make([]byte, 0, BlockHeaderSize)
	blockHeaderBytes = binary.LittleEndian.AppendUint32(blockHeaderBytes, bh.Version)
	blockHeaderBytes = append(blockHeaderBytes, bh.HashPrevBlock.CloneBytes()...)
	blockHeaderBytes = append(blockHeaderBytes, bh.HashMerkleRoot.CloneBytes()...)
	blockHeaderBytes = binary.LittleEndian.AppendUint32(blockHeaderBytes, bh.Timestamp)
	blockHeaderBytes = append(blockHeaderBytes, bh.Bits[:]...)
	blockHeaderBytes = binary.LittleEndian.AppendUint32(blockHeaderBytes, bh.Nonce)

	return blockHeaderBytes
}
