package model

import (
	"bytes"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/go-chaincfg"
	subtreepkg "github.com/bsv-blockchain/go-subtree"
	"github.com/bsv-blockchain/go-wire"

	"github.com/bsv-blockchain/nanonode/errors"
)

// serializedHeightVersion is the block version from which the coinbase must
// carry the serialized block height (BIP34).
const serializedHeightVersion = 2

// Block is a full block: header plus every transaction, coinbase first.
type Block struct {
	Header           *BlockHeader
	Transactions     []*bt.Tx
	Height           uint32
	TransactionCount uint64
	SizeInBytes      uint64

	// local
	hash *chainhash.Hash
}

func NewBlock(header *BlockHeader, transactions []*bt.Tx, height uint32) (*Block, error) {
	if header == nil {
		return nil, errors.NewInvalidArgumentError("block header is required")
	}

	if len(transactions) == 0 {
		return nil, errors.NewBlockInvalidError("block must contain a coinbase transaction")
	}

	size := uint64(BlockHeaderSize) + uint64(len(bt.VarInt(uint64(len(transactions))).Bytes()))
	for _, tx := range transactions {
		size += uint64(tx.Size())
	}

	return &Block{
		Header:           header,
		Transactions:     transactions,
		Height:           height,
		TransactionCount: uint64(len(transactions)),
		SizeInBytes:      size,
	}, nil
}

func NewBlockFromBytes(blockBytes []byte) (*Block, error) {
	if len(blockBytes) <= BlockHeaderSize {
		return nil, errors.NewInvalidArgumentError("block bytes too short: %d", len(blockBytes))
	}

	header, err := NewBlockHeaderFromBytes(blockBytes[:BlockHeaderSize])
	if err != nil {
		return nil, err
	}

	buf := bytes.NewReader(blockBytes[BlockHeaderSize:])

	txCount, err := wire.ReadVarInt(buf, 0)
	if err != nil {
		return nil, errors.NewProcessingError("error reading transaction count", err)
	}

	transactions := make([]*bt.Tx, 0, txCount)

	for i := uint64(0); i < txCount; i++ {
		tx := bt.NewTx()
		if _, err = tx.ReadFrom(buf); err != nil {
			return nil, errors.NewProcessingError("error reading transaction %d", i, err)
		}

		transactions = append(transactions, tx)
	}

	block, err := NewBlock(header, transactions, 0)
	if err != nil {
		return nil, err
	}

	// height is not part of the wire format, recover it from the coinbase
	// where BIP34 guarantees it is present
	if header.Version >= serializedHeightVersion {
		if height, err := block.ExtractCoinbaseHeight(); err == nil {
			block.Height = height
		}
	}

	return block, nil
}

// NewGenesisBlock materializes the genesis block for the given chain
// parameters.
func NewGenesisBlock(params *chaincfg.Params) (*Block, error) {
	var buf bytes.Buffer
	if err := params.GenesisBlock.Serialize(&buf); err != nil {
		return nil, errors.NewProcessingError("error serializing genesis block", err)
	}

	return NewBlockFromBytes(buf.Bytes())
}

func (b *Block) Hash() *chainhash.Hash {
	if b.hash != nil {
		return b.hash
	}

	b.hash = b.Header.Hash()

	return b.hash
}

func (b *Block) String() string {
	return b.Hash().String()
}

// CoinbaseTx returns the first transaction of the block.
func (b *Block) CoinbaseTx() *bt.Tx {
	if len(b.Transactions) == 0 {
		return nil
	}

	return b.Transactions[0]
}

func (b *Block) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, b.SizeInBytes))

	buf.Write(b.Header.Bytes())

	if err := wire.WriteVarInt(buf, 0, uint64(len(b.Transactions))); err != nil {
		return nil, errors.NewProcessingError("error writing transaction count", err)
	}

	for _, tx := range b.Transactions {
		buf.Write(tx.Bytes())
	}

	return buf.Bytes(), nil
}

// CalculateMerkleRoot computes the merkle root over all transaction IDs.
func (b *Block) CalculateMerkleRoot() (*chainhash.Hash, error) {
	if len(b.Transactions) == 0 {
		return nil, errors.NewBlockInvalidError("block has no transactions")
	}

	hashes := make([]*chainhash.Hash, len(b.Transactions))
	for i, tx := range b.Transactions {
		hashes[i] = tx.TxIDChainHash()
	}

	return CalculateMerkleRootFromHashes(hashes)
}

func (b *Block) CheckMerkleRoot() error {
	calculatedMerkleRootHash, err := b.CalculateMerkleRoot()
	if err != nil {
		return err
	}

	if !b.Header.HashMerkleRoot.IsEqual(calculatedMerkleRootHash) {
		return errors.NewBlockInvalidError("merkle root does not match")
	}

	return nil
}

// CalculateMerkleRootFromHashes computes the merkle root of the given
// transaction IDs. A single hash is its own root.
func CalculateMerkleRootFromHashes(hashes []*chainhash.Hash) (*chainhash.Hash, error) {
	if len(hashes) == 0 {
		return nil, errors.NewInvalidArgumentError("no hashes to build a merkle tree from")
	}

	if len(hashes) == 1 {
		return hashes[0], nil
	}

	st, err := subtreepkg.NewIncompleteTreeByLeafCount(len(hashes))
	if err != nil {
		return nil, errors.NewProcessingError("error creating merkle tree", err)
	}

	for _, hash := range hashes {
		if err = st.AddNode(*hash, 1, 0); err != nil {
			return nil, errors.NewProcessingError("error adding node to merkle tree", err)
		}
	}

	calculatedMerkleRoot := st.RootHash()

	calculatedMerkleRootHash, err := chainhash.NewHash(calculatedMerkleRoot[:])
	if err != nil {
		return nil, err
	}

	return calculatedMerkleRootHash, nil
}

// ExtractCoinbaseHeight attempts to extract the height of the block from the
// scriptSig of the coinbase transaction. Heights are only present in blocks
// of version 2 or later (BIP34).
func (b *Block) ExtractCoinbaseHeight() (uint32, error) {
	coinbase := b.CoinbaseTx()
	if coinbase == nil {
		return 0, errors.NewBlockInvalidError("block has no coinbase transaction")
	}

	if len(coinbase.Inputs) != 1 {
		return 0, errors.NewBlockInvalidError("coinbase transaction must have exactly one input")
	}

	sigScript := *coinbase.Inputs[0].UnlockingScript
	if len(sigScript) < 1 {
		return 0, errors.NewBlockInvalidError("coinbase signature script for blocks of version %d or greater must start with the length of the serialized block height", serializedHeightVersion)
	}

	// small integer heights are encoded as a single opcode
	opcode := sigScript[0]
	if opcode == bscript.Op0 {
		return 0, nil
	}

	if opcode >= bscript.Op1 && opcode <= bscript.Op16 {
		return uint32(opcode - (bscript.Op1 - 1)), nil
	}

	// otherwise the opcode is the length of the little-endian serialized
	// height that follows
	serializedLen := int(sigScript[0])
	if serializedLen > 8 || len(sigScript[1:]) < serializedLen {
		return 0, errors.NewBlockInvalidError("coinbase signature script for blocks of version %d or greater must start with the serialized block height", serializedHeightVersion)
	}

	var serializedHeight uint64
	for i := serializedLen - 1; i >= 0; i-- {
		serializedHeight = serializedHeight<<8 | uint64(sigScript[1+i])
	}

	return uint32(serializedHeight), nil
}
