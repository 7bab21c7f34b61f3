package model

import (
	"encoding/binary"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"go.uber.org/atomic"

	"github.com/bsv-blockchain/nanonode/errors"
)

const (
	// extranonceSize is the number of extranonce bytes appended to the
	// coinbase scriptSig between the two coinbase parts.
	extranonceSize = 12

	// maxCoinbaseScriptSigSize is the consensus limit on the coinbase
	// scriptSig length.
	maxCoinbaseScriptSigSize = 100
)

// extraNonceCounter distinguishes successive coinbases at the same height
// while keeping mined chains reproducible within a run.
var extraNonceCounter atomic.Uint64

// GetCoinbaseParts builds the two halves of a serialized coinbase
// transaction. The caller inserts an extranonce of extranonceSize bytes
// between part a and part b before decoding.
func GetCoinbaseParts(height uint32, coinbaseValue uint64, arbitraryText string, lockingScript *bscript.Script) ([]byte, []byte, error) {
	if lockingScript == nil {
		return nil, nil, errors.NewInvalidArgumentError("locking script is required")
	}

	heightBytes := serializeBlockHeight(height)
	arbitrary := []byte(arbitraryText)

	scriptSigLen := len(heightBytes) + len(arbitrary) + extranonceSize
	if scriptSigLen > maxCoinbaseScriptSigSize {
		return nil, nil, errors.NewProcessingError("coinbase scriptSig too long: %d", scriptSigLen)
	}

	a := make([]byte, 0, 41+len(heightBytes)+len(arbitrary))
	a = append(a, 0x01, 0x00, 0x00, 0x00) // version
	a = append(a, 0x01)                   // input count
	a = append(a, make([]byte, 32)...)    // null previous txid
	a = append(a, 0xff, 0xff, 0xff, 0xff) // previous output index
	a = append(a, bt.VarInt(uint64(scriptSigLen)).Bytes()...)
	a = append(a, heightBytes...)
	a = append(a, arbitrary...)

	b := make([]byte, 0, 17+len(*lockingScript))
	b = append(b, 0xff, 0xff, 0xff, 0xff) // sequence
	b = append(b, 0x01)                   // output count
	b = binary.LittleEndian.AppendUint64(b, coinbaseValue)
	b = append(b, bt.VarInt(uint64(len(*lockingScript))).Bytes()...)
	b = append(b, *lockingScript...)
	b = append(b, 0x00, 0x00, 0x00, 0x00) // locktime

	return a, b, nil
}

// CreateCoinbase builds a complete coinbase transaction paying coinbaseValue
// to lockingScript, with the block height serialized at the start of the
// scriptSig and an incrementing extranonce at the end.
func CreateCoinbase(height uint32, coinbaseValue uint64, arbitraryText string, lockingScript *bscript.Script) (*bt.Tx, error) {
	a, b, err := GetCoinbaseParts(height, coinbaseValue, arbitraryText, lockingScript)
	if err != nil {
		return nil, err
	}

	extranonce := make([]byte, extranonceSize)
	binary.LittleEndian.PutUint64(extranonce, extraNonceCounter.Inc())

	raw := make([]byte, 0, len(a)+extranonceSize+len(b))
	raw = append(raw, a...)
	raw = append(raw, extranonce...)
	raw = append(raw, b...)

	coinbaseTx, err := bt.NewTxFromBytes(raw)
	if err != nil {
		return nil, errors.NewProcessingError("error decoding coinbase transaction", err)
	}

	return coinbaseTx, nil
}

// serializeBlockHeight encodes the height as a minimal script number push,
// the form BIP34 expects at the start of the coinbase scriptSig.
func serializeBlockHeight(height uint32) []byte {
	if height == 0 {
		return []byte{bscript.Op0}
	}

	var num []byte
	for n := uint64(height); n > 0; n >>= 8 {
		num = append(num, byte(n&0xff))
	}

	// keep the number positive
	if num[len(num)-1]&0x80 != 0 {
		num = append(num, 0x00)
	}

	return append([]byte{byte(len(num))}, num...)
}
