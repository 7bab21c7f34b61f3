package model

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"

	"github.com/bsv-blockchain/nanonode/errors"
)

// NBit is the compact difficulty encoding from a block header, stored in
// little-endian wire order.
type NBit [4]byte

// NewNBitFromSlice creates an NBit from a 4-byte little-endian slice.
func NewNBitFromSlice(b []byte) (*NBit, error) {
	if len(b) != 4 {
		return nil, errors.NewInvalidArgumentError("nBit must be 4 bytes, got %d", len(b))
	}

	var n NBit

	copy(n[:], b)

	return &n, nil
}

// NewNBitFromString parses the big-endian hex form, e.g. "207fffff".
func NewNBitFromString(s string) (*NBit, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("invalid nBit hex %q", s, err)
	}

	if len(b) != 4 {
		return nil, errors.NewInvalidArgumentError("nBit must be 4 bytes, got %d", len(b))
	}

	var n NBit
	for i := 0; i < 4; i++ {
		n[i] = b[3-i]
	}

	return &n, nil
}

func (n NBit) String() string {
	rev := [4]byte{n[3], n[2], n[1], n[0]}

	return hex.EncodeToString(rev[:])
}

// Compact returns the uint32 compact form as it appears in consensus code.
func (n NBit) Compact() uint32 {
	return binary.LittleEndian.Uint32(n[:])
}

// CalculateTarget expands the compact encoding into the full 256-bit target.
func (n NBit) CalculateTarget() *big.Int {
	compact := n.Compact()
	mantissa := compact & 0x007fffff
	exponent := uint(compact >> 24)

	var target *big.Int
	if exponent <= 3 {
		target = big.NewInt(int64(mantissa >> (8 * (3 - exponent))))
	} else {
		target = new(big.Int).SetUint64(uint64(mantissa))
		target.Lsh(target, 8*(exponent-3))
	}

	if compact&0x00800000 != 0 {
		target.Neg(target)
	}

	return target
}

// CalculateDifficulty returns the difficulty of this target relative to the
// maximum target 0x1d00ffff.
func (n NBit) CalculateDifficulty() *big.Float {
	maxBits := NBit{0xff, 0xff, 0x00, 0x1d}
	maxTarget := new(big.Float).SetInt(maxBits.CalculateTarget())
	target := new(big.Float).SetInt(n.CalculateTarget())

	return new(big.Float).Quo(maxTarget, target)
}
