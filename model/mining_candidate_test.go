package model

import (
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiningCandidateStringify(t *testing.T) {
	prevHash, err := chainhash.NewHashFromStr("0f9188f13cb7b2c71f2a335e3a4fc328bf5beb436012afca590b1a11466e2206")
	require.NoError(t, err)

	mc := &MiningCandidate{
		Id:            []byte{0xde, 0xad, 0xbe, 0xef},
		PreviousHash:  prevHash.CloneBytes(),
		CoinbaseValue: 5_000_000_000,
		Version:       2,
		NBits:         []byte{0xff, 0xff, 0x7f, 0x20},
		Time:          1234,
		Height:        42,
		NumTxs:        1,
	}

	s := mc.Stringify()

	assert.Contains(t, s, "deadbeef")

	// the previous hash prints in display order
	assert.Contains(t, s, "0f9188f13cb7b2c71f2a335e3a4fc328bf5beb436012afca590b1a11466e2206")

	assert.Contains(t, s, "Coinbase value: 5000000000")
	assert.Contains(t, s, "Height:         42")
}
