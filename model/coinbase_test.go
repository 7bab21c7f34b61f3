package model

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCoinbase(t *testing.T) {
	lockingScript, err := bscript.NewFromHexString(testLockingScriptHex)
	require.NoError(t, err)

	coinbaseTx, err := CreateCoinbase(100, 5_000_000_000, "/nanonode/", lockingScript)
	require.NoError(t, err)

	assert.True(t, coinbaseTx.IsCoinbase())
	assert.Equal(t, uint64(5_000_000_000), coinbaseTx.TotalOutputSatoshis())

	require.Len(t, coinbaseTx.Outputs, 1)
	assert.Equal(t, lockingScript, coinbaseTx.Outputs[0].LockingScript)

	// the arbitrary text sits in the scriptSig between height and extranonce
	sigScript := *coinbaseTx.Inputs[0].UnlockingScript
	assert.Contains(t, string(sigScript), "/nanonode/")
}

func TestCreateCoinbaseExtranonceVaries(t *testing.T) {
	lockingScript, err := bscript.NewFromHexString(testLockingScriptHex)
	require.NoError(t, err)

	tx1, err := CreateCoinbase(1, 5_000_000_000, "/nanonode/", lockingScript)
	require.NoError(t, err)

	tx2, err := CreateCoinbase(1, 5_000_000_000, "/nanonode/", lockingScript)
	require.NoError(t, err)

	assert.NotEqual(t, tx1.TxID(), tx2.TxID())
}

func TestCreateCoinbaseExtranonceIncrements(t *testing.T) {
	lockingScript, err := bscript.NewFromHexString(testLockingScriptHex)
	require.NoError(t, err)

	tx1, err := CreateCoinbase(1, 5_000_000_000, "/nanonode/", lockingScript)
	require.NoError(t, err)

	tx2, err := CreateCoinbase(1, 5_000_000_000, "/nanonode/", lockingScript)
	require.NoError(t, err)

	// the extranonce fills the tail of the scriptSig
	sig1 := *tx1.Inputs[0].UnlockingScript
	sig2 := *tx2.Inputs[0].UnlockingScript

	n1 := binary.LittleEndian.Uint64(sig1[len(sig1)-extranonceSize:])
	n2 := binary.LittleEndian.Uint64(sig2[len(sig2)-extranonceSize:])

	assert.Equal(t, n1+1, n2)
}

func TestGetCoinbaseParts(t *testing.T) {
	lockingScript, err := bscript.NewFromHexString(testLockingScriptHex)
	require.NoError(t, err)

	t.Run("missing locking script", func(t *testing.T) {
		_, _, err := GetCoinbaseParts(1, 5_000_000_000, "", nil)
		require.Error(t, err)
	})

	t.Run("scriptSig too long", func(t *testing.T) {
		_, _, err := GetCoinbaseParts(1, 5_000_000_000, strings.Repeat("x", 101), lockingScript)
		require.Error(t, err)
	})
}

func TestSerializeBlockHeight(t *testing.T) {
	assert.Equal(t, []byte{bscript.Op0}, serializeBlockHeight(0))
	assert.Equal(t, []byte{0x01, 0x01}, serializeBlockHeight(1))
	assert.Equal(t, []byte{0x02, 0x00, 0x01}, serializeBlockHeight(256))

	// the sign bit forces a padding byte
	assert.Equal(t, []byte{0x02, 0x80, 0x00}, serializeBlockHeight(128))
}
