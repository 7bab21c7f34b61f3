package model

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNBitFromString(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		nBits, err := NewNBitFromString("207fffff")
		require.NoError(t, err)

		assert.Equal(t, "207fffff", nBits.String())
		assert.Equal(t, uint32(0x207fffff), nBits.Compact())
	})

	t.Run("invalid hex", func(t *testing.T) {
		_, err := NewNBitFromString("zzzzzzzz")
		require.Error(t, err)
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := NewNBitFromString("207fff")
		require.Error(t, err)
	})
}

func TestNewNBitFromSlice(t *testing.T) {
	nBits, err := NewNBitFromSlice([]byte{0xff, 0xff, 0x00, 0x1d})
	require.NoError(t, err)

	assert.Equal(t, "1d00ffff", nBits.String())

	_, err = NewNBitFromSlice([]byte{0xff, 0xff})
	require.Error(t, err)
}

func TestCalculateTarget(t *testing.T) {
	t.Run("difficulty one", func(t *testing.T) {
		nBits, err := NewNBitFromString("1d00ffff")
		require.NoError(t, err)

		expected := new(big.Int).Lsh(big.NewInt(0xffff), 8*(0x1d-3))
		assert.Equal(t, 0, expected.Cmp(nBits.CalculateTarget()))
	})

	t.Run("regression target", func(t *testing.T) {
		nBits, err := NewNBitFromString("207fffff")
		require.NoError(t, err)

		expected := new(big.Int).Lsh(big.NewInt(0x7fffff), 8*(0x20-3))
		assert.Equal(t, 0, expected.Cmp(nBits.CalculateTarget()))
	})
}

func TestCalculateDifficulty(t *testing.T) {
	nBits, err := NewNBitFromString("1d00ffff")
	require.NoError(t, err)

	difficulty := nBits.CalculateDifficulty()
	assert.Equal(t, 0, difficulty.Cmp(big.NewFloat(1)))
}
