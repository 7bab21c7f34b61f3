package util

import (
	"testing"

	"github.com/bsv-blockchain/go-chaincfg"
	"github.com/stretchr/testify/assert"
)

func TestGetBlockSubsidyForHeight(t *testing.T) {
	params := &chaincfg.MainNetParams

	assert.Equal(t, uint64(50e8), GetBlockSubsidyForHeight(0, params))
	assert.Equal(t, uint64(50e8), GetBlockSubsidyForHeight(209_999, params))
	assert.Equal(t, uint64(25e8), GetBlockSubsidyForHeight(210_000, params))
	assert.Equal(t, uint64(1_250_000_000), GetBlockSubsidyForHeight(420_000, params))

	// after 64 halvings the subsidy is gone
	assert.Equal(t, uint64(0), GetBlockSubsidyForHeight(64*210_000, params))
}

func TestGetBlockSubsidyForHeightRegtest(t *testing.T) {
	params := &chaincfg.RegressionNetParams

	assert.Equal(t, uint64(50e8), GetBlockSubsidyForHeight(1, params))
	assert.Equal(t, uint64(25e8), GetBlockSubsidyForHeight(150, params))
}
