package util

import (
	"github.com/bsv-blockchain/go-chaincfg"
)

// baseSubsidy is the coinbase reward before any halvings, in satoshis.
const baseSubsidy = uint64(50 * 100_000_000)

// GetBlockSubsidyForHeight returns the coinbase subsidy at the given height,
// halving every params.SubsidyReductionInterval blocks.
func GetBlockSubsidyForHeight(height uint32, params *chaincfg.Params) uint64 {
	if params == nil || params.SubsidyReductionInterval <= 0 {
		return baseSubsidy
	}

	halvings := height / uint32(params.SubsidyReductionInterval)
	if halvings >= 64 {
		return 0
	}

	return baseSubsidy >> halvings
}
