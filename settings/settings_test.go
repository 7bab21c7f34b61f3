package settings

import (
	"testing"

	"github.com/bsv-blockchain/go-chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetChainParams(t *testing.T) {
	tests := []struct {
		network string
		want    *chaincfg.Params
	}{
		{"mainnet", &chaincfg.MainNetParams},
		{"testnet", &chaincfg.TestNetParams},
		{"regtest", &chaincfg.RegressionNetParams},
	}

	for _, tt := range tests {
		t.Run(tt.network, func(t *testing.T) {
			params, err := GetChainParams(tt.network)
			require.NoError(t, err)
			assert.Equal(t, tt.want, params)
		})
	}

	t.Run("unknown network", func(t *testing.T) {
		_, err := GetChainParams("simnet")
		require.Error(t, err)
	})
}

func TestNewSettingsDefaults(t *testing.T) {
	tSettings := NewSettings()

	assert.NotNil(t, tSettings.ChainCfgParams)
	assert.NotNil(t, tSettings.Policy)
	assert.NotNil(t, tSettings.BlockChain.StoreURL)
	assert.Equal(t, "sqlitememory", tSettings.BlockChain.StoreURL.Scheme)
	assert.Equal(t, 3, tSettings.BlockValidation.ScriptVerificationWorkers)
	assert.Equal(t, uint32(0), tSettings.Mempool.CheckFrequency)
}
