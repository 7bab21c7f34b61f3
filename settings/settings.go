package settings

import (
	"time"

	"github.com/bsv-blockchain/go-chaincfg"

	"github.com/bsv-blockchain/nanonode/errors"
)

// NewSettings reads gocore config and applies sensible defaults.
func NewSettings() *Settings {
	network := getString("network", "mainnet")

	params, err := GetChainParams(network)
	if err != nil {
		panic(err)
	}

	return &Settings{
		ClientName:     getString("clientName", "nanonode"),
		DataFolder:     getString("dataFolder", "data"),
		Network:        network,
		LogLevel:       getString("logLevel", "INFO"),
		ChainCfgParams: params,
		Policy: &PolicySettings{
			ExcessiveBlockSize: getInt("excessiveblocksize", 4294967296), // 4GB
			BlockMaxSize:       getInt("blockmaxsize", 0),                // 0 - unlimited
			MaxTxSizePolicy:    getInt("maxtxsizepolicy", 10485760),      // 10MB
		},
		BlockChain: BlockChainSettings{
			StoreURL:              getURL("blockchain_store", "sqlitememory:///blockchain"),
			CheckBlockIndexStrict: getBool("blockchain_checkBlockIndexStrict", false),
		},
		BlockAssembly: BlockAssemblySettings{
			ArbitraryText: getString("coinbase_arbitrary_text", "/NANONODE/"),
		},
		BlockValidation: BlockValidationSettings{
			ScriptVerificationWorkers: getInt("blockvalidation_scriptVerificationWorkers", 3),
		},
		UtxoStore: UtxoStoreSettings{
			CacheEnabled:         getBool("utxostore_cacheEnabled", true),
			CacheTTL:             time.Duration(getInt("utxostore_cacheTTLMinutes", 10)) * time.Minute,
			DBTimeout:            time.Duration(getInt("utxostore_dbTimeoutSeconds", 5)) * time.Second,
			PostgresMaxIdleConns: getInt("utxostore_postgresMaxIdleConns", 10),
			PostgresMaxOpenConns: getInt("utxostore_postgresMaxOpenConns", 80),
		},
		Mempool: MempoolSettings{
			CheckFrequency: 0, // disabled unless a fixture turns it on
		},
		Mining: MiningSettings{
			MaxIterations: uint64(getInt("mining_maxIterations", 0)),
		},
	}
}

// GetChainParams activates the parameter set for the named network profile.
func GetChainParams(network string) (*chaincfg.Params, error) {
	switch network {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet":
		return &chaincfg.TestNetParams, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, errors.NewConfigurationError("unknown network %s", network)
	}
}
