package settings

import (
	"net/url"
	"time"

	"github.com/bsv-blockchain/go-chaincfg"
)

type PolicySettings struct {
	ExcessiveBlockSize int
	BlockMaxSize       int
	MaxTxSizePolicy    int
}

type BlockChainSettings struct {
	StoreURL              *url.URL
	CheckBlockIndexStrict bool
}

type BlockAssemblySettings struct {
	ArbitraryText string
}

type BlockValidationSettings struct {
	ScriptVerificationWorkers int
}

type UtxoStoreSettings struct {
	CacheEnabled bool
	CacheTTL     time.Duration
	DBTimeout    time.Duration

	PostgresMaxIdleConns int
	PostgresMaxOpenConns int
}

type MempoolSettings struct {
	CheckFrequency uint32
}

type MiningSettings struct {
	// MaxIterations bounds the nonce search. Zero means the full uint32
	// nonce space.
	MaxIterations uint64
}

type Settings struct {
	ClientName     string
	DataFolder     string
	Network        string
	LogLevel       string
	ChainCfgParams *chaincfg.Params

	Policy          *PolicySettings
	BlockChain      BlockChainSettings
	BlockAssembly   BlockAssemblySettings
	BlockValidation BlockValidationSettings
	UtxoStore       UtxoStoreSettings
	Mempool         MempoolSettings
	Mining          MiningSettings
}
