// Package cached layers a read-through ttl cache over another utxo store.
package cached

import (
	"context"
	"sync/atomic"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/jellydator/ttlcache/v3"

	"github.com/bsv-blockchain/nanonode/stores/utxo"
	"github.com/bsv-blockchain/nanonode/ulogger"
)

type Store struct {
	store   utxo.Store
	logger  ulogger.Logger
	cache   *ttlcache.Cache[utxo.Outpoint, *utxo.Output]
	stopped atomic.Bool
}

func New(logger ulogger.Logger, store utxo.Store, opts ...ttlcache.Option[utxo.Outpoint, *utxo.Output]) *Store {
	opts = append(opts, ttlcache.WithDisableTouchOnHit[utxo.Outpoint, *utxo.Output]())

	s := &Store{
		store:  store,
		logger: logger,
		cache:  ttlcache.New[utxo.Outpoint, *utxo.Output](opts...),
	}

	go s.cache.Start()

	return s
}

func (s *Store) Create(ctx context.Context, tx *bt.Tx, blockHeight uint32) error {
	return s.store.Create(ctx, tx, blockHeight)
}

func (s *Store) Get(ctx context.Context, outpoint utxo.Outpoint) (*utxo.Output, error) {
	if item := s.cache.Get(outpoint); item != nil {
		return item.Value(), nil
	}

	output, err := s.store.Get(ctx, outpoint)
	if err != nil {
		return nil, err
	}

	s.cache.Set(outpoint, output, ttlcache.DefaultTTL)

	return output, nil
}

func (s *Store) Spend(ctx context.Context, outpoint utxo.Outpoint, spendingHeight uint32, coinbaseMaturity uint32) (*utxo.Output, error) {
	// drop any cached copy before mutating the backing store
	s.cache.Delete(outpoint)

	return s.store.Spend(ctx, outpoint, spendingHeight, coinbaseMaturity)
}

// Close stops the cache janitor. The backing store is not closed, its owner
// releases it separately.
func (s *Store) Close() error {
	if s.stopped.CompareAndSwap(false, true) {
		s.cache.Stop()
	}

	return nil
}
