package blockvalidation

import (
	"sync"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/nanonode/errors"
	"github.com/bsv-blockchain/nanonode/ulogger"
)

func TestVerifyPool(t *testing.T) {
	t.Run("results come back per submission", func(t *testing.T) {
		pool := NewVerifyPool(ulogger.TestLogger{}, 3)
		defer pool.Stop()

		okCh := pool.Submit(bt.NewTx(), func(*bt.Tx) error {
			return nil
		})

		failCh := pool.Submit(bt.NewTx(), func(*bt.Tx) error {
			return errors.NewTxInvalidError("bad tx")
		})

		require.NoError(t, <-okCh)

		err := <-failCh
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTxInvalid))
	})

	t.Run("many concurrent submissions", func(t *testing.T) {
		pool := NewVerifyPool(ulogger.TestLogger{}, 2)
		defer pool.Stop()

		var wg sync.WaitGroup

		for i := 0; i < 50; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				assert.NoError(t, <-pool.Submit(bt.NewTx(), func(*bt.Tx) error {
					return nil
				}))
			}()
		}

		wg.Wait()
	})

	t.Run("stop joins every worker and is idempotent", func(t *testing.T) {
		pool := NewVerifyPool(ulogger.TestLogger{}, 4)

		pool.Stop()
		pool.Stop()
	})

	t.Run("zero workers still gets one", func(t *testing.T) {
		pool := NewVerifyPool(ulogger.TestLogger{}, 0)
		defer pool.Stop()

		require.NoError(t, <-pool.Submit(bt.NewTx(), func(*bt.Tx) error {
			return nil
		}))
	})
}
