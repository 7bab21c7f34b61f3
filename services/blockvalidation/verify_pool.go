package blockvalidation

import (
	"sync"

	"github.com/bsv-blockchain/go-bt/v2"

	"github.com/bsv-blockchain/nanonode/ulogger"
)

// verifyJob is a single transaction check handed to the pool. The result is
// sent on errCh, which must have capacity 1 so workers never block.
type verifyJob struct {
	tx    *bt.Tx
	check func(*bt.Tx) error
	errCh chan error
}

// VerifyPool is a fixed-size pool of background workers running transaction
// checks. The pool is started once and joined at teardown; submitters block
// while all workers are busy.
type VerifyPool struct {
	logger ulogger.Logger
	jobs   chan *verifyJob
	wg     sync.WaitGroup

	stopOnce sync.Once
}

func NewVerifyPool(logger ulogger.Logger, workers int) *VerifyPool {
	if workers <= 0 {
		workers = 1
	}

	p := &VerifyPool{
		logger: logger,
		jobs:   make(chan *verifyJob),
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)

		go p.worker(i)
	}

	logger.Debugf("started %d script verification workers", workers)

	return p
}

func (p *VerifyPool) worker(id int) {
	defer p.wg.Done()

	for job := range p.jobs {
		job.errCh <- job.check(job.tx)
	}

	p.logger.Debugf("script verification worker %d stopped", id)
}

// Submit queues a check and returns the channel its result will arrive on.
func (p *VerifyPool) Submit(tx *bt.Tx, check func(*bt.Tx) error) <-chan error {
	errCh := make(chan error, 1)

	p.jobs <- &verifyJob{
		tx:    tx,
		check: check,
		errCh: errCh,
	}

	return errCh
}

// Stop closes the pool and waits for every worker to finish its current job.
// The wait is unbounded.
func (p *VerifyPool) Stop() {
	p.stopOnce.Do(func() {
		close(p.jobs)
		p.wg.Wait()
	})
}
