// Package service orchestrates single and batch token balance lookups.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Fantasim/balanceapi/internal/config"
	"github.com/Fantasim/balanceapi/internal/logging"
	"github.com/Fantasim/balanceapi/internal/models"
)

// BalanceReader reads the token balance of one address with a single remote call.
type BalanceReader interface {
	BalanceOf(ctx context.Context, address string) (models.BalanceRecord, error)
}

// BatchError reports the lookup that aborted a batch.
type BatchError struct {
	Index   int
	Address string
	Err     error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("address %d (%s): %v", e.Index, e.Address, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// BalanceService answers balance queries against one token contract.
type BalanceService struct {
	reader      BalanceReader
	concurrency int
}

// NewBalanceService creates a service. A concurrency of 1 or less runs batch
// lookups strictly one at a time in input order.
func NewBalanceService(reader BalanceReader, concurrency int) *BalanceService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BalanceService{
		reader:      reader,
		concurrency: concurrency,
	}
}

// Concurrency returns the maximum number of in-flight lookups per batch.
func (s *BalanceService) Concurrency() int {
	return s.concurrency
}

// GetBalance looks up a single address. No retries.
func (s *BalanceService) GetBalance(ctx context.Context, address string) (models.BalanceRecord, error) {
	rec, err := s.reader.BalanceOf(ctx, address)
	if err != nil {
		return models.BalanceRecord{}, err
	}
	return rec, nil
}

// GetBalanceBatch looks up every address and returns the records in input
// order. The first failure in input order aborts the batch: no records are
// returned and the error is a *BatchError wrapping the reader's error.
func (s *BalanceService) GetBalanceBatch(ctx context.Context, addresses []string) ([]models.BalanceRecord, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	if len(addresses) == 0 {
		return []models.BalanceRecord{}, nil
	}

	log.Debug("batch lookup started",
		"count", len(addresses),
		"concurrency", s.concurrency,
	)

	var (
		records []models.BalanceRecord
		err     error
	)
	if s.concurrency == 1 || len(addresses) == 1 {
		records, err = s.batchSequential(ctx, addresses)
	} else {
		records, err = s.batchParallel(ctx, addresses)
	}

	if err != nil {
		log.Warn("batch lookup aborted",
			"count", len(addresses),
			"error", err,
			"elapsed", time.Since(start),
		)
		return nil, err
	}

	log.Info("batch lookup complete",
		"count", len(records),
		"elapsed", time.Since(start),
	)
	return records, nil
}

func (s *BalanceService) batchSequential(ctx context.Context, addresses []string) ([]models.BalanceRecord, error) {
	records := make([]models.BalanceRecord, 0, len(addresses))
	for i, addr := range addresses {
		rec, err := s.reader.BalanceOf(ctx, addr)
		if err != nil {
			return nil, &BatchError{Index: i, Address: addr, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

// batchParallel runs lookups on a bounded errgroup. An entry is skipped once a
// lower-index entry has failed, so the lowest failing index is always looked
// up and is the one reported. The context is not cancelled on failure: a
// cancelled in-flight lookup below the failing index would otherwise change
// which failure is reported.
func (s *BalanceService) batchParallel(ctx context.Context, addresses []string) ([]models.BalanceRecord, error) {
	n := len(addresses)
	records := make([]models.BalanceRecord, n)
	errs := make([]error, n)

	var firstFailed atomic.Int64
	firstFailed.Store(int64(n))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for i, addr := range addresses {
		if int64(i) > firstFailed.Load() {
			break
		}
		g.Go(func() error {
			if int64(i) > firstFailed.Load() {
				return nil
			}
			rec, err := s.reader.BalanceOf(ctx, addr)
			if err != nil {
				errs[i] = err
				storeMin(&firstFailed, int64(i))
				return nil
			}
			records[i] = rec
			return nil
		})
	}
	_ = g.Wait()

	if k := int(firstFailed.Load()); k < n {
		return nil, &BatchError{Index: k, Address: addresses[k], Err: errs[k]}
	}
	return records, nil
}

func storeMin(v *atomic.Int64, n int64) {
	for {
		cur := v.Load()
		if n >= cur || v.CompareAndSwap(cur, n) {
			return
		}
	}
}

// Classify maps a lookup error to the kind reported to API callers.
func Classify(err error) models.ErrorKind {
	switch {
	case errors.Is(err, config.ErrBadRequest):
		return models.ErrorKindBadRequest
	case errors.Is(err, config.ErrValidation):
		return models.ErrorKindValidationFailure
	case errors.Is(err, config.ErrInvalidAddress):
		return models.ErrorKindInvalidAddressFailure
	default:
		return models.ErrorKindInternal
	}
}
