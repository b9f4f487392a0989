// Package reservation implements the reserve orchestration: validate the
// principal, take one unit from the shared ledger, and record the account's
// claim, as a single committed operation.
package reservation

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/inventory-reservation-service/internal/model"
	"github.com/fairyhunter13/inventory-reservation-service/internal/obs"
)

// Ledger is the transactional reserve operation the service depends on.
// Implementations must guarantee that the decrement and the reservation
// upsert commit atomically.
type Ledger interface {
	ReserveItem(ctx context.Context, accountID, itemID int64) (int64, error)
}

// Result is the outcome of a reserve call. Business rejections (out of
// stock) are Results, not errors.
type Result struct {
	Accepted bool   `json:"accepted"`
	Quantity int64  `json:"quantity,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// ReasonOutOfStock is the rejection reason when no units remain.
const ReasonOutOfStock = "out_of_stock"

// Service coordinates reservations over a Ledger, retrying transient
// transaction conflicts a bounded number of times.
type Service struct {
	ledger   Ledger
	retryMax int

	accepted  atomic.Uint64
	rejected  atomic.Uint64
	conflicts atomic.Uint64
	retries   atomic.Uint64
}

// New constructs a Service. retryMax is the total number of attempts per
// call; non-positive means 3.
func New(ledger Ledger, retryMax int) *Service {
	if retryMax <= 0 {
		retryMax = 3
	}
	return &Service{ledger: ledger, retryMax: retryMax}
}

// Reserve takes one unit of itemID for accountID. A zero or negative
// accountID means no principal reached us and the call is rejected outright.
// ErrTransactionConflict from the ledger is retried with a short jittered
// backoff; if every attempt conflicts the last error surfaces to the caller.
func (s *Service) Reserve(ctx context.Context, accountID, itemID int64) (Result, error) {
	if accountID <= 0 {
		return Result{}, model.ErrUnauthenticated
	}
	var lastErr error
	for attempt := 0; attempt < s.retryMax; attempt++ {
		if attempt > 0 {
			s.retries.Add(1)
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(backoff(attempt)):
			}
		}
		qty, err := s.ledger.ReserveItem(ctx, accountID, itemID)
		switch {
		case err == nil:
			s.accepted.Add(1)
			obs.Logger.Info("reserve_accepted",
				"account_id", accountID,
				"item_id", itemID,
				"quantity", qty,
			)
			return Result{Accepted: true, Quantity: qty}, nil
		case errors.Is(err, model.ErrOutOfStock):
			s.rejected.Add(1)
			obs.Logger.Info("reserve_rejected",
				"account_id", accountID,
				"item_id", itemID,
				"reason", ReasonOutOfStock,
			)
			return Result{Accepted: false, Reason: ReasonOutOfStock}, nil
		case errors.Is(err, model.ErrTransactionConflict):
			s.conflicts.Add(1)
			lastErr = err
		default:
			return Result{}, err
		}
	}
	obs.Logger.Warn("reserve_conflict_exhausted",
		"account_id", accountID,
		"item_id", itemID,
		"attempts", s.retryMax,
	)
	return Result{}, lastErr
}

// Metrics returns reservation counters for observability.
func (s *Service) Metrics() (accepted, rejected, conflicts, retries uint64) {
	return s.accepted.Load(), s.rejected.Load(), s.conflicts.Load(), s.retries.Load()
}

func backoff(attempt int) time.Duration {
	base := time.Duration(attempt) * 10 * time.Millisecond
	return base + time.Duration(rand.Intn(10))*time.Millisecond
}
