package integration

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fairyhunter13/inventory-reservation-service/internal/model"
	"github.com/fairyhunter13/inventory-reservation-service/internal/obs"
	"github.com/fairyhunter13/inventory-reservation-service/internal/reservation"
	"github.com/fairyhunter13/inventory-reservation-service/internal/store"
)

func setup(t *testing.T) (*store.Store, *reservation.Service) {
	t.Helper()
	obs.InitLogger("error")
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	// generous retry bound so SQLite write contention does not fail the test
	return st, reservation.New(st, 20)
}

// With availableCount = k and N > k concurrent callers, exactly k must be
// accepted and N-k rejected out of stock, and the conservation invariant
// must hold afterwards.
func TestNoDoubleAcceptUnderContention(t *testing.T) {
	st, svc := setup(t)
	ctx := context.Background()

	const n = 10
	const k = 3
	accounts := make([]int64, n)
	for i := range accounts {
		id, err := st.CreateAccount(ctx, "racer", string(rune('a'+i))+"@example.com", "digest")
		if err != nil {
			t.Fatalf("create account: %v", err)
		}
		accounts[i] = id
	}
	itemID, err := st.AddItem(ctx, "Scarce", 1, k)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	results := make([]reservation.Result, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Reserve(ctx, accounts[i], itemID)
		}(i)
	}
	wg.Wait()

	var accepted, rejected int
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d failed: %v", i, errs[i])
		}
		if results[i].Accepted {
			accepted++
		} else if results[i].Reason == reservation.ReasonOutOfStock {
			rejected++
		}
	}
	if accepted != k || rejected != n-k {
		t.Fatalf("expected %d accepted / %d rejected, got %d / %d", k, n-k, accepted, rejected)
	}

	item, err := st.GetItem(ctx, itemID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item.AvailableCount != 0 {
		t.Fatalf("expected 0 available, got %d", item.AvailableCount)
	}
	var reserved int64
	for _, acc := range accounts {
		lines, err := st.ListReservations(ctx, acc)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for _, l := range lines {
			reserved += l.Quantity
		}
	}
	if item.AvailableCount+reserved != item.InitialStock {
		t.Fatalf("conservation violated: available %d + reserved %d != stocked %d",
			item.AvailableCount, reserved, item.InitialStock)
	}
}

// Repeated reserves by one account against one item under concurrency still
// conserve stock and accumulate into a single row.
func TestConcurrentAccumulationSameAccount(t *testing.T) {
	st, svc := setup(t)
	ctx := context.Background()

	acc, err := st.CreateAccount(ctx, "hoarder", "hoarder@example.com", "digest")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	const stock = 8
	itemID, err := st.AddItem(ctx, "Bulk", 1, stock)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < stock; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Reserve(ctx, acc, itemID); err != nil {
				t.Errorf("reserve: %v", err)
			}
		}()
	}
	wg.Wait()

	item, _ := st.GetItem(ctx, itemID)
	if item.AvailableCount != 0 {
		t.Fatalf("expected 0 available, got %d", item.AvailableCount)
	}
	lines, err := st.ListReservations(ctx, acc)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != stock {
		t.Fatalf("expected single row with quantity %d, got %+v", stock, lines)
	}
}

func TestSequentialReservesExhaustStock(t *testing.T) {
	st, svc := setup(t)
	ctx := context.Background()

	acc, err := st.CreateAccount(ctx, "seq", "seq@example.com", "digest")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	itemID, err := st.AddItem(ctx, "Pair", 1, 2)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	for want := int64(1); want <= 2; want++ {
		res, err := svc.Reserve(ctx, acc, itemID)
		if err != nil {
			t.Fatalf("reserve: %v", err)
		}
		if !res.Accepted || res.Quantity != want {
			t.Fatalf("expected accepted with quantity %d, got %+v", want, res)
		}
	}
	res, err := svc.Reserve(ctx, acc, itemID)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if res.Accepted || res.Reason != reservation.ReasonOutOfStock {
		t.Fatalf("expected out of stock, got %+v", res)
	}
	if _, err := svc.Reserve(ctx, acc, 424242); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown item, got %v", err)
	}
}
