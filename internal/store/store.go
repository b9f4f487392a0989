// Package store implements persistence over a transactional SQLite database.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/fairyhunter13/inventory-reservation-service/internal/model"
)

// Store wraps the relational database behind the service's operations.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if necessary) the SQLite database at path and runs
// schema migrations. Foreign keys are enforced and writers wait on the busy
// handler instead of failing immediately.
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&model.Account{}, &model.CatalogItem{}, &model.Reservation{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// CreateAccount inserts a new account and returns its id. The unique index on
// email turns a duplicate registration into ErrDuplicateAccount.
func (s *Store) CreateAccount(ctx context.Context, displayName, email, digest string) (int64, error) {
	acc := model.Account{DisplayName: displayName, Email: email, PasswordDigest: digest}
	if err := s.db.WithContext(ctx).Create(&acc).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, model.ErrDuplicateAccount
		}
		return 0, classify(err)
	}
	return acc.ID, nil
}

// AccountByEmail fetches an account by its registration key.
func (s *Store) AccountByEmail(ctx context.Context, email string) (model.Account, error) {
	var acc model.Account
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, classify(err)
	}
	return acc, nil
}

// AccountByID fetches an account by id.
func (s *Store) AccountByID(ctx context.Context, id int64) (model.Account, error) {
	var acc model.Account
	err := s.db.WithContext(ctx).First(&acc, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, classify(err)
	}
	return acc, nil
}

// AddItem inserts a catalog item with the given initial stock.
func (s *Store) AddItem(ctx context.Context, name string, price float64, stock int64) (int64, error) {
	item := model.CatalogItem{Name: name, Price: price, AvailableCount: stock, InitialStock: stock}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return 0, classify(err)
	}
	return item.ID, nil
}

// GetItem fetches one catalog item.
func (s *Store) GetItem(ctx context.Context, id int64) (model.CatalogItem, error) {
	var item model.CatalogItem
	err := s.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.CatalogItem{}, model.ErrNotFound
		}
		return model.CatalogItem{}, classify(err)
	}
	return item, nil
}

// ListItems returns the whole catalog ordered by id.
func (s *Store) ListItems(ctx context.Context) ([]model.CatalogItem, error) {
	var items []model.CatalogItem
	if err := s.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, classify(err)
	}
	return items, nil
}

// ReserveItem atomically takes one unit of the item for the account: the
// availability decrement and the reservation upsert commit together or not at
// all. The conditional UPDATE only matches while stock remains, so two
// concurrent calls against a single remaining unit cannot both succeed.
// Returns the account's new accumulated quantity for the item.
func (s *Store) ReserveItem(ctx context.Context, accountID, itemID int64) (int64, error) {
	var quantity int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.CatalogItem{}).
			Where("id = ? AND available_count > 0", itemID).
			UpdateColumn("available_count", gorm.Expr("available_count - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&model.CatalogItem{}).Where("id = ?", itemID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return model.ErrNotFound
			}
			return model.ErrOutOfStock
		}
		r := model.Reservation{AccountID: accountID, ItemID: itemID, Quantity: 1, UpdatedAt: time.Now().UTC()}
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account_id"}, {Name: "item_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("quantity + 1"),
				"updated_at": time.Now().UTC(),
			}),
		}).Create(&r).Error; err != nil {
			return err
		}
		var stored model.Reservation
		if err := tx.Where("account_id = ? AND item_id = ?", accountID, itemID).First(&stored).Error; err != nil {
			return err
		}
		quantity = stored.Quantity
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrOutOfStock) {
			return 0, err
		}
		return 0, classify(err)
	}
	return quantity, nil
}

// ListReservations returns the account's reservations joined with item name
// and price, ordered by item id.
func (s *Store) ListReservations(ctx context.Context, accountID int64) ([]model.ReservationLine, error) {
	var lines []model.ReservationLine
	err := s.db.WithContext(ctx).
		Table("reservations").
		Select("reservations.item_id, catalog_items.name AS item_name, catalog_items.price, reservations.quantity").
		Joins("JOIN catalog_items ON catalog_items.id = reservations.item_id").
		Where("reservations.account_id = ?", accountID).
		Order("reservations.item_id").
		Scan(&lines).Error
	if err != nil {
		return nil, classify(err)
	}
	return lines, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// classify maps driver errors onto the service taxonomy: lock contention is
// transient and retryable, everything else fails the request.
func classify(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") {
		return fmt.Errorf("%w: %v", model.ErrTransactionConflict, err)
	}
	return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
}
