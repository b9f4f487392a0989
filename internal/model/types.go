// Package model defines domain types used by the service.
package model

import "time"

// Account is a registered principal that can reserve catalog items.
type Account struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	DisplayName    string    `json:"display_name" gorm:"size:255;not null"`
	Email          string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordDigest string    `json:"-" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName returns the database table name for the Account model.
func (Account) TableName() string { return "accounts" }

// CatalogItem is a reservable item with a shared availability counter.
//
// InitialStock records the stocked quantity at creation time and never
// changes afterwards; AvailableCount only moves through reservations.
type CatalogItem struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"size:255;not null"`
	Price          float64   `json:"price"`
	AvailableCount int64     `json:"available_count" gorm:"not null"`
	InitialStock   int64     `json:"initial_stock" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName returns the database table name for the CatalogItem model.
func (CatalogItem) TableName() string { return "catalog_items" }

// Reservation is an account's accumulated claim on one item.
type Reservation struct {
	AccountID int64     `json:"account_id" gorm:"primaryKey;autoIncrement:false"`
	ItemID    int64     `json:"item_id" gorm:"primaryKey;autoIncrement:false"`
	Quantity  int64     `json:"quantity" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`

	Account Account     `json:"-" gorm:"foreignKey:AccountID"`
	Item    CatalogItem `json:"-" gorm:"foreignKey:ItemID"`
}

// TableName returns the database table name for the Reservation model.
func (Reservation) TableName() string { return "reservations" }

// ReservationLine is the read model for listing an account's reservations,
// joined with the item's name and price.
type ReservationLine struct {
	ItemID   int64   `json:"item_id"`
	ItemName string  `json:"item_name"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}
