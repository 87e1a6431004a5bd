package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. Categories behaves as a set keyed by category ID:
// callers must never append the same category twice.
type Product struct {
	ID          int64           `gorm:"primaryKey"`
	Name        string          `gorm:"index;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ImgURL      string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categories []Category `gorm:"many2many:product_categories;"`
}

func (Product) TableName() string { return "products" }
