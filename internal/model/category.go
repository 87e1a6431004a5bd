package model

import "time"

// Category classifies products. A category owns nothing; products reference it
// through the product_categories join table.
type Category struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName pins the table name so SQL in repositories can qualify columns.
func (Category) TableName() string { return "categories" }
