package model

import (
	"time"

	"gorm.io/gorm"
)

// Product is the catalog entry this core reads price/stock from. Full catalog
// management lives in another service; it exists here so checkout can price
// and reserve against it.
type Product struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string  `gorm:"size:128;not null" json:"name"`
	Price    float64 `gorm:"not null" json:"price"`
	Stock    int64   `gorm:"not null;default:0" json:"stock"`
	SellerID string  `gorm:"size:64;not null;index" json:"seller_id"`
}

func (Product) TableName() string { return "products" }
