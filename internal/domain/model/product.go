package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID        int64           `gorm:"not null;index" json:"tenant_id"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description"`
	Price           decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
	ImageURL        string          `gorm:"type:text" json:"image_url"`
	Stock           int64           `gorm:"not null" json:"stock"`
	IsActive        bool            `gorm:"not null;default:false" json:"is_active"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}
