package model

import "time"

// テナント（ストア）とそのテーマ設定。
// slugはホスト名の先頭ラベルまたはX-Tenantヘッダで解決する。
type Tenant struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug              string    `gorm:"type:varchar(63);not null;uniqueIndex" json:"slug"`
	Name              string    `gorm:"type:varchar(255);not null" json:"name"`
	ThemePrimaryColor string    `gorm:"type:varchar(7);not null;default:'#111111'" json:"theme_primary_color"`
	ThemeAccentColor  string    `gorm:"type:varchar(7);not null;default:'#3b82f6'" json:"theme_accent_color"`
	LogoURL           string    `gorm:"type:text" json:"logo_url"`
	IsActive          bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
