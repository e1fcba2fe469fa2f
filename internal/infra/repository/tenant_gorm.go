package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type TenantGormRepository struct {
	db *gorm.DB
}

// DI
func NewTenantGormRepository(db *gorm.DB) *TenantGormRepository {
	return &TenantGormRepository{db: db}
}

// slugでテナントを1件取得
func (r *TenantGormRepository) FindBySlug(ctx context.Context, slug string) (model.Tenant, error) {
	var t model.Tenant
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Tenant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Tenant{}, err
	}
	return t, nil
}

// テナントの作成
func (r *TenantGormRepository) Create(ctx context.Context, t model.Tenant) (model.Tenant, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return model.Tenant{}, err
	}
	return t, nil
}
