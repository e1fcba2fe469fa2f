package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// テナントの解決と作成。
type TenantRepository interface {
	FindBySlug(ctx context.Context, slug string) (model.Tenant, error)
	Create(ctx context.Context, t model.Tenant) (model.Tenant, error)
}
