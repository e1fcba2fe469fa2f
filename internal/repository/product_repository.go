package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

// 商品の永続化（保存・取得）だけを約束。テナント単位で引く。
type ProductRepository interface {
	ListPublic(ctx context.Context, tenantID int64, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, tenantID int64, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
}
