package usecase

import (
	"context"
	"net/http"

	"storefront/internal/cart"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジック。
// 状態はリクエストに束縛されたセッションストアが持ち、ここでは
// カタログ照合とスナップショット作成、表示用の丸めだけを行う。
type CartUsecase struct {
	productRepo repo.ProductRepository
}

// DI
func NewCartUsecase(productRepo repo.ProductRepository) *CartUsecase {
	return &CartUsecase{productRepo: productRepo}
}

// price/discountは追加時点のスナップショット。表示額は小数2桁（四捨五入）。
type CartItemView struct {
	ProductID       int64           `json:"product_id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	EffectivePrice  decimal.Decimal `json:"effective_price"`
	Quantity        int64           `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	Items      []CartItemView  `json:"items"`
	IsOpen     bool            `json:"is_open"`
	IsLoading  bool            `json:"is_loading"`
	Error      string          `json:"error,omitempty"`
	ItemCount  int             `json:"item_count"`
	TotalItems int64           `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	IsEmpty    bool            `json:"is_empty"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

// 復元が終わるまで待つ。復元前の空の状態をAPIから見せない。
func waitReady(ctx context.Context, s *cart.Store) error {
	select {
	case <-s.Ready():
		return nil
	case <-ctx.Done():
		return NewHTTPError(http.StatusServiceUnavailable, "cart not ready")
	}
}

// GetCart は現在のカートを返す。
func (u *CartUsecase) GetCart(ctx context.Context, s *cart.Store) (CartView, error) {
	if err := waitReady(ctx, s); err != nil {
		return CartView{}, err
	}
	return buildCartView(s.Snapshot()), nil
}

// AddToCart はカートに追加（同一商品は数量加算）。
// 価格・割引率・商品名は追加時点のものをスナップショットする。
func (u *CartUsecase) AddToCart(ctx context.Context, tenantID int64, s *cart.Store, in AddCartInput) (CartView, error) {
	if in.ProductID <= 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	if err := waitReady(ctx, s); err != nil {
		return CartView{}, err
	}

	// 商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, tenantID, in.ProductID)
	if err == repo.ErrNotFound {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}

	// 既存数量＋追加分が在庫を超えないか
	var existingQty int64 = 0
	for _, it := range s.Snapshot().Items {
		if it.ProductID == in.ProductID {
			existingQty = it.Quantity
			break
		}
	}
	if existingQty+in.Quantity > p.Stock {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "stock exceeded")
	}

	s.AddItem(cart.Item{
		ProductID:       p.ID,
		Name:            p.Name,
		Quantity:        in.Quantity,
		Price:           p.Price,
		DiscountPercent: p.DiscountPercent,
	})

	return buildCartView(s.Snapshot()), nil
}

// 数量変更（置き換え）。0以下は削除と同じ。明細が無ければno-op。
func (u *CartUsecase) UpdateItem(ctx context.Context, s *cart.Store, productID int64, quantity int64) (CartView, error) {
	if productID <= 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if err := waitReady(ctx, s); err != nil {
		return CartView{}, err
	}

	s.UpdateQuantity(productID, quantity)
	return buildCartView(s.Snapshot()), nil
}

// 明細削除。無ければno-op。
func (u *CartUsecase) RemoveItem(ctx context.Context, s *cart.Store, productID int64) (CartView, error) {
	if productID <= 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if err := waitReady(ctx, s); err != nil {
		return CartView{}, err
	}

	s.RemoveItem(productID)
	return buildCartView(s.Snapshot()), nil
}

// 全明細削除（isOpenは触らない）
func (u *CartUsecase) ClearCart(ctx context.Context, s *cart.Store) (CartView, error) {
	if err := waitReady(ctx, s); err != nil {
		return CartView{}, err
	}

	s.ClearCart()
	return buildCartView(s.Snapshot()), nil
}

// カートパネルの開閉フラグ
func (u *CartUsecase) SetOpen(ctx context.Context, s *cart.Store, open bool) (CartView, error) {
	if err := waitReady(ctx, s); err != nil {
		return CartView{}, err
	}

	s.SetCartOpen(open)
	return buildCartView(s.Snapshot()), nil
}

// スナップショットから表示用ビューを作る。丸めはここでだけ行う。
func buildCartView(snap cart.Snapshot) CartView {
	items := make([]CartItemView, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, CartItemView{
			ProductID:       it.ProductID,
			Name:            it.Name,
			Price:           it.Price,
			DiscountPercent: it.DiscountPercent,
			EffectivePrice:  it.EffectiveUnitPrice().Round(2),
			Quantity:        it.Quantity,
			Subtotal:        it.Subtotal().Round(2),
		})
	}

	return CartView{
		Items:      items,
		IsOpen:     snap.IsOpen,
		IsLoading:  snap.IsLoading,
		Error:      snap.Err,
		ItemCount:  snap.Totals.ItemCount,
		TotalItems: snap.Totals.TotalItems,
		TotalPrice: snap.Totals.TotalPrice.Round(2),
		IsEmpty:    snap.Totals.IsEmpty(),
	}
}
