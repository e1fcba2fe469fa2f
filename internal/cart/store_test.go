package cart_test

import (
	"testing"

	"storefront/internal/cart"

	"github.com/stretchr/testify/assert"
)

func item(id int64, qty int64, price string) cart.Item {
	return cart.Item{ProductID: id, Quantity: qty, Price: dec(price)}
}

// Test: 同一商品の追加は数量加算され、明細は1つのまま
func TestAddItemAggregatesQuantity(t *testing.T) {
	s := cart.New()

	s.AddItem(item(1, 1, "100"))
	s.AddItem(item(1, 2, "100"))
	s.AddItem(item(1, 3, "100"))

	snap := s.Snapshot()
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, int64(6), snap.Items[0].Quantity)
}

// Test: 数量1未満の追加は無視される
func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	s := cart.New()

	s.AddItem(item(1, 0, "100"))
	s.AddItem(item(1, -5, "100"))

	assert.Empty(t, s.Snapshot().Items)
}

// Test: UpdateQuantityは置き換え（加算ではない）
func TestUpdateQuantityReplaces(t *testing.T) {
	s := cart.New()
	s.AddItem(item(1, 2, "100"))

	s.UpdateQuantity(1, 5)

	snap := s.Snapshot()
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, int64(5), snap.Items[0].Quantity)
}

// Test: UpdateQuantityの0以下はRemoveItemと同じ
func TestUpdateQuantityZeroOrNegativeRemoves(t *testing.T) {
	for _, qty := range []int64{0, -1} {
		s := cart.New()
		s.AddItem(item(1, 2, "100"))

		s.UpdateQuantity(1, qty)

		assert.Empty(t, s.Snapshot().Items)
	}
}

// Test: 存在しない明細のUpdateQuantity/RemoveItemはno-op
func TestMissingLineIsNoop(t *testing.T) {
	s := cart.New()
	s.AddItem(item(1, 2, "100"))

	s.UpdateQuantity(99, 5)
	s.RemoveItem(99)

	snap := s.Snapshot()
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, int64(2), snap.Items[0].Quantity)
}

// Test: 追加順が違っても最終的な(商品,数量)が同じならtotalPriceは同じ
func TestTotalsOrderInvariant(t *testing.T) {
	a := cart.New()
	a.AddItem(item(1, 1, "100"))
	a.AddItem(item(2, 2, "50"))
	a.AddItem(item(1, 2, "100"))

	b := cart.New()
	b.AddItem(item(2, 1, "50"))
	b.AddItem(item(1, 3, "100"))
	b.AddItem(item(2, 1, "50"))

	assert.True(t, a.Snapshot().Totals.TotalPrice.Equal(b.Snapshot().Totals.TotalPrice))
	assert.Equal(t, a.Snapshot().Totals.TotalItems, b.Snapshot().Totals.TotalItems)
}

// Test: ClearCartで集計は全部ゼロ、isOpenは変わらない
func TestClearCart(t *testing.T) {
	s := cart.New()
	s.SetCartOpen(true)
	s.AddItem(item(1, 2, "100"))
	s.AddItem(item(2, 1, "50"))

	s.ClearCart()

	snap := s.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Equal(t, 0, snap.Totals.ItemCount)
	assert.Equal(t, int64(0), snap.Totals.TotalItems)
	assert.True(t, snap.Totals.TotalPrice.IsZero())
	assert.True(t, snap.Totals.IsEmpty())
	assert.True(t, snap.IsOpen) // isOpenは触らない
}

// Test: UIフラグの開閉
func TestToggleAndSetOpen(t *testing.T) {
	s := cart.New()

	s.ToggleCart()
	assert.True(t, s.Snapshot().IsOpen)

	s.ToggleCart()
	assert.False(t, s.Snapshot().IsOpen)

	s.SetCartOpen(true)
	assert.True(t, s.Snapshot().IsOpen)
}

// Test: エラーフラグの設定とクリア
func TestErrorFlag(t *testing.T) {
	s := cart.New()

	s.SetError("cart save failed")
	assert.Equal(t, "cart save failed", s.Snapshot().Err)

	s.ClearError()
	assert.Equal(t, "", s.Snapshot().Err)
}

// Test: Snapshotは状態のコピー（後からの変更は反映されない）
func TestSnapshotIsCopy(t *testing.T) {
	s := cart.New()
	s.AddItem(item(1, 1, "100"))

	snap := s.Snapshot()
	s.AddItem(item(1, 1, "100"))

	assert.Equal(t, int64(1), snap.Items[0].Quantity)
	assert.Equal(t, int64(2), s.Snapshot().Items[0].Quantity)
}

// Test: WithSeedで初期状態を注入できる
func TestWithSeed(t *testing.T) {
	seed := []cart.Item{item(3, 1, "30")}
	s := cart.New(cart.WithSeed(seed))

	snap := s.Snapshot()
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, int64(3), snap.Items[0].ProductID)
	// 生成直後・復元前はisLoading
	assert.True(t, snap.IsLoading)
}
