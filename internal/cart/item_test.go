package cart_test

import (
	"testing"

	"storefront/internal/cart"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Test: 割引なしの単価はそのまま
func TestEffectiveUnitPriceNoDiscount(t *testing.T) {
	it := cart.Item{ProductID: 1, Quantity: 1, Price: dec("100")}

	assert.True(t, it.EffectiveUnitPrice().Equal(dec("100")))
}

// Test: 割引率を適用した単価
func TestEffectiveUnitPriceWithDiscount(t *testing.T) {
	it := cart.Item{ProductID: 1, Quantity: 1, Price: dec("50"), DiscountPercent: dec("20")}

	// 50 - 50*20/100 = 40
	assert.True(t, it.EffectiveUnitPrice().Equal(dec("40")))
}

// Test: A(100円 x1) + B(50円 20%OFF x2) => totalItems=3, totalPrice=180, itemCount=2
func TestCalcTotalsScenario(t *testing.T) {
	items := []cart.Item{
		{ProductID: 1, Quantity: 1, Price: dec("100")},
		{ProductID: 2, Quantity: 2, Price: dec("50"), DiscountPercent: dec("20")},
	}

	totals := cart.CalcTotals(items)

	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, int64(3), totals.TotalItems)
	assert.True(t, totals.TotalPrice.Equal(dec("180")))
	assert.False(t, totals.IsEmpty())
}

// Test: 空のカートの集計
func TestCalcTotalsEmpty(t *testing.T) {
	totals := cart.CalcTotals(nil)

	assert.Equal(t, 0, totals.ItemCount)
	assert.Equal(t, int64(0), totals.TotalItems)
	assert.True(t, totals.TotalPrice.IsZero())
	assert.True(t, totals.IsEmpty())
}

// Test: 端数の出る割引率でも内部では精度を落とさない
func TestCalcTotalsKeepsPrecision(t *testing.T) {
	items := []cart.Item{
		// 9.99 - 9.99*7/100 = 9.2907
		{ProductID: 1, Quantity: 1, Price: dec("9.99"), DiscountPercent: dec("7")},
	}

	totals := cart.CalcTotals(items)

	assert.True(t, totals.TotalPrice.Equal(dec("9.2907")))
	// 丸めは表示側（2桁）でだけ行う
	assert.Equal(t, "9.29", totals.TotalPrice.Round(2).StringFixed(2))
}
