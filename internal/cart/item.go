package cart

import "github.com/shopspring/decimal"

// カートの明細。
// 追加時点の価格・割引率・商品名を必ずスナップショットで保存。
type Item struct {
	ProductID       int64           `json:"product_id"`
	Name            string          `json:"name"`
	Quantity        int64           `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

var hundred = decimal.NewFromInt(100)

// 割引適用後の単価（精度は落とさない）
func (it Item) EffectiveUnitPrice() decimal.Decimal {
	if it.DiscountPercent.IsZero() {
		return it.Price
	}
	return it.Price.Sub(it.Price.Mul(it.DiscountPercent).Div(hundred))
}

// 明細小計 = 割引後単価 × 数量
func (it Item) Subtotal() decimal.Decimal {
	return it.EffectiveUnitPrice().Mul(decimal.NewFromInt(it.Quantity))
}

// 集計値。保存せず、読むたびに計算し直す。
type Totals struct {
	ItemCount  int             `json:"item_count"`
	TotalItems int64           `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func CalcTotals(items []Item) Totals {
	t := Totals{TotalPrice: decimal.Zero}
	for _, it := range items {
		t.ItemCount++
		t.TotalItems += it.Quantity
		t.TotalPrice = t.TotalPrice.Add(it.Subtotal())
	}
	return t
}

func (t Totals) IsEmpty() bool {
	return t.ItemCount == 0
}
