package model

import "github.com/shopspring/decimal"

// カートの明細。追加時点の商品をそのまま保持する。
// Quantityは常に1以上（0になった明細はカートから消える）。
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// 適用中のクーポン（1カートにつき最大1つ）
type Coupon struct {
	Code    string `json:"code"`
	Percent int    `json:"percent"`
}
