// Package pricing computes cart totals: subtotal, coupon discount, delivery
// charge and grand total. The engine holds no per-cart state; callers
// recompute whenever the cart or the applied coupon changes.
package pricing

import (
	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Engine struct {
	Coupons               *Registry
	DeliveryFee           decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
}

func NewEngine(coupons *Registry, deliveryFee, freeDeliveryThreshold decimal.Decimal) *Engine {
	return &Engine{
		Coupons:               coupons,
		DeliveryFee:           deliveryFee,
		FreeDeliveryThreshold: freeDeliveryThreshold,
	}
}

// Summary is not rounded; rounding to whole rupees is a display concern.
type Summary struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Total          decimal.Decimal `json:"total"`

	// FreeDeliveryGap is how much more (after discount) unlocks free delivery.
	// Zero when delivery is already free.
	FreeDeliveryGap decimal.Decimal `json:"free_delivery_gap"`
}

// Compute prices the cart with an optional applied coupon.
func (e *Engine) Compute(items []model.CartItem, coupon *model.Coupon) Summary {
	subtotal := Subtotal(items)

	discount := decimal.Zero
	if coupon != nil {
		discount = subtotal.Mul(decimal.NewFromInt(int64(coupon.Percent))).Div(hundred)
	}

	discounted := subtotal.Sub(discount)
	delivery := e.DeliveryFee
	gap := e.FreeDeliveryThreshold.Sub(discounted)
	if discounted.GreaterThanOrEqual(e.FreeDeliveryThreshold) || discounted.IsZero() {
		delivery = decimal.Zero
		gap = decimal.Zero
	}

	return Summary{
		Subtotal:        subtotal,
		Discount:        discount,
		DeliveryCharge:  delivery,
		Total:           discounted.Add(delivery),
		FreeDeliveryGap: gap,
	}
}

func Subtotal(items []model.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}
