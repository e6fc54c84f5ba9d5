package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProduct_DiscountPercent(t *testing.T) {
	cases := []struct {
		name  string
		mrp   string
		price string
		want  int64
	}{
		{"通常", "30", "28", 7},
		{"値引きなし", "50", "50", 0},
		{"MRPゼロ", "0", "10", 0},
		//Price > MRP は登録できるがバッジは0%
		{"MRP超え", "10", "12", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Product{MRP: decimal.RequireFromString(tc.mrp), Price: decimal.RequireFromString(tc.price)}
			assert.Equal(t, tc.want, p.DiscountPercent())
		})
	}
}

func TestProduct_Summary(t *testing.T) {
	p := Product{ID: "1", Name: "Amul Butter", Brand: "Amul", Category: CategoryDairy, Stock: 3}
	assert.Equal(t, ProductSummary{ID: "1", Name: "Amul Butter", Category: CategoryDairy, Brand: "Amul"}, p.Summary())
}
