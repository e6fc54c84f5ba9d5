package model

import "github.com/shopspring/decimal"

type Category string

const (
	CategoryAll          Category = "All"
	CategoryGrocery      Category = "Grocery"
	CategoryDairy        Category = "Dairy"
	CategoryBeverages    Category = "Beverages"
	CategorySnacks       Category = "Snacks"
	CategoryPersonalCare Category = "Personal Care"
)

// 表示順のカテゴリ一覧（Allは含まない）
func Categories() []Category {
	return []Category{
		CategoryGrocery,
		CategoryDairy,
		CategoryBeverages,
		CategorySnacks,
		CategoryPersonalCare,
	}
}

func (c Category) Valid() bool {
	for _, v := range Categories() {
		if v == c {
			return true
		}
	}
	return false
}

// MRPは定価、Priceは販売価格。Price <= MRP は期待値だが強制しない。
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Category    Category        `json:"category"`
	MRP         decimal.Decimal `json:"mrp"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Stock       int64           `json:"stock"`
	Weight      string          `json:"weight"`
	Description string          `json:"description"`
}

// 値引き額（MRP - Price）
func (p Product) Savings() decimal.Decimal {
	return p.MRP.Sub(p.Price)
}

// 「xx% OFF」バッジ用の整数パーセント
func (p Product) DiscountPercent() int64 {
	if !p.MRP.IsPositive() || p.Price.GreaterThan(p.MRP) {
		return 0
	}
	return p.Savings().Div(p.MRP).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (p Product) Summary() ProductSummary {
	return ProductSummary{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Brand:    p.Brand,
	}
}

// 検索候補の問い合わせに渡す最小限の情報
type ProductSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Brand    string   `json:"brand"`
}
