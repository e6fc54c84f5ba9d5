package catalog

import (
	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 起動時の初期カタログ
func SeedProducts() []model.Product {
	return []model.Product{
		{
			ID:          "1",
			Name:        "Ashirvaad Shudh Chakki Atta",
			Brand:       "Ashirvaad",
			Category:    model.CategoryGrocery,
			MRP:         decimal.NewFromInt(450),
			Price:       decimal.NewFromInt(399),
			Image:       "https://picsum.photos/seed/atta/400/400",
			Stock:       50,
			Weight:      "10kg",
			Description: "High quality whole wheat flour for soft rotis.",
		},
		{
			ID:          "2",
			Name:        "Amul Taaza Milk",
			Brand:       "Amul",
			Category:    model.CategoryDairy,
			MRP:         decimal.NewFromInt(30),
			Price:       decimal.NewFromInt(28),
			Image:       "https://picsum.photos/seed/milk/400/400",
			Stock:       100,
			Weight:      "500ml",
			Description: "Pasteurized toned milk, rich in nutrition.",
		},
		{
			ID:          "3",
			Name:        "Basmati Rice Premium",
			Brand:       "India Gate",
			Category:    model.CategoryGrocery,
			MRP:         decimal.NewFromInt(180),
			Price:       decimal.NewFromInt(145),
			Image:       "https://picsum.photos/seed/rice/400/400",
			Stock:       25,
			Weight:      "1kg",
			Description: "Long grain aromatic basmati rice.",
		},
		{
			ID:          "4",
			Name:        "Coca Cola",
			Brand:       "Coke",
			Category:    model.CategoryBeverages,
			MRP:         decimal.NewFromInt(95),
			Price:       decimal.NewFromInt(85),
			Image:       "https://picsum.photos/seed/coke/400/400",
			Stock:       40,
			Weight:      "1.25L",
			Description: "Refreshing carbonated soft drink.",
		},
		{
			ID:          "5",
			Name:        "Lay's Classic Salted",
			Brand:       "Lay's",
			Category:    model.CategorySnacks,
			MRP:         decimal.NewFromInt(20),
			Price:       decimal.NewFromInt(18),
			Image:       "https://picsum.photos/seed/lays/400/400",
			Stock:       200,
			Weight:      "50g",
			Description: "Crispy potato chips.",
		},
		{
			ID:          "6",
			Name:        "Dove Soap Bar",
			Brand:       "Dove",
			Category:    model.CategoryPersonalCare,
			MRP:         decimal.NewFromInt(65),
			Price:       decimal.NewFromInt(58),
			Image:       "https://picsum.photos/seed/dove/400/400",
			Stock:       60,
			Weight:      "100g",
			Description: "Moisturizing cream bar for soft skin.",
		},
	}
}
