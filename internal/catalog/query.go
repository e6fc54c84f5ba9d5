package catalog

import (
	"slices"
	"strings"

	"storefront/internal/domain/model"
)

type SortMode string

const (
	SortNone      SortMode = "none"
	SortPriceAsc  SortMode = "price_asc"
	SortPriceDesc SortMode = "price_desc"
	SortDiscount  SortMode = "discount"
)

// 空文字は none 扱い
func ParseSort(s string) (SortMode, bool) {
	switch SortMode(s) {
	case "", SortNone:
		return SortNone, true
	case SortPriceAsc, SortPriceDesc, SortDiscount:
		return SortMode(s), true
	default:
		return "", false
	}
}

// 空文字は All 扱い
func ParseCategory(s string) (model.Category, bool) {
	c := model.Category(s)
	if s == "" || c == model.CategoryAll {
		return model.CategoryAll, true
	}
	if !c.Valid() {
		return "", false
	}
	return c, true
}

// 外部から提案された商品IDの集合。部分一致検索のOR条件としてだけ使う。
type HintSet map[string]struct{}

func NewHintSet(ids ...string) HintSet {
	s := make(HintSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s HintSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s HintSet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

type Query struct {
	Category model.Category
	Text     string
	Hints    HintSet
	Sort     SortMode
}

// Apply はカテゴリ→テキスト→ソートの順に絞り込む。入力スライスは変更しない。
func Apply(products []model.Product, q Query) []model.Product {
	out := make([]model.Product, 0, len(products))

	needle := strings.ToLower(q.Text)
	for _, p := range products {
		if q.Category != "" && q.Category != model.CategoryAll && p.Category != q.Category {
			continue
		}
		if needle != "" && !matchesText(p, needle, q.Hints) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b model.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b model.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortDiscount:
		slices.SortStableFunc(out, func(a, b model.Product) int {
			return b.Savings().Cmp(a.Savings())
		})
	}

	return out
}

func matchesText(p model.Product, needle string, hints HintSet) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Brand), needle) {
		return true
	}
	return hints.Has(p.ID)
}
