package pricing

import (
	"fmt"
	"strconv"
	"strings"

	"storefront/internal/domain/model"
)

// クーポンコード（大文字）→ 割引率(%) の固定表。起動時に作り、以降は変更しない。
type Registry struct {
	percents map[string]int
}

func NewRegistry(percents map[string]int) (*Registry, error) {
	r := &Registry{percents: make(map[string]int, len(percents))}
	for code, pct := range percents {
		key := normalizeCode(code)
		if key == "" {
			return nil, fmt.Errorf("coupon code must not be empty")
		}
		if pct < 0 || pct > 100 {
			return nil, fmt.Errorf("coupon %s: percent must be 0-100, got %d", key, pct)
		}
		r.percents[key] = pct
	}
	return r, nil
}

// "RAKESH15:15,WELCOME10:10" 形式
func ParseRegistry(raw string) (*Registry, error) {
	percents := map[string]int{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, pct, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("coupon %q: want CODE:PERCENT", part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(pct))
		if err != nil {
			return nil, fmt.Errorf("coupon %q: percent must be number: %w", part, err)
		}
		percents[code] = n
	}
	return NewRegistry(percents)
}

// 大文字化＋trimしたコードで引く。無ければ false。
func (r *Registry) Lookup(code string) (model.Coupon, bool) {
	key := normalizeCode(code)
	pct, ok := r.percents[key]
	if !ok || key == "" {
		return model.Coupon{}, false
	}
	return model.Coupon{Code: key, Percent: pct}, true
}

func (r *Registry) Len() int {
	return len(r.percents)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
