// Package suggest fetches relevance hints (product IDs judged relevant to a
// free-text query) from a language-model service and tracks which hint set
// belongs to the query currently on screen.
package suggest

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

var ErrDisabled = errors.New("suggestions disabled")

// Provider returns product IDs relevant to query. An empty result is valid.
type Provider interface {
	Suggest(ctx context.Context, query string, products []model.ProductSummary) ([]string, error)
}

// NoopProvider is used when no model API key is configured.
type NoopProvider struct{}

func (NoopProvider) Suggest(context.Context, string, []model.ProductSummary) ([]string, error) {
	return nil, nil
}

func (NoopProvider) Describe(context.Context, string, model.Category) (string, error) {
	return "", ErrDisabled
}

// 在庫に存在するIDだけを重複なしで残す
func knownIDs(ids []string, products []model.ProductSummary) []string {
	known := make(map[string]struct{}, len(products))
	for _, p := range products {
		known[p.ID] = struct{}{}
	}
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
