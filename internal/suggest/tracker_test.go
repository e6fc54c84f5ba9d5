package suggest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type funcProvider struct {
	calls atomic.Int32
	fn    func(ctx context.Context, query string) ([]string, error)
}

func (p *funcProvider) Suggest(ctx context.Context, query string, _ []model.ProductSummary) ([]string, error) {
	p.calls.Add(1)
	return p.fn(ctx, query)
}

func staticProvider(ids ...string) *funcProvider {
	return &funcProvider{fn: func(context.Context, string) ([]string, error) { return ids, nil }}
}

func newTestTracker(p Provider) *Tracker {
	return NewTracker(p, TrackerOptions{Debounce: 10 * time.Millisecond, Timeout: time.Second}, zap.NewNop())
}

func TestTracker_ShortQueryDoesNotFetch(t *testing.T) {
	p := staticProvider("1")
	tr := newTestTracker(p)
	defer tr.Stop()

	tr.Observe("mil", nil)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(0), p.calls.Load())
	assert.Empty(t, tr.Hints())
}

func TestTracker_FetchesAfterDebounce(t *testing.T) {
	p := staticProvider("2", "5")
	tr := newTestTracker(p)
	defer tr.Stop()

	tr.Observe("milk products", nil)

	assert.Eventually(t, func() bool { return len(tr.Hints()) == 2 }, time.Second, 5*time.Millisecond)
	hints := tr.Hints()
	assert.True(t, hints.Has("2"))
	assert.True(t, hints.Has("5"))
}

func TestTracker_DebounceCollapsesRapidChanges(t *testing.T) {
	p := staticProvider("1")
	tr := NewTracker(p, TrackerOptions{Debounce: 40 * time.Millisecond}, zap.NewNop())
	defer tr.Stop()

	tr.Observe("ricee", nil)
	tr.Observe("rice b", nil)
	tr.Observe("rice ba", nil)
	tr.Observe("rice bag", nil)

	assert.Eventually(t, func() bool { return tr.Hints().Has("1") }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestTracker_StaleResultDiscarded(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once
	p := &funcProvider{fn: func(ctx context.Context, query string) ([]string, error) {
		if query == "butter" {
			// 古いリクエストはキャンセルを無視して遅れて返る
			<-release
			return []string{"2"}, nil
		}
		return []string{"3"}, nil
	}}
	tr := newTestTracker(p)
	defer tr.Stop()

	tr.Observe("butter", nil)
	assert.Eventually(t, func() bool { return p.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	tr.Observe("cola drink", nil)
	assert.Eventually(t, func() bool { return tr.Hints().Has("3") }, time.Second, 5*time.Millisecond)

	once.Do(func() { close(release) })
	time.Sleep(30 * time.Millisecond)

	hints := tr.Hints()
	assert.True(t, hints.Has("3"))
	assert.False(t, hints.Has("2"))
}

func TestTracker_HintsHiddenAfterQueryChange(t *testing.T) {
	tr := newTestTracker(staticProvider("4"))
	defer tr.Stop()

	tr.Observe("biscuit", nil)
	assert.Eventually(t, func() bool { return tr.Hints().Has("4") }, time.Second, 5*time.Millisecond)

	tr.Observe("", nil)
	assert.Empty(t, tr.Hints())
}

func TestTracker_SameQueryIsNoop(t *testing.T) {
	p := staticProvider("4")
	tr := newTestTracker(p)
	defer tr.Stop()

	tr.Observe("biscuit", nil)
	assert.Eventually(t, func() bool { return tr.Hints().Has("4") }, time.Second, 5*time.Millisecond)
	tok := tr.currentToken()

	tr.Observe("biscuit", nil)
	assert.Equal(t, tok, tr.currentToken())
	assert.True(t, tr.Hints().Has("4"))
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestTracker_ProviderErrorYieldsEmptySet(t *testing.T) {
	p := &funcProvider{fn: func(context.Context, string) ([]string, error) {
		return nil, errors.New("quota exceeded")
	}}
	tr := newTestTracker(p)
	defer tr.Stop()

	tr.Observe("shampoo", nil)
	assert.Eventually(t, func() bool { return p.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	assert.Empty(t, tr.Hints())
}

func TestTracker_StopCancelsPendingFetch(t *testing.T) {
	p := staticProvider("1")
	tr := NewTracker(p, TrackerOptions{Debounce: 30 * time.Millisecond}, zap.NewNop())

	tr.Observe("basmati", nil)
	tr.Stop()
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, int32(0), p.calls.Load())
	assert.Empty(t, tr.Hints())

	tr.Observe("another", nil)
	assert.Empty(t, tr.Hints())
}
