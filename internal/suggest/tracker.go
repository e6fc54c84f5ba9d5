package suggest

import (
	"context"
	"sync"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/domain/model"

	"go.uber.org/zap"
)

const (
	DefaultDebounce = 500 * time.Millisecond
	DefaultTimeout  = 10 * time.Second

	// minQueryLen: これ以下の長さのクエリでは問い合わせない
	minQueryLen = 3
)

type TrackerOptions struct {
	Debounce time.Duration
	Timeout  time.Duration
}

// Tracker owns the hint set for one session's search box.
// Each query change bumps a token; a fetch result is kept only if its token
// is still current when it resolves, so out-of-order responses are dropped.
type Tracker struct {
	provider Provider
	debounce time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	mu         sync.Mutex
	query      string
	token      uint64
	hints      catalog.HintSet
	hintsToken uint64
	timer      *time.Timer
	cancel     context.CancelFunc
	stopped    bool
}

func NewTracker(p Provider, opts TrackerOptions, logger *zap.Logger) *Tracker {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Tracker{
		provider: p,
		debounce: opts.Debounce,
		timeout:  opts.Timeout,
		logger:   logger,
	}
}

// Observe records the current query. Unchanged queries are ignored.
func (t *Tracker) Observe(query string, products []model.ProductSummary) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || query == t.query {
		return
	}
	t.query = query
	t.token++
	t.cancelPendingLocked()

	if len([]rune(query)) <= minQueryLen {
		return
	}

	tok := t.token
	snapshot := append([]model.ProductSummary(nil), products...)
	t.timer = time.AfterFunc(t.debounce, func() {
		t.fetch(tok, query, snapshot)
	})
}

func (t *Tracker) fetch(tok uint64, query string, products []model.ProductSummary) {
	t.mu.Lock()
	if t.stopped || tok != t.token {
		t.mu.Unlock()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	t.cancel = cancel
	t.mu.Unlock()
	defer cancel()

	ids, err := t.provider.Suggest(ctx, query, products)
	if err != nil {
		t.logger.Warn("relevance hint fetch failed", zap.String("query", query), zap.Error(err))
		ids = nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || tok != t.token {
		t.logger.Debug("stale relevance hints discarded",
			zap.Uint64("token", tok), zap.Uint64("current", t.token))
		return
	}
	t.hints = catalog.NewHintSet(ids...)
	t.hintsToken = tok
	t.cancel = nil
}

// Hints returns a copy of the hint set for the current query, or an empty set.
func (t *Tracker) Hints() catalog.HintSet {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := catalog.HintSet{}
	if t.hintsToken != t.token {
		return out
	}
	for id := range t.hints {
		out[id] = struct{}{}
	}
	return out
}

func (t *Tracker) Query() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.query
}

// テスト用: 現在の世代トークン
func (t *Tracker) currentToken() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

// Stop cancels pending work. Hints stays empty afterwards.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.token++
	t.cancelPendingLocked()
}

func (t *Tracker) cancelPendingLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
