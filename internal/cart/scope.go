package cart

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// リクエストコンテキストに束縛するキー
const ContextKey = "cart_store"

// FromContext は束縛済みのストアを返す。
// 束縛スコープ外からの取得はプログラミングエラーなのでpanicさせる
// （黙ってデフォルトを返さない）。
func FromContext(c echo.Context) *Store {
	s, ok := c.Get(ContextKey).(*Store)
	if !ok || s == nil {
		panic("cart: store requested outside of a bound scope")
	}
	return s
}

// Manager はスコープキー（テナント＋セッション）ごとにストアを1つだけ持つ。
// 生成時に非同期で復元を開始する。
type Manager struct {
	mu        sync.Mutex
	entries   map[string]*entry
	persister Persister
	idleTTL   time.Duration
}

type entry struct {
	store    *Store
	lastSeen time.Time
}

func NewManager(p Persister, idleTTL time.Duration) *Manager {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &Manager{
		entries:   map[string]*entry{},
		persister: p,
		idleTTL:   idleTTL,
	}
}

// Get はスコープキーに対応するストアを返す。無ければ作って復元を始める。
// seed は新規作成時のみ反映される（復元成功時は復元結果が優先）。
func (m *Manager) Get(scopeKey string, seed []Item) *Store {
	m.mu.Lock()
	if e, ok := m.entries[scopeKey]; ok {
		e.lastSeen = time.Now()
		s := e.store
		m.mu.Unlock()
		return s
	}

	s := New(
		WithSeed(seed),
		WithPersister(m.persister),
		WithScopeKey(scopeKey),
	)
	m.entries[scopeKey] = &entry{store: s, lastSeen: time.Now()}
	m.mu.Unlock()

	// ストアはリクエストより長生きするのでリクエストのctxは使わない
	go s.Hydrate(context.Background())

	return s
}

// Sweep はidleTTLを超えて触られていないストアを落とす。戻り値は削除件数。
// 明細はミューテーションごとに書き込み済みなので、落としても次回復元できる。
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, e := range m.entries {
		if now.Sub(e.lastSeen) > m.idleTTL {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// StartJanitor は定期Sweepを回す。ctxのキャンセルで止まる。
func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				m.Sweep(now)
			}
		}
	}()
}

// Len は保持中のストア数（監視・テスト用）。
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
