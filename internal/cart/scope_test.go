package cart_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/cart"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test: selectorで選んだ値が変わった時だけ通知される
func TestWatchFiresOnSelectedChangeOnly(t *testing.T) {
	s := cart.New()

	var openChanges []bool
	cancel := cart.Watch(s, func(snap cart.Snapshot) bool {
		return snap.IsOpen
	}, func(open bool) {
		openChanges = append(openChanges, open)
	})
	defer cancel()

	// isOpenと無関係な変更では発火しない
	s.AddItem(item(1, 1, "100"))
	s.SetError("x")
	assert.Empty(t, openChanges)

	s.SetCartOpen(true)
	s.SetCartOpen(true) // 同じ値なので発火しない
	s.ToggleCart()

	assert.Equal(t, []bool{true, false}, openChanges)
}

// Test: 合成selector（構造体）も値比較で判定される
func TestWatchCompositeSelector(t *testing.T) {
	type badge struct {
		Count int64
		Empty bool
	}

	s := cart.New()

	fired := 0
	cancel := cart.Watch(s, func(snap cart.Snapshot) badge {
		return badge{Count: snap.Totals.TotalItems, Empty: snap.Totals.IsEmpty()}
	}, func(badge) {
		fired++
	})
	defer cancel()

	s.AddItem(item(1, 2, "100"))
	assert.Equal(t, 1, fired)

	// 数量が変わらない変更では発火しない
	s.SetCartOpen(true)
	assert.Equal(t, 1, fired)

	s.UpdateQuantity(1, 5)
	assert.Equal(t, 2, fired)
}

// Test: 購読解除後は通知されない
func TestWatchCancel(t *testing.T) {
	s := cart.New()

	fired := 0
	cancel := cart.Watch(s, func(snap cart.Snapshot) int64 {
		return snap.Totals.TotalItems
	}, func(int64) {
		fired++
	})

	s.AddItem(item(1, 1, "100"))
	cancel()
	s.AddItem(item(1, 1, "100"))

	assert.Equal(t, 1, fired)
}

// Test: 束縛スコープ外でのFromContextはpanic（黙ってデフォルトを返さない）
func TestFromContextPanicsOutsideScope(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Panics(t, func() {
		cart.FromContext(c)
	})
}

// Test: 束縛済みならFromContextはそのストアを返す
func TestFromContextReturnsBoundStore(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	s := cart.New()
	c.Set(cart.ContextKey, s)

	assert.Same(t, s, cart.FromContext(c))
}

// Test: Managerは同じスコープキーに同じストアを返す
func TestManagerReturnsSameStorePerKey(t *testing.T) {
	mgr := cart.NewManager(newFakePersister(), time.Minute)

	a := mgr.Get("cart:demo:s1", nil)
	b := mgr.Get("cart:demo:s1", nil)
	other := mgr.Get("cart:demo:s2", nil)

	assert.Same(t, a, b)
	assert.NotSame(t, a, other)
	assert.Equal(t, 2, mgr.Len())
}

// Test: Sweepで放置ストアが落ち、次のGetでスナップショットから復元される
func TestManagerSweepAndRestore(t *testing.T) {
	fp := newFakePersister()
	mgr := cart.NewManager(fp, time.Minute)

	s := mgr.Get("cart:demo:s1", nil)
	<-s.Ready()
	s.AddItem(item(1, 2, "100"))

	// 書き込み完了を待ってから落とす
	require.Eventually(t, func() bool {
		return fp.saveCount() >= 1
	}, time.Second, 10*time.Millisecond)

	removed := mgr.Sweep(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, mgr.Len())

	restored := mgr.Get("cart:demo:s1", nil)
	assert.NotSame(t, s, restored)

	<-restored.Ready()
	snap := restored.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, int64(2), snap.Items[0].Quantity)
}
