package cart_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront/internal/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// テスト用のインメモリPersister
type fakePersister struct {
	mu        sync.Mutex
	snapshots map[string][]cart.Item
	loadErr   error
	saveErr   error
	saves     int
	deletes   int
}

func newFakePersister() *fakePersister {
	return &fakePersister{snapshots: map[string][]cart.Item{}}
}

func (f *fakePersister) Load(ctx context.Context, key string) ([]cart.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	items, ok := f.snapshots[key]
	if !ok {
		return nil, cart.ErrNoSnapshot
	}
	return append([]cart.Item(nil), items...), nil
}

func (f *fakePersister) Save(ctx context.Context, key string, items []cart.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.snapshots[key] = append([]cart.Item(nil), items...)
	f.saves++
	return nil
}

func (f *fakePersister) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.snapshots, key)
	f.deletes++
	return nil
}

func (f *fakePersister) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func (f *fakePersister) deleteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deletes
}

func (f *fakePersister) snapshot(key string) []cart.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]cart.Item(nil), f.snapshots[key]...)
}

const testKey = "cart:demo:session-1"

// Test: 復元前はisLoading、復元後にfalseになり保存済み明細が入る
func TestHydrateRestoresSnapshot(t *testing.T) {
	fp := newFakePersister()
	fp.snapshots[testKey] = []cart.Item{item(3, 1, "30")}

	s := cart.New(cart.WithPersister(fp), cart.WithScopeKey(testKey))
	assert.True(t, s.Snapshot().IsLoading)

	s.Hydrate(context.Background())

	snap := s.Snapshot()
	assert.False(t, snap.IsLoading)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, int64(3), snap.Items[0].ProductID)
	assert.Equal(t, int64(1), snap.Items[0].Quantity)
	assert.True(t, snap.Items[0].Price.Equal(dec("30")))
}

// Test: スナップショットが無ければseedのまま、isLoadingはfalseになる
func TestHydrateNoSnapshotKeepsSeed(t *testing.T) {
	fp := newFakePersister()
	seed := []cart.Item{item(7, 2, "10")}

	s := cart.New(cart.WithSeed(seed), cart.WithPersister(fp), cart.WithScopeKey(testKey))
	s.Hydrate(context.Background())

	snap := s.Snapshot()
	assert.False(t, snap.IsLoading)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, int64(7), snap.Items[0].ProductID)
}

// Test: 復元失敗でもisLoadingは必ずfalseになり、エラーは伝播しない
func TestHydrateFailureStillFinishesLoading(t *testing.T) {
	fp := newFakePersister()
	fp.loadErr = errors.New("storage broken")

	s := cart.New(cart.WithPersister(fp), cart.WithScopeKey(testKey))

	assert.NotPanics(t, func() {
		s.Hydrate(context.Background())
	})

	snap := s.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.Empty(t, snap.Items)
}

// Test: Hydrateは一度だけ。二回目以降は何もしない
func TestHydrateRunsOnce(t *testing.T) {
	fp := newFakePersister()
	fp.snapshots[testKey] = []cart.Item{item(3, 1, "30")}

	s := cart.New(cart.WithPersister(fp), cart.WithScopeKey(testKey))
	s.Hydrate(context.Background())

	// 復元後に明細を変えて再Hydrateしても巻き戻らない
	s.AddItem(item(4, 1, "40"))
	s.Hydrate(context.Background())

	snap := s.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.Len(t, snap.Items, 2)
}

// Test: Readyは復元完了でcloseされる
func TestReadyChannel(t *testing.T) {
	fp := newFakePersister()
	s := cart.New(cart.WithPersister(fp), cart.WithScopeKey(testKey))

	select {
	case <-s.Ready():
		t.Fatal("ready before hydrate")
	default:
	}

	s.Hydrate(context.Background())

	select {
	case <-s.Ready():
	case <-time.After(time.Second):
		t.Fatal("ready not closed after hydrate")
	}
}

// Test: ミューテーションのたびにスナップショットが書き込まれる
func TestMutationPersistsSnapshot(t *testing.T) {
	fp := newFakePersister()
	s := cart.New(cart.WithPersister(fp), cart.WithScopeKey(testKey))
	s.Hydrate(context.Background())

	s.AddItem(item(1, 2, "100"))

	// 書き込みはfire-and-forgetなので完了を待つ
	require.Eventually(t, func() bool {
		return fp.saveCount() >= 1
	}, time.Second, 10*time.Millisecond)

	saved := fp.snapshot(testKey)
	require.Len(t, saved, 1)
	assert.Equal(t, int64(2), saved[0].Quantity)
}

// Test: 空になったらスナップショットは削除される
func TestClearDeletesSnapshot(t *testing.T) {
	fp := newFakePersister()
	s := cart.New(cart.WithPersister(fp), cart.WithScopeKey(testKey))
	s.Hydrate(context.Background())

	s.AddItem(item(1, 1, "100"))
	s.ClearCart()

	require.Eventually(t, func() bool {
		return fp.deleteCount() >= 1
	}, time.Second, 10*time.Millisecond)

	assert.Empty(t, fp.snapshot(testKey))
}

// Test: 書き込み失敗はメモリ上の変更を巻き戻さず、errorフラグに載るだけ
func TestSaveFailureIsNonFatal(t *testing.T) {
	fp := newFakePersister()
	fp.saveErr = errors.New("storage broken")

	s := cart.New(cart.WithPersister(fp), cart.WithScopeKey(testKey))
	s.Hydrate(context.Background())

	assert.NotPanics(t, func() {
		s.AddItem(item(1, 1, "100"))
	})

	// 明細は残る
	assert.Len(t, s.Snapshot().Items, 1)

	// エラーフラグが立つ
	require.Eventually(t, func() bool {
		return s.Snapshot().Err != ""
	}, time.Second, 10*time.Millisecond)
}
