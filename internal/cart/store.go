package cart

import (
	"context"
	"log"
	"sync"
)

// Snapshot は読み取り専用のカート状態コピー。
// 集計値はコピー時点の items から計算し直す。
type Snapshot struct {
	Items     []Item
	IsOpen    bool
	IsLoading bool
	Err       string
	Totals    Totals
}

// Store はセッション1つにつき1個のカート状態コンテナ。
// 変更は必ず名前付きの操作を通す。パッケージレベルの共有インスタンスは作らない。
type Store struct {
	mu        sync.Mutex
	items     []Item
	isOpen    bool
	isLoading bool
	err       string

	scopeKey  string
	persister Persister

	hydrateOnce sync.Once
	readyOnce   sync.Once
	ready       chan struct{}

	listeners map[int]func(Snapshot)
	nextSubID int
}

type Option func(*Store)

// サーバー側で初期状態を注入する（SSR相当のseed）
func WithSeed(items []Item) Option {
	return func(s *Store) {
		s.items = append([]Item(nil), items...)
	}
}

func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

// 永続化キー（cart:<tenant>:<session> 形式）
func WithScopeKey(key string) Option {
	return func(s *Store) { s.scopeKey = key }
}

// New はストアを生成する。復元が終わるまで isLoading は true。
func New(opts ...Option) *Store {
	s := &Store{
		isLoading: true,
		ready:     make(chan struct{}),
		listeners: map[int]func(Snapshot){},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AddItem は明細を追加する。同一商品は数量加算。
// 数量1未満は無視（追加で数量が0以下になることはない）。
func (s *Store) AddItem(it Item) {
	if it.Quantity < 1 {
		return
	}

	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ProductID == it.ProductID {
			s.items[i].Quantity += it.Quantity
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, it)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.afterItemsChanged(snap)
}

// RemoveItem は明細を削除する。無ければ何もしない（エラーにしない）。
func (s *Store) RemoveItem(productID int64) {
	s.mu.Lock()
	removed := false
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			removed = true
			break
		}
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if removed {
		s.afterItemsChanged(snap)
	}
}

// UpdateQuantity は数量を置き換える（加算ではない）。
// 0以下は削除と同じ扱い。明細が無ければ何もしない。
func (s *Store) UpdateQuantity(productID int64, quantity int64) {
	if quantity <= 0 {
		s.RemoveItem(productID)
		return
	}

	s.mu.Lock()
	updated := false
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			updated = true
			break
		}
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if updated {
		s.afterItemsChanged(snap)
	}
}

// ClearCart は明細を全削除する。isOpen は変えない。
func (s *Store) ClearCart() {
	s.mu.Lock()
	s.items = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.afterItemsChanged(snap)
}

// カートパネルの開閉（UIフラグのみ）
func (s *Store) ToggleCart() {
	s.mu.Lock()
	s.isOpen = !s.isOpen
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Store) SetCartOpen(open bool) {
	s.mu.Lock()
	s.isOpen = open
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.isLoading = loading
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Store) SetError(msg string) {
	s.mu.Lock()
	s.err = msg
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Store) ClearError() {
	s.SetError("")
}

// Snapshot は現在の状態のコピーを返す。
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return Snapshot{
		Items:     items,
		IsOpen:    s.isOpen,
		IsLoading: s.isLoading,
		Err:       s.err,
		Totals:    CalcTotals(items),
	}
}

// 明細が変わったら購読者へ通知し、スナップショットを書き込む
func (s *Store) afterItemsChanged(snap Snapshot) {
	s.notify(snap)
	s.persistAsync(snap.Items)
}

// 永続化はfire-and-forget。失敗してもメモリ上の変更は巻き戻さない。
func (s *Store) persistAsync(items []Item) {
	if s.persister == nil || s.scopeKey == "" {
		return
	}
	go func() {
		var err error
		if len(items) == 0 {
			err = s.persister.Delete(context.Background(), s.scopeKey)
		} else {
			err = s.persister.Save(context.Background(), s.scopeKey, items)
		}
		if err != nil {
			log.Printf("cart: save failed key=%s: %v", s.scopeKey, err)
			s.SetError("cart save failed")
		}
	}()
}

func (s *Store) subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// 購読者への通知はロック外で行う（通知先がSnapshot等を呼べるように）
func (s *Store) notify(snap Snapshot) {
	s.mu.Lock()
	fns := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
