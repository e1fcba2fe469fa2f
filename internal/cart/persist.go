package cart

import (
	"context"
	"errors"
	"log"
)

// Persister はカートスナップショットの永続化の約束。
type Persister interface {
	Load(ctx context.Context, key string) ([]Item, error)
	Save(ctx context.Context, key string, items []Item) error
	Delete(ctx context.Context, key string) error
}

// 保存済みスナップショットが無い
var ErrNoSnapshot = errors.New("no snapshot")

// Hydrate は保存済みスナップショットを一度だけ復元する。
// 成否に関わらず isLoading は必ず一度だけ false になり、以後 true へは戻らない。
// 復元の失敗は呼び出し元へ伝播させない（ログに残して復元前の状態のまま進む）。
func (s *Store) Hydrate(ctx context.Context) {
	s.hydrateOnce.Do(func() {
		defer s.finishLoading()

		if s.persister == nil || s.scopeKey == "" {
			return
		}

		items, err := s.persister.Load(ctx, s.scopeKey)
		if errors.Is(err, ErrNoSnapshot) {
			return
		}
		if err != nil {
			log.Printf("cart: restore failed key=%s: %v", s.scopeKey, err)
			return
		}

		s.mu.Lock()
		s.items = items
		s.mu.Unlock()
	})
}

func (s *Store) finishLoading() {
	s.mu.Lock()
	s.isLoading = false
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.readyOnce.Do(func() { close(s.ready) })
	s.notify(snap)
}

// Ready は復元完了（成否問わず）でcloseされるチャネルを返す。
// isLoading をポーリングせずに待てるようにするための口。
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}
