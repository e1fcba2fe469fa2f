package cart

// Watch はselectorで選んだ値が変わった時だけfnを呼ぶ購読。
// 比較は選択結果の値比較（==）。comparableな形だけを選ばせることで、
// ライブラリ任せの浅い比較ではなく明示的な等価判定にする。
// 戻り値で購読を解除する。
//
// 購読者は単一オーナー前提なので、lastの更新に追加のロックは持たない。
func Watch[T comparable](s *Store, sel func(Snapshot) T, fn func(T)) (cancel func()) {
	last := sel(s.Snapshot())

	return s.subscribe(func(snap Snapshot) {
		next := sel(snap)
		if next != last {
			last = next
			fn(next)
		}
	})
}
