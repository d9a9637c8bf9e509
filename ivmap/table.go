package ivmap

import "github.com/google/btree"

// Table is an ordered key-value storage for transition points.
type Table[K, V any] interface {
	// Compare defines the key order: negative when a < b, zero when equal,
	// positive when a > b.
	Compare(a, b K) int

	// Len returns the number of stored keys.
	Len() int

	// Floor returns the entry with the greatest key less or equal to key.
	Floor(key K) (K, V, bool)

	// Lower returns the entry with the greatest key strictly less than key.
	Lower(key K) (K, V, bool)

	// Set stores a value under the key, replacing a previous one.
	Set(key K, val V)

	// DeleteRange removes all keys within [lo, hi] and reports how many were removed.
	DeleteRange(lo, hi K) int

	// Ascend calls fn for every entry in the key order until fn returns false.
	// It returns whether all entries were visited.
	Ascend(fn func(key K, val V) bool) bool
}

const btreeDegree = 16

type entry[K, V any] struct {
	key K
	val V
}

// BTree is the default Table backed by a generic B-tree.
type BTree[K, V any] struct {
	compare func(a, b K) int
	tree    *btree.BTreeG[entry[K, V]]
}

// NewBTree returns an empty B-tree table ordered by compare.
func NewBTree[K, V any](compare func(a, b K) int) *BTree[K, V] {
	less := func(a, b entry[K, V]) bool {
		return compare(a.key, b.key) < 0
	}
	return &BTree[K, V]{
		compare: compare,
		tree:    btree.NewG[entry[K, V]](btreeDegree, less),
	}
}

func (t *BTree[K, V]) Compare(a, b K) int {
	return t.compare(a, b)
}

func (t *BTree[K, V]) Len() int {
	if t == nil {
		return 0
	}
	return t.tree.Len()
}

func (t *BTree[K, V]) Floor(key K) (k K, v V, ok bool) {
	t.tree.DescendLessOrEqual(entry[K, V]{key: key}, func(e entry[K, V]) bool {
		k, v, ok = e.key, e.val, true
		return false
	})
	return
}

func (t *BTree[K, V]) Lower(key K) (k K, v V, ok bool) {
	t.tree.DescendLessOrEqual(entry[K, V]{key: key}, func(e entry[K, V]) bool {
		if t.compare(e.key, key) == 0 {
			return true // skip the exact match
		}
		k, v, ok = e.key, e.val, true
		return false
	})
	return
}

func (t *BTree[K, V]) Set(key K, val V) {
	t.tree.ReplaceOrInsert(entry[K, V]{key: key, val: val})
}

func (t *BTree[K, V]) DeleteRange(lo, hi K) int {
	var doomed []entry[K, V]

	t.tree.AscendGreaterOrEqual(entry[K, V]{key: lo}, func(e entry[K, V]) bool {
		if t.compare(e.key, hi) > 0 {
			return false
		}
		doomed = append(doomed, e)
		return true
	})

	for _, e := range doomed {
		t.tree.Delete(e)
	}

	return len(doomed)
}

func (t *BTree[K, V]) Ascend(fn func(key K, val V) bool) bool {
	all := true

	t.tree.Ascend(func(e entry[K, V]) bool {
		all = fn(e.key, e.val)
		return all
	})

	return all
}
