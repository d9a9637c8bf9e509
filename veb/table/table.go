// Package table implements an ordered integer-keyed table as a 256-way bitmap trie.
//
// A key is mapped onto an uint64 preserving its order (the sign bit of signed kinds
// is flipped) and then consumed one byte per level, most significant byte first.
// Every node keeps a 256-bit bitmap of the bytes present below it; its children (or
// values on the last level) are stored densely and addressed by the popcount rank of
// the byte within the bitmap.
//
// Empty nodes are pruned on deletion, so every node but the root holds a key.
package table

import (
	"cmp"

	"github.com/hideo55/go-popcount"
	"golang.org/x/exp/constraints"
)

const (
	levels  = 8 // one level per key byte
	leaf    = levels - 1
	signBit = uint64(1) << 63
)

type Node[V any] struct {
	bitmap   [4]uint64 // 256 bits representing 2**8 entries
	children []*Node[V]
	values   []V // leaf level only
}

type Table[K constraints.Integer, V any] struct {
	root *Node[V]
	size int
}

func New[K constraints.Integer, V any]() *Table[K, V] {
	return &Table[K, V]{
		root: &Node[V]{},
	}
}

// Len returns the number of stored keys.
func (t *Table[K, V]) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

func (t *Table[K, V]) Compare(a, b K) int {
	return cmp.Compare(a, b)
}

// Get returns the value stored under the key.
func (t *Table[K, V]) Get(key K) (val V, ok bool) {
	u := encode(key)
	n := t.root

	for level := 0; level < leaf; level++ {
		b := keyByte(u, level)
		if !n.has(b) {
			return // underlying nodes don't have it
		}
		n = n.children[n.rank(b)]
	}

	if b := keyByte(u, leaf); n.has(b) {
		return n.values[n.rank(b)], true
	}

	return
}

// Set associates the value with the key replacing a previous one.
func (t *Table[K, V]) Set(key K, val V) {
	u := encode(key)
	n := t.root

	for level := 0; level < leaf; level++ {
		b := keyByte(u, level)
		idx := n.rank(b)
		if !n.has(b) {
			n.mark(b)
			n.children = insertAt(n.children, idx, &Node[V]{})
		}
		n = n.children[idx]
	}

	b := keyByte(u, leaf)
	idx := n.rank(b)

	if n.has(b) {
		n.values[idx] = val
		return
	}

	n.mark(b)
	n.values = insertAt(n.values, idx, val)
	t.size++
}

// Delete removes the key and reports whether it was present.
func (t *Table[K, V]) Delete(key K) bool {
	return t.delete(encode(key))
}

// Floor returns the entry with the greatest key less or equal to key.
func (t *Table[K, V]) Floor(key K) (K, V, bool) {
	return found[K](floorIn(t.root, encode(key), 0))
}

// Lower returns the entry with the greatest key strictly less than key.
func (t *Table[K, V]) Lower(key K) (K, V, bool) {
	u := encode(key)
	if u == 0 {
		var val V
		return 0, val, false
	}
	return found[K](floorIn(t.root, u-1, 0))
}

// Ceil returns the entry with the least key greater or equal to key.
func (t *Table[K, V]) Ceil(key K) (K, V, bool) {
	return found[K](ceilIn(t.root, encode(key), 0))
}

// DeleteRange removes all keys within [lo, hi] and reports how many were removed.
func (t *Table[K, V]) DeleteRange(lo, hi K) (num int) {
	from, to := encode(lo), encode(hi)

	for from <= to {
		u, _, ok := ceilIn(t.root, from, 0)
		if !ok || u > to {
			break
		}
		t.delete(u)
		num++
		if u == ^uint64(0) {
			break // the very last key
		}
		from = u + 1
	}

	return num
}

// Ascend calls fn for all entries in the key order until fn returns false.
// It returns whether all entries were visited.
func (t *Table[K, V]) Ascend(fn func(key K, val V) bool) bool {
	return ascendIn(t.root, 0, 0, func(u uint64, val V) bool {
		return fn(decode[K](u), val)
	})
}

func found[K constraints.Integer, V any](u uint64, val V, ok bool) (K, V, bool) {
	if !ok {
		return 0, val, false
	}
	return decode[K](u), val, true
}

func (t *Table[K, V]) delete(u uint64) bool {
	var path [levels]*Node[V]

	n := t.root
	for level := 0; ; level++ {
		b := keyByte(u, level)
		if !n.has(b) {
			return false
		}
		path[level] = n
		if level == leaf {
			break
		}
		n = n.children[n.rank(b)]
	}

	// unlink bottom-up while nodes become empty
	for level := leaf; level >= 0; level-- {
		n := path[level]
		b := keyByte(u, level)
		idx := n.rank(b)
		if level == leaf {
			n.values = removeAt(n.values, idx)
		} else {
			n.children = removeAt(n.children, idx)
		}
		n.unmark(b)
		if !n.empty() {
			break
		}
	}

	t.size--

	return true
}

// floorIn looks for the greatest key <= u below the node n sitting on the level.
func floorIn[V any](n *Node[V], u uint64, level int) (uint64, V, bool) {
	b := keyByte(u, level)

	if n.has(b) {
		if level == leaf {
			return u, n.values[n.rank(b)], true
		}
		if k, val, ok := floorIn(n.children[n.rank(b)], u, level+1); ok {
			return k, val, true
		}
	}

	p, ok := n.prev(b)
	if !ok {
		var val V
		return 0, val, false
	}

	k := u&^lowMask(level) | uint64(p)<<shift(level)
	if level == leaf {
		return k, n.values[n.rank(p)], true
	}

	k, val := maxIn(n.children[n.rank(p)], k, level+1)

	return k, val, true
}

// ceilIn looks for the least key >= u below the node n sitting on the level.
func ceilIn[V any](n *Node[V], u uint64, level int) (uint64, V, bool) {
	b := keyByte(u, level)

	if n.has(b) {
		if level == leaf {
			return u, n.values[n.rank(b)], true
		}
		if k, val, ok := ceilIn(n.children[n.rank(b)], u, level+1); ok {
			return k, val, true
		}
	}

	p, ok := n.next(b)
	if !ok {
		var val V
		return 0, val, false
	}

	k := u&^lowMask(level) | uint64(p)<<shift(level)
	if level == leaf {
		return k, n.values[n.rank(p)], true
	}

	k, val := minIn(n.children[n.rank(p)], k, level+1)

	return k, val, true
}

// maxIn descends along the greatest bytes of a non-empty node.
func maxIn[V any](n *Node[V], k uint64, level int) (uint64, V) {
	for {
		b, _ := n.last()
		k |= uint64(b) << shift(level)
		if level == leaf {
			return k, n.values[n.rank(b)]
		}
		n = n.children[n.rank(b)]
		level++
	}
}

// minIn descends along the least bytes of a non-empty node.
func minIn[V any](n *Node[V], k uint64, level int) (uint64, V) {
	for {
		b, _ := n.first()
		k |= uint64(b) << shift(level)
		if level == leaf {
			return k, n.values[n.rank(b)]
		}
		n = n.children[n.rank(b)]
		level++
	}
}

func ascendIn[V any](n *Node[V], k uint64, level int, fn func(uint64, V) bool) bool {
	idx := 0

	for ofs, bmp := range n.bitmap {
		for ; bmp != 0; bmp &= bmp - 1 {
			key := k | uint64(ofs<<6+lowest(bmp))<<shift(level)
			if level == leaf {
				if !fn(key, n.values[idx]) {
					return false
				}
			} else if !ascendIn(n.children[idx], key, level+1, fn) {
				return false
			}
			idx++
		}
	}

	return true
}

func (n *Node[V]) has(b byte) bool {
	return n.bitmap[b>>6]>>(b&0x3F)&1 != 0
}

func (n *Node[V]) mark(b byte) {
	n.bitmap[b>>6] |= uint64(1) << (b & 0x3F)
}

func (n *Node[V]) unmark(b byte) {
	n.bitmap[b>>6] &^= uint64(1) << (b & 0x3F)
}

func (n *Node[V]) empty() bool {
	return n.bitmap[0]|n.bitmap[1]|n.bitmap[2]|n.bitmap[3] == 0
}

// rank counts the bytes present below b, i.e. the index of b's child.
func (n *Node[V]) rank(b byte) int {
	ofs := b >> 6
	cnt := popcount.Count(n.bitmap[ofs] & (uint64(1)<<(b&0x3F) - 1))
	for j := byte(0); j < ofs; j++ {
		cnt += popcount.Count(n.bitmap[j])
	}
	return int(cnt)
}

// prev returns the greatest present byte strictly less than b.
func (n *Node[V]) prev(b byte) (byte, bool) {
	ofs := int(b >> 6)
	if bmp := n.bitmap[ofs] & (uint64(1)<<(b&0x3F) - 1); bmp != 0 {
		return byte(ofs<<6 + highest(bmp)), true
	}
	for j := ofs - 1; j >= 0; j-- {
		if bmp := n.bitmap[j]; bmp != 0 {
			return byte(j<<6 + highest(bmp)), true
		}
	}
	return 0, false
}

// next returns the least present byte strictly greater than b.
func (n *Node[V]) next(b byte) (byte, bool) {
	ofs := int(b >> 6)
	// keep the bits above b (for b&0x3F == 63 the mask covers the whole word)
	if bmp := n.bitmap[ofs] &^ (uint64(2)<<(b&0x3F) - 1); bmp != 0 {
		return byte(ofs<<6 + lowest(bmp)), true
	}
	for j := ofs + 1; j < len(n.bitmap); j++ {
		if bmp := n.bitmap[j]; bmp != 0 {
			return byte(j<<6 + lowest(bmp)), true
		}
	}
	return 0, false
}

func (n *Node[V]) first() (byte, bool) {
	for j, bmp := range n.bitmap {
		if bmp != 0 {
			return byte(j<<6 + lowest(bmp)), true
		}
	}
	return 0, false
}

func (n *Node[V]) last() (byte, bool) {
	for j := len(n.bitmap) - 1; j >= 0; j-- {
		if bmp := n.bitmap[j]; bmp != 0 {
			return byte(j<<6 + highest(bmp)), true
		}
	}
	return 0, false
}

// highest returns the index of the most significant set bit (bmp != 0).
func highest(bmp uint64) int {
	bmp |= bmp >> 1
	bmp |= bmp >> 2
	bmp |= bmp >> 4
	bmp |= bmp >> 8
	bmp |= bmp >> 16
	bmp |= bmp >> 32
	return int(popcount.Count(bmp)) - 1
}

// lowest returns the index of the least significant set bit (bmp != 0).
func lowest(bmp uint64) int {
	return int(popcount.Count(bmp&-bmp - 1))
}

func shift(level int) uint {
	return uint(56 - 8*level)
}

func keyByte(u uint64, level int) byte {
	return byte(u >> shift(level))
}

// lowMask covers the key bytes from the level down to the leaf.
func lowMask(level int) uint64 {
	return uint64(1)<<(64-8*uint(level)) - 1
}

func encode[K constraints.Integer](key K) uint64 {
	if signed[K]() {
		return uint64(int64(key)) ^ signBit
	}
	return uint64(key)
}

func decode[K constraints.Integer](u uint64) K {
	if signed[K]() {
		return K(int64(u ^ signBit))
	}
	return K(u)
}

func signed[K constraints.Integer]() bool {
	var zero K
	return ^zero < zero
}

func insertAt[T any](s []T, idx int, item T) []T {
	var zero T
	s = append(s, zero)
	copy(s[idx+1:], s[idx:])
	s[idx] = item
	return s
}

func removeAt[T any](s []T, idx int) []T {
	var zero T
	copy(s[idx:], s[idx+1:])
	s[len(s)-1] = zero
	return s[:len(s)-1]
}
