package ivmap

import "golang.org/x/exp/constraints"

// Pair is a single key-value item of a batch load.
type Pair[K, V any] struct {
	Key K
	Val V
}

// Assigner is anything accepting range writes, e.g. *Map.
type Assigner[K, V any] interface {
	Assign(begin, end K, val V) error
}

// Load assigns every pair to the unit range [key, key+1) in the given order.
// It stops at the first failure and returns it as a *LoadError. A key at the top of
// its type has no successor and fails with ErrInvalidRange.
func Load[K constraints.Integer, V any](dst Assigner[K, V], pairs ...Pair[K, V]) error {
	return LoadFunc(dst, successor[K], pairs...)
}

// LoadFunc is Load for keys without arithmetic: next returns the successor of a key.
func LoadFunc[K, V any](dst Assigner[K, V], next func(K) K, pairs ...Pair[K, V]) error {
	for i, pair := range pairs {
		if err := dst.Assign(pair.Key, next(pair.Key), pair.Val); err != nil {
			return &LoadError{Index: i, Key: pair.Key, Err: err}
		}
	}
	return nil
}

func successor[K constraints.Integer](key K) K {
	return key + 1
}
