package ivmap

import (
	"cmp"
	"fmt"
	"strings"
)

// Transition is a stored point of change: from Key on the mapped value is Val.
type Transition[K, V any] struct {
	Key K
	Val V
}

// Span is a run of keys sharing one value. It starts at Begin and lasts until the
// Begin of the next span. The first span of a map is Open: it has no lower bound
// and carries the baseline.
type Span[K, V any] struct {
	Begin K
	Val   V
	Open  bool
}

// Map is a canonical interval map. Values are compared with ==, so V must not hold
// dynamic types that panic on comparison (e.g. slices inside an interface).
type Map[K any, V comparable] struct {
	baseline V
	table    Table[K, V]
}

// New returns a Map for naturally ordered keys with every key mapped to baseline.
func New[K cmp.Ordered, V comparable](baseline V) *Map[K, V] {
	return NewWithTable[K, V](baseline, NewBTree[K, V](cmp.Compare[K]))
}

// NewFunc returns a Map whose keys are ordered by compare, which must define a
// total order.
func NewFunc[K any, V comparable](baseline V, compare func(a, b K) int) *Map[K, V] {
	return NewWithTable[K, V](baseline, NewBTree[K, V](compare))
}

// NewWithTable returns a Map storing its transitions in table. The table is expected
// to be empty; whatever it already holds is taken as is.
func NewWithTable[K any, V comparable](baseline V, table Table[K, V]) *Map[K, V] {
	return &Map[K, V]{
		baseline: baseline,
		table:    table,
	}
}

// Baseline returns the value of all keys below the first transition.
func (m *Map[K, V]) Baseline() V {
	return m.baseline
}

// Len returns the number of stored transitions.
func (m *Map[K, V]) Len() int {
	return m.table.Len()
}

// Assign maps every key of [begin, end) to val.
//
// The call fails without touching the map when the range is empty or inverted, or
// when val equals the value right before begin (the baseline if nothing is stored
// below begin).
//
// Both begin and end become transitions carrying val: the value the map held at end
// before the call is not restored, so val keeps covering keys past end up to the
// next transition.
func (m *Map[K, V]) Assign(begin, end K, val V) error {
	if m.table.Compare(begin, end) >= 0 {
		return fmt.Errorf("%w: [%v, %v)", ErrInvalidRange, begin, end)
	}

	// check the value covering the key right before begin
	if _, prev, ok := m.table.Lower(begin); !ok {
		if val == m.baseline {
			return fmt.Errorf("%w: [%v, %v) -> %v", ErrRedundantBoundaryValue, begin, end, val)
		}
	} else if prev == val {
		return fmt.Errorf("%w: [%v, %v) -> %v", ErrDuplicateAdjacentValue, begin, end, val)
	}

	// drop the superseded transitions, end included
	m.table.DeleteRange(begin, end)

	m.table.Set(begin, val)
	m.table.Set(end, val)

	return nil
}

// Lookup returns the value mapped to the key.
func (m *Map[K, V]) Lookup(key K) V {
	if _, val, ok := m.table.Floor(key); ok {
		return val
	}
	return m.baseline
}

// Ascend calls fn for every stored transition in the key order until fn returns false.
// It returns whether all transitions were visited.
func (m *Map[K, V]) Ascend(fn func(key K, val V) bool) bool {
	return m.table.Ascend(fn)
}

// Transitions returns all stored transitions in the key order.
func (m *Map[K, V]) Transitions() []Transition[K, V] {
	items := make([]Transition[K, V], 0, m.table.Len())

	m.table.Ascend(func(key K, val V) bool {
		items = append(items, Transition[K, V]{key, val})
		return true
	})

	return items
}

// Spans returns the runs of equal values, starting with the open baseline span.
// Consecutive transitions carrying the same value are merged.
func (m *Map[K, V]) Spans() []Span[K, V] {
	spans := []Span[K, V]{{Val: m.baseline, Open: true}}

	m.table.Ascend(func(key K, val V) bool {
		if spans[len(spans)-1].Val != val {
			spans = append(spans, Span[K, V]{Begin: key, Val: val})
		}
		return true
	})

	return spans
}

func (m *Map[K, V]) String() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "ivmap{%v", m.baseline)

	m.table.Ascend(func(key K, val V) bool {
		fmt.Fprintf(&buf, " %v:%v", key, val)
		return true
	})

	buf.WriteByte('}')

	return buf.String()
}
