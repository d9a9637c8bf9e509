package ivmap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lookups renders the values of the keys within [from, to).
func lookups(m *Map[int, string], from, to int) map[int]string {
	res := make(map[int]string, to-from)
	for key := from; key < to; key++ {
		res[key] = m.Lookup(key)
	}
	return res
}

// expect builds the expected lookups out of [begin, end) -> val runs.
func expect(from, to int, runs ...Span[int, string]) map[int]string {
	res := make(map[int]string, to-from)
	for key := from; key < to; key++ {
		for _, run := range runs {
			if run.Open || key >= run.Begin {
				res[key] = run.Val
			}
		}
	}
	return res
}

func TestNew(t *testing.T) {
	t.Parallel()

	m := New[int, string]("X")

	require.NotNil(t, m)
	assert.Equal(t, "X", m.Baseline())
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Transitions())
	assert.Equal(t, "ivmap{X}", m.String())
}

func TestLookup_Empty(t *testing.T) {
	t.Parallel()

	m := New[int64, rune]('X')

	for _, key := range []int64{-1 << 62, -1, 0, 1, 1 << 62} {
		assert.Equal(t, 'X', m.Lookup(key), key)
	}
}

func TestAssign_Covers(t *testing.T) {
	t.Parallel()

	m := New[int, string]("X")

	require.NoError(t, m.Assign(10, 20, "A"))

	assert.Equal(t, "X", m.Lookup(9))
	for key := 10; key < 20; key++ {
		assert.Equal(t, "A", m.Lookup(key), key)
	}
	assert.Equal(t, []Transition[int, string]{{10, "A"}, {20, "A"}}, m.Transitions())
}

func TestAssign_InvalidRange(t *testing.T) {
	t.Parallel()

	m := New[int, string]("X")
	require.NoError(t, m.Assign(1, 3, "B"))

	before := m.Transitions()

	for _, tcase := range []*struct {
		Begin, End int
	}{
		{0, 0},
		{1, 1},
		{5, 5},
		{4, 3},
		{3, 1},
		{-1, -10},
	} {
		err := m.Assign(tcase.Begin, tcase.End, "C")

		assert.ErrorIs(t, err, ErrInvalidRange, "[%d, %d)", tcase.Begin, tcase.End)
		assert.Equal(t, before, m.Transitions())
	}
}

func TestAssign_RedundantBoundaryValue(t *testing.T) {
	t.Parallel()

	m := New[int, string]("X")

	err := m.Assign(0, 5, "X")
	require.ErrorIs(t, err, ErrRedundantBoundaryValue)
	assert.Equal(t, 0, m.Len())

	require.NoError(t, m.Assign(1, 2, "A"))

	// nothing is stored below 0 or 1
	assert.ErrorIs(t, m.Assign(0, 1, "X"), ErrRedundantBoundaryValue)
	assert.ErrorIs(t, m.Assign(1, 3, "X"), ErrRedundantBoundaryValue)
	assert.Equal(t, []Transition[int, string]{{1, "A"}, {2, "A"}}, m.Transitions())

	// once something precedes begin the baseline value is fine
	require.NoError(t, m.Assign(5, 6, "X"))
	assert.Equal(t, "X", m.Lookup(5))
}

func TestAssign_DuplicateAdjacentValue(t *testing.T) {
	t.Parallel()

	m := New[int, string]("X")
	require.NoError(t, m.Assign(1, 2, "A"))

	before := m.Transitions()

	for _, tcase := range []*struct {
		Begin, End int
	}{
		{2, 3},   // abuts [1, 2)
		{5, 6},   // 2:A still covers 5
		{2, 100}, // begin at an existing transition
	} {
		err := m.Assign(tcase.Begin, tcase.End, "A")

		assert.ErrorIs(t, err, ErrDuplicateAdjacentValue, "[%d, %d)", tcase.Begin, tcase.End)
		assert.Equal(t, before, m.Transitions())
	}
}

func TestAssign_ErrorPrecedence(t *testing.T) {
	t.Parallel()

	m := New[int, string]("X")

	// an inverted range is reported before the value checks
	assert.ErrorIs(t, m.Assign(3, 3, "X"), ErrInvalidRange)

	require.NoError(t, m.Assign(1, 2, "A"))
	assert.ErrorIs(t, m.Assign(9, 2, "A"), ErrInvalidRange)
}

func TestAssign_Overwrites(t *testing.T) {
	t.Parallel()

	m := New[int, string]("X")
	require.NoError(t, m.Assign(1, 2, "A"))
	require.NoError(t, m.Assign(2, 3, "B"))
	require.NoError(t, m.Assign(5, 8, "C"))

	// swallow every transition within [0, 10]
	require.NoError(t, m.Assign(0, 10, "D"))

	assert.Equal(t, []Transition[int, string]{{0, "D"}, {10, "D"}}, m.Transitions())
	assert.Equal(t, "X", m.Lookup(-1))
	assert.Equal(t, "D", m.Lookup(0))
	assert.Equal(t, "D", m.Lookup(9))
}

func TestAssign_EndIsNotRestored(t *testing.T) {
	t.Parallel()

	m := New[int, string]("X")
	require.NoError(t, m.Assign(0, 10, "A"))
	require.NoError(t, m.Assign(2, 4, "B"))

	// B keeps covering keys past 4 up to the transition at 10
	assert.Equal(t, expect(-2, 12,
		Span[int, string]{Val: "X", Open: true},
		Span[int, string]{Begin: 0, Val: "A"},
		Span[int, string]{Begin: 2, Val: "B"},
		Span[int, string]{Begin: 10, Val: "A"},
	), lookups(m, -2, 12))
}

func TestScenario_Ascending(t *testing.T) {
	t.Parallel()

	m := New[int, string]("X")

	err := Load[int, string](m,
		Pair[int, string]{1, "A"},
		Pair[int, string]{2, "B"},
		Pair[int, string]{5, "A"},
		Pair[int, string]{7, "B"},
		Pair[int, string]{44, "F"},
	)
	require.NoError(t, err)

	assert.Equal(t, scenarioA(), lookups(m, -5, 100))
}

func TestScenario_Unordered(t *testing.T) {
	t.Parallel()

	m := New[int, string]("X")

	err := Load[int, string](m,
		Pair[int, string]{44, "F"},
		Pair[int, string]{1, "A"},
		Pair[int, string]{2, "B"},
		Pair[int, string]{5, "A"},
		Pair[int, string]{7, "B"},
	)
	require.NoError(t, err)

	assert.Equal(t, scenarioA(), lookups(m, -5, 100))
}

func scenarioA() map[int]string {
	return expect(-5, 100,
		Span[int, string]{Val: "X", Open: true},
		Span[int, string]{Begin: 1, Val: "A"},
		Span[int, string]{Begin: 2, Val: "B"},
		Span[int, string]{Begin: 5, Val: "A"},
		Span[int, string]{Begin: 7, Val: "B"},
		Span[int, string]{Begin: 44, Val: "F"},
	)
}

func TestScenario_DuplicateInBatch(t *testing.T) {
	t.Parallel()

	m := New[int, string]("X")

	err := Load[int, string](m,
		Pair[int, string]{1, "A"},
		Pair[int, string]{2, "B"},
		Pair[int, string]{3, "A"},
		Pair[int, string]{5, "A"},
	)

	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 3, lerr.Index)
	assert.Equal(t, 5, lerr.Key)
	assert.ErrorIs(t, err, ErrDuplicateAdjacentValue)

	// the pairs before the failure are kept
	assert.Equal(t, "A", m.Lookup(1))
	assert.Equal(t, "B", m.Lookup(2))
	assert.Equal(t, "A", m.Lookup(3))
}

func TestScenario_Ranges(t *testing.T) {
	t.Parallel()

	m := New[int, string]("X")

	require.NoError(t, m.Assign(1, 3, "B"))
	require.NoError(t, m.Assign(3, 4, "A"))
	require.NoError(t, m.Assign(-8, -4, "F"))

	for _, tcase := range []*struct {
		Key    int
		ExpVal string
	}{
		{-9, "X"},
		{-8, "F"},
		{-5, "F"},
		{1, "B"},
		{2, "B"},
		{3, "A"},
	} {
		assert.Equal(t, tcase.ExpVal, m.Lookup(tcase.Key), tcase.Key)
	}

	// the end transitions carry the assigned value
	for key := -4; key < 1; key++ {
		assert.Equal(t, "F", m.Lookup(key), key)
	}
	assert.Equal(t, "A", m.Lookup(4))
	assert.Equal(t, "A", m.Lookup(1000))

	assert.Equal(t, "ivmap{X -8:F -4:F 1:B 3:A 4:A}", m.String())
}

func TestSpans(t *testing.T) {
	t.Parallel()

	m := New[int, string]("X")
	require.NoError(t, Load[int, string](m,
		Pair[int, string]{1, "A"},
		Pair[int, string]{2, "B"},
		Pair[int, string]{5, "A"},
	))

	assert.Equal(t, []Transition[int, string]{
		{1, "A"}, {2, "B"}, {3, "B"}, {5, "A"}, {6, "A"},
	}, m.Transitions())

	assert.Equal(t, []Span[int, string]{
		{Val: "X", Open: true},
		{Begin: 1, Val: "A"},
		{Begin: 2, Val: "B"},
		{Begin: 5, Val: "A"},
	}, m.Spans())

	assert.Equal(t, "ivmap{X 1:A 2:B 3:B 5:A 6:A}", m.String())
}

func TestAscend_Stops(t *testing.T) {
	t.Parallel()

	m := New[int, string]("X")
	require.NoError(t, m.Assign(1, 2, "A"))
	require.NoError(t, m.Assign(5, 6, "B"))

	var keys []int
	done := m.Ascend(func(key int, _ string) bool {
		keys = append(keys, key)
		return len(keys) < 2
	})

	assert.False(t, done)
	assert.Equal(t, []int{1, 2}, keys)
}

func TestNewFunc_Descending(t *testing.T) {
	t.Parallel()

	// keys ordered from the greatest to the least
	m := NewFunc[int, string]("X", func(a, b int) int { return b - a })

	require.NoError(t, m.Assign(10, 5, "A"))
	assert.ErrorIs(t, m.Assign(5, 10, "B"), ErrInvalidRange)

	assert.Equal(t, "X", m.Lookup(11))
	assert.Equal(t, "A", m.Lookup(10))
	assert.Equal(t, "A", m.Lookup(6))
	assert.Equal(t, "A", m.Lookup(5))
	assert.Equal(t, "A", m.Lookup(-100))
}

func TestStringKeys(t *testing.T) {
	t.Parallel()

	m := New[string, int](0)

	require.NoError(t, m.Assign("b", "d", 1))
	require.NoError(t, m.Assign("d", "f", 2))

	for _, tcase := range []*struct {
		Key    string
		ExpVal int
	}{
		{"", 0},
		{"a", 0},
		{"b", 1},
		{"c", 1},
		{"czzz", 1},
		{"d", 2},
		{"e", 2},
		{"f", 2},
	} {
		tcase := tcase

		t.Run(fmt.Sprintf("%q", tcase.Key), func(t *testing.T) {
			assert.Equal(t, tcase.ExpVal, m.Lookup(tcase.Key))
		})
	}
}
