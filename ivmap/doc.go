// Package ivmap defines a canonical interval map: a mapping from an infinite ordered
// key domain to values which stores only the points where the value changes.
//
// A Map starts with a baseline value covering every key. Assign overwrites a half-open
// range [begin, end) and Lookup reads the value of a single key.
//
// Stored transitions:
// ------------------
//
// A stored entry (k, v) means "every key q with k <= q < next stored key maps to v".
// Keys below the first stored key map to the baseline.
//
//	baseline 'X'
//	transitions  1:'A'  2:'B'  5:'A'  7:'B'  44:'F'
//
//	... -2 -1  0 | 1 | 2  3  4 | 5  6 | 7 ... 43 | 44 ...
//	     X  X  X | A | B  B  B | A  A | B ...  B |  F ...
//
// Canonical form:
// --------------
//
// Assign refuses a write that would make a new range indistinguishable from what
// precedes it:
//
//   - ErrRedundantBoundaryValue - nothing is stored below begin and the value equals
//     the baseline;
//   - ErrDuplicateAdjacentValue - the transition right before begin already carries
//     the value;
//   - ErrInvalidRange - begin is not strictly less than end.
//
// A rejected Assign leaves the map untouched.
//
// Storage:
// -------
//
// Transitions live in a Table. New and NewFunc use a B-tree; NewWithTable accepts any
// implementation, e.g. the integer bitmap trie from the veb/table package.
//
// A Map is not safe for concurrent use; callers serialize access themselves.
package ivmap
