package dbval

import "sort"

type valueSorter struct {
	src []Value
}

func (s valueSorter) Len() int {
	return len(s.src)
}

func (s valueSorter) Swap(i, j int) {
	s.src[i], s.src[j] = s.src[j], s.src[i]
}

func (s valueSorter) Less(i, j int) bool {
	return Compare(s.src[i], s.src[j]) < 0
}

// Sorted returns a copy of values in the order SQLite's ORDER BY would give
// them, as defined by Compare. Values that compare equal, such as INTEGER 1
// and REAL 1.0, keep their relative order.
//
// values will not be modified.
func Sorted(values []Value) []Value {
	if len(values) == 0 {
		return values
	}

	s := valueSorter{src: make([]Value, len(values))}
	copy(s.src, values)
	sort.Stable(s)
	return s.src
}
