package collections

import (
	"sort"
	"testing"
)

func TestSet(t *testing.T) {
	set := make(Set[int])
	set.Add(3)
	set.Add(1)
	set.Add(3)

	if !set.Contains(1) || !set.Contains(3) || set.Contains(2) {
		t.Errorf("unexpected contents %v", set)
	}

	values := set.Values()
	sort.Ints(values)
	if len(values) != 2 || values[0] != 1 || values[1] != 3 {
		t.Errorf("Values() = %v", values)
	}

	set.Remove(3)
	set.Remove(4)
	if set.Contains(3) || len(set) != 1 {
		t.Errorf("after Remove: %v", set)
	}
}
