package common

import "sort"

// ValueSet is a set of integer values. The zero value is not usable; create
// one with NewValueSet.
type ValueSet struct {
	items map[int64]struct{}
}

// NewValueSet returns a set holding values.
func NewValueSet(values ...int64) *ValueSet {
	s := &ValueSet{items: make(map[int64]struct{}, len(values))}
	s.AddAll(values)
	return s
}

// Add inserts v and reports whether it was new.
func (s *ValueSet) Add(v int64) bool {
	if _, ok := s.items[v]; ok {
		return false
	}
	s.items[v] = struct{}{}
	return true
}

// AddAll inserts every value and returns how many were new.
func (s *ValueSet) AddAll(values []int64) int {
	added := 0
	for _, v := range values {
		if s.Add(v) {
			added++
		}
	}
	return added
}

// Contains reports whether v is in the set.
func (s *ValueSet) Contains(v int64) bool {
	_, ok := s.items[v]
	return ok
}

// Len returns the number of values.
func (s *ValueSet) Len() int {
	return len(s.items)
}

// Difference returns the values of s that are not in other, sorted
// ascending. A nil other is treated as empty.
func (s *ValueSet) Difference(other *ValueSet) []int64 {
	out := []int64{}
	for v := range s.items {
		if other == nil || !other.Contains(v) {
			out = append(out, v)
		}
	}
	sortValues(out)
	return out
}

// Slice returns a sorted copy of the values.
func (s *ValueSet) Slice() []int64 {
	out := make([]int64, 0, len(s.items))
	for v := range s.items {
		out = append(out, v)
	}
	sortValues(out)
	return out
}

func sortValues(v []int64) {
	sort.Slice(v, func(i, j int) bool { return v[i] < v[j] })
}
