package batch

import "fmt"

// Unit is one normalized unit and its measured on-disk size.
type Unit struct {
	Index int
	Size  int64
}

// Group is a non-empty contiguous run of unit indices.
type Group struct {
	Units []int
	Size  int64
}

// First returns the first unit index in the group.
func (g Group) First() int {
	if len(g.Units) == 0 {
		return -1
	}
	return g.Units[0]
}

// Last returns the last unit index in the group.
func (g Group) Last() int {
	if len(g.Units) == 0 {
		return -1
	}
	return g.Units[len(g.Units)-1]
}

// Partition splits units into groups in input order. Units must already be in
// ascending index order; Partition never reorders them.
func Partition(units []Unit, ceiling int64) []Group {
	if len(units) == 0 {
		return nil
	}

	var (
		groups  []Group
		current Group
	)
	for _, unit := range units {
		if len(current.Units) > 0 && current.Size+unit.Size >= ceiling {
			groups = append(groups, current)
			current = Group{}
		}
		current.Units = append(current.Units, unit.Index)
		current.Size += unit.Size
	}
	if len(current.Units) > 0 {
		groups = append(groups, current)
	}
	return groups
}

// Validate reports input that Partition would silently accept but that breaks
// the pipeline's ordering contract: indices must run 0..n-1 and sizes must not
// be negative.
func Validate(units []Unit) error {
	for i, unit := range units {
		if unit.Index != i {
			return fmt.Errorf("unit at position %d has index %d", i, unit.Index)
		}
		if unit.Size < 0 {
			return fmt.Errorf("unit %d has negative size %d", unit.Index, unit.Size)
		}
	}
	return nil
}
