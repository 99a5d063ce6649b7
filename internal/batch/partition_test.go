package batch

import (
	"reflect"
	"testing"
)

func units(sizes ...int64) []Unit {
	out := make([]Unit, len(sizes))
	for i, size := range sizes {
		out[i] = Unit{Index: i, Size: size}
	}
	return out
}

func indices(groups []Group) [][]int {
	out := make([][]int, len(groups))
	for i, g := range groups {
		out[i] = g.Units
	}
	return out
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name    string
		sizes   []int64
		ceiling int64
		want    [][]int
	}{
		{name: "fills then spills", sizes: []int64{30, 30, 30, 30}, ceiling: 100, want: [][]int{{0, 1, 2}, {3}}},
		{name: "exact ceiling closes group", sizes: []int64{60, 40}, ceiling: 100, want: [][]int{{0}, {1}}},
		{name: "pairs over ceiling", sizes: []int64{60, 60}, ceiling: 100, want: [][]int{{0}, {1}}},
		{name: "single unit at ceiling", sizes: []int64{100}, ceiling: 100, want: [][]int{{0}}},
		{name: "oversized unit isolated", sizes: []int64{10, 200, 10}, ceiling: 100, want: [][]int{{0}, {1}, {2}}},
		{name: "just under ceiling", sizes: []int64{50, 49}, ceiling: 100, want: [][]int{{0, 1}}},
		{name: "zero sized units", sizes: []int64{0, 0, 0}, ceiling: 1, want: [][]int{{0, 1, 2}}},
		{name: "zero ceiling isolates every unit", sizes: []int64{0, 0}, ceiling: 0, want: [][]int{{0}, {1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := indices(Partition(units(tt.sizes...), tt.ceiling))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Partition(%v, %d) = %v, want %v", tt.sizes, tt.ceiling, got, tt.want)
			}
		})
	}
}

func TestPartitionEmpty(t *testing.T) {
	if got := Partition(nil, 100); len(got) != 0 {
		t.Fatalf("expected no groups, got %v", got)
	}
}

func TestPartitionGroupSizes(t *testing.T) {
	groups := Partition(units(30, 30, 30, 30), 100)
	if groups[0].Size != 90 || groups[1].Size != 30 {
		t.Fatalf("unexpected group sizes %d, %d", groups[0].Size, groups[1].Size)
	}
	if groups[0].First() != 0 || groups[0].Last() != 2 {
		t.Fatalf("unexpected bounds %d..%d", groups[0].First(), groups[0].Last())
	}
}

func TestPartitionInvariants(t *testing.T) {
	const ceiling = 100
	sizes := []int64{5, 95, 40, 40, 19, 1, 150, 99, 1, 0, 33, 33, 33, 34, 100, 2}
	input := units(sizes...)
	groups := Partition(input, ceiling)

	flat := flatten(groups)
	for i, idx := range flat {
		if idx != i {
			t.Fatalf("concatenated groups out of order at %d: %v", i, flat)
		}
	}
	if len(flat) != len(input) {
		t.Fatalf("expected %d units across groups, got %d", len(input), len(flat))
	}

	for gi, g := range groups {
		if len(g.Units) == 0 {
			t.Fatalf("group %d is empty", gi)
		}
		var sum int64
		for _, idx := range g.Units {
			sum += sizes[idx]
		}
		if sum != g.Size {
			t.Fatalf("group %d size %d does not match member sum %d", gi, g.Size, sum)
		}
		if len(g.Units) > 1 && g.Size >= ceiling {
			t.Fatalf("multi-unit group %d reaches ceiling: %d", gi, g.Size)
		}
		if gi+1 < len(groups) {
			next := sizes[groups[gi+1].First()]
			if g.Size+next < ceiling {
				t.Fatalf("group %d closed early: %d + %d < %d", gi, g.Size, next, ceiling)
			}
		}
	}
}

func TestPartitionDeterministic(t *testing.T) {
	input := units(12, 80, 7, 7, 90, 3)
	first := Partition(input, 50)
	second := Partition(input, 50)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("partition not deterministic: %v vs %v", first, second)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(units(1, 2, 3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate([]Unit{{Index: 0}, {Index: 2}}); err == nil {
		t.Fatal("expected error for gap in indices")
	}
	if err := Validate([]Unit{{Index: 0, Size: -1}}); err == nil {
		t.Fatal("expected error for negative size")
	}
	if err := Validate(nil); err != nil {
		t.Fatalf("empty input should validate: %v", err)
	}
}

func flatten(groups []Group) []int {
	var out []int
	for _, g := range groups {
		out = append(out, g.Units...)
	}
	return out
}
