package textutil

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// FoldKey returns the case-insensitive comparison key for name using full
// Unicode case folding.
func FoldKey(name string) string {
	return cases.Fold().String(name)
}

// CompareFold orders a and b by their folded form, falling back to a plain
// byte comparison so names differing only in case still have a stable order.
func CompareFold(a, b string) int {
	if c := strings.Compare(FoldKey(a), FoldKey(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// SortFoldBy stably sorts items by CompareFold on each key in turn. Folded
// keys are computed once per item.
func SortFoldBy[T any](items []T, keys ...func(T) string) {
	type keyed struct {
		item   T
		raw    []string
		folded []string
	}
	entries := make([]keyed, len(items))
	for i, item := range items {
		e := keyed{item: item, raw: make([]string, len(keys)), folded: make([]string, len(keys))}
		for k, key := range keys {
			e.raw[k] = key(item)
			e.folded[k] = FoldKey(e.raw[k])
		}
		entries[i] = e
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		for k := range keys {
			if c := strings.Compare(a.folded[k], b.folded[k]); c != 0 {
				return c < 0
			}
			if c := strings.Compare(a.raw[k], b.raw[k]); c != 0 {
				return c < 0
			}
		}
		return false
	})
	for i, e := range entries {
		items[i] = e.item
	}
}

// HasSuffixFold reports whether name ends with suffix, ignoring case.
func HasSuffixFold(name, suffix string) bool {
	return strings.HasSuffix(FoldKey(name), FoldKey(suffix))
}
