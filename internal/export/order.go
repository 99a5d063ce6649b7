package export

import (
	"sort"
	"strings"
)

// sortPages orders file names by the numbers they carry, so page_10000 follows
// page_9999 and frame suffixes such as page_0003-1.jpg follow page_0003-0.jpg.
// Names with equal numbers fall back to byte order.
func sortPages(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return comparePageNames(names[i], names[j]) < 0
	})
}

func comparePageNames(a, b string) int {
	na, nb := digitRuns(a), digitRuns(b)
	for k := 0; k < len(na) && k < len(nb); k++ {
		if c := compareDigits(na[k], nb[k]); c != 0 {
			return c
		}
	}
	if len(na) != len(nb) {
		if len(na) < len(nb) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// digitRuns returns every maximal run of ASCII digits in name.
func digitRuns(name string) []string {
	var runs []string
	start := -1
	for i := 0; i < len(name); i++ {
		isDigit := name[i] >= '0' && name[i] <= '9'
		switch {
		case isDigit && start < 0:
			start = i
		case !isDigit && start >= 0:
			runs = append(runs, name[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, name[start:])
	}
	return runs
}

// compareDigits compares two digit strings by numeric value without parsing,
// so arbitrarily long runs cannot overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
