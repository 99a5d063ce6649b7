// Package export stages each group's pages into a single flat directory and
// hands them to an Assembler that writes one document per group.
//
// Staged names carry a prefix counting across the whole group, and listings
// compare the numbers in file names numerically, so the staging directory
// reproduces unit order followed by page order at any page count. The staging
// area is recreated for every group. Groups without pages produce no document.
package export
