// Package batch groups ordered units into contiguous runs bounded by a byte
// ceiling.
//
// Partition is a pure, single-pass greedy function. The boundary rule is
// exact: a unit is placed into a new group when the running total plus its
// size reaches or exceeds the ceiling and the current group is non-empty. A
// unit is never split, so a unit at or over the ceiling forms a group of its
// own.
package batch
