// Package workspace manages the per-run scratch directory inside the input
// directory.
//
// Layout under the scratch root:
//
//	raw/NNNN/         extracted archive contents for unit NNNN
//	normalized/NNNN/  page_NNNN.jpg files re-encoded from raw/NNNN
//	pages/            staging area for the group currently being exported
//
// Initialize always starts from an empty root; Teardown removes it. The
// existence of the root is the only state that outlives a run.
package workspace
