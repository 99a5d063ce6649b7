// Package textutil provides the text helpers shared by the pipeline stages.
//
// The primary use cases are:
//   - The single case-insensitive total order used for archive discovery,
//     intra-issue page discovery, and staged page listing
//   - Sanitizing filenames and path segments for safe filesystem use
//
// Ordering folds case with golang.org/x/text/cases and breaks ties on the raw
// bytes, so two names never compare equal unless they are identical.
package textutil
