// Package services defines shared utilities consumed by the pipeline stages and
// the capability adapters they call.
//
// Key responsibilities:
//   - Context helpers that stamp unit indices, group ordinals, stage names, and
//     run identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures by
//     stage (extraction, normalization, export, workspace).
//
// Subpackages implement the external capabilities (archive unpacking, image
// resizing, document assembly) behind the interfaces the stages declare.
package services
