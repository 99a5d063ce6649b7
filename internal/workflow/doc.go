// Package workflow runs the conversion pipeline for one input directory.
//
// Manager.Run drives the stages strictly in sequence: preflight, workspace
// setup, discovery, extraction, normalization, sizing, partitioning and
// export. Each stage is logged with stage_start, stage_complete or
// stage_failure events and reported to an optional Observer. The scratch
// workspace is always torn down at the end of a run; a failed run keeps it
// only when the configuration asks for that.
//
// Capabilities (unpacking, resizing, assembling) are chosen from the
// configured backend and can be replaced with options for tests.
package workflow
