// Package preflight provides readiness checks for the directories and
// external tools a run depends on.
//
// These checks run in two contexts:
//   - The workflow manager calls RunAll before touching the input directory.
//     If any check fails, the run stops before a scratch area is created.
//   - The CLI "comicbatch check" command renders every result, including
//     optional tools, so operators can see what is missing.
//
// External binaries are only required when the external backend is selected.
package preflight
