// Package preflight provides readiness checks for the files and directories
// a build depends on.
//
// These checks run in two contexts:
//   - The build calls RunAll before reading any input. A failed check
//     aborts the run before anything is written.
//   - The CLI "tvschema check" command renders every result as a status line.
//
// Optional outputs (history store, metrics textfile, marketing rule
// override) are only checked when configured.
package preflight
