// Package build runs one end-to-end classification: preflight, input
// loading, column checks, merge, classification, projection, output
// writing, history snapshot and metrics.
//
// A run either writes a complete, consistent pair of output files or writes
// nothing. Structural input problems are detected before any derivation and
// surface as ErrValidation. Row-level problems never fail a run; they are
// reported in the Report and logged as warnings.
package build
