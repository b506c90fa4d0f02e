// Package report summarizes a published classification table: value counts
// per schema attribute, the brand by architecture crosstab and the KSF rows
// that may still hide Pseudo QD sets.
package report
