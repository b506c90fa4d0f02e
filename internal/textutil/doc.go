// Package textutil provides small text helpers shared by the classification
// pipeline and the CLI: case-folded brand keys and table cell formatting.
package textutil
