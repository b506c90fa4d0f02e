// Package rules holds the brand-scoped marketing label table.
//
// Each brand owns an ordered list of rules. A rule pairs a label with
// conditions over the product name and the raw spectral color architecture;
// the first rule whose conditions all hold wins and later rules are never
// consulted. Brands are matched case-insensitively, name fragments are not.
//
// The default table is embedded from marketing.yaml. A Catalog can point at
// a replacement file, which is re-read whenever its modification time
// changes.
package rules
