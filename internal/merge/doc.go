// Package merge joins the specification table with the spectral
// classification table on product_id.
//
// The join is a left outer join with the specification table as the base:
// every specification row yields exactly one merged row, in input order.
// Spectral rows with no matching specification row are dropped, and
// duplicate specification ids are carried through as duplicate output rows.
// None of these conditions is an error; they are counted in Stats so the
// caller can log them.
package merge
