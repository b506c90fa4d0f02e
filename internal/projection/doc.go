// Package projection selects, renames and orders the published column set.
// It holds no decision logic: columns that are present are emitted in the
// preferred order, anything else follows in its original order.
package projection
