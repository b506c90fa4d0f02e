// Package derive implements the per-row attribute rules of the display
// technology schema. Every function is pure and reads only the values it is
// given, so rows can be derived in any order.
//
// Nullable inputs are passed as a value plus a presence flag. Nullable
// outputs use the zero value of the taxonomy type, or a false ok result for
// dimming zones.
package derive
