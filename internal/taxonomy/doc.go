// Package taxonomy defines the closed vocabularies of the display technology
// schema: display type, backlight layout, color architecture, quantum dot
// material, spectral confidence and the Yes/No flags.
//
// Nullable attributes use the zero value as null. MicroLED and Perovskite are
// reserved members with no derivation rule that produces them.
package taxonomy
