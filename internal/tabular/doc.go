// Package tabular holds the row-oriented tables that flow through the
// classification pipeline and the CSV/JSON codecs that read and write them.
//
// A Row maps column names to string cells. A key that is absent from the row
// is null; a key that is present with an empty string is an empty string.
// The distinction matters for marketing_label, where empty is a final value.
// CSV has no null marker, so empty CSV cells read back as null. JSON keeps
// both states.
//
// Writers stage output in a temp file and rename it into place so a failed
// run never leaves a partially written artifact behind.
package tabular
