// Package classify runs the display technology pipeline over merged rows.
//
// The pipeline has three explicit stages and they always run in this order:
//
//  1. independent derivation: display type, backlight, dimming zones, the
//     raw color architecture, spd_verified and the marketing label;
//  2. reclassification: KSF rows marketed under a quantum dot label become
//     Pseudo QD with medium confidence;
//  3. dependent derivation: qd_present and qd_material, which read the
//     corrected architecture.
//
// The qd fields are only ever written by stage three, so no caller can
// observe them computed from a pre-reclassification architecture.
package classify
