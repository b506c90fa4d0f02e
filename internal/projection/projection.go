package projection

import "tvschema/internal/tabular"

// PreferredColumns is the published column order before renaming.
var PreferredColumns = []string{
	// identity
	"product_id", "fullname", "brand", "url_part", "review_url",
	"test_bench_version", "released_at", "first_published_at", "last_updated_at",
	"sizes_available",

	// display technology schema
	"display_type",
	"backlight_type_schema",
	"dimming_zone_count",
	"color_architecture",
	"qd_present",
	"qd_material",
	"spd_verified",
	"marketing_label",

	// vendor panel metadata
	"panel_type", "panel_sub_type", "backlight_type",

	// spectral analysis
	"spd_classification", "spd_confidence",
	"blue_peak_nm", "blue_fwhm_nm",
	"green_peak_nm", "green_fwhm_nm",
	"red_peak_nm", "red_fwhm_nm",

	"mixed_usage", "home_theater", "gaming", "sports", "bright_room",
	"color_score", "brightness_score", "black_level_score",
	"contrast_ratio_score", "native_contrast_score",

	"sdr_dci_p3_coverage_pct", "sdr_bt2020_coverage_pct",
	"hdr_bt2020_coverage_itp_pct",

	"sdr_real_scene_peak_nits", "sdr_peak_10pct_nits", "sdr_peak_2pct_nits",
	"hdr_peak_100pct_nits", "hdr_peak_50pct_nits", "hdr_peak_25pct_nits",
	"hdr_peak_10pct_nits", "hdr_peak_2pct_nits",

	"native_contrast", "contrast_ratio",

	"first_response_time_ms", "total_response_time_ms",
	"input_lag_1080p_ms", "input_lag_4k_ms",

	"native_refresh_rate", "vrr_support", "hdmi_forum_vrr",
	"hdmi_ports", "hdmi_21_speed", "resolution",

	"ground_truth_tech", "ground_truth_qd_type", "match_status",

	"scraped_at", "spd_image", "spd_image_local",
}

// Renames maps internal column names to their published names. The derived
// and vendor backlight columns would otherwise be ambiguous.
var Renames = map[string]string{
	"backlight_type_schema": "backlight_type_v2",
	"backlight_type":        "backlight_type_rtings",
}

// Columns returns the published header for an input header.
func Columns(input []string) []string {
	present := make(map[string]struct{}, len(input))
	for _, col := range input {
		present[col] = struct{}{}
	}
	out := make([]string, 0, len(input))
	taken := make(map[string]struct{}, len(input))
	for _, col := range PreferredColumns {
		if _, ok := present[col]; ok {
			out = append(out, col)
			taken[col] = struct{}{}
		}
	}
	for _, col := range input {
		if _, ok := taken[col]; ok {
			continue
		}
		taken[col] = struct{}{}
		out = append(out, col)
	}
	return out
}

// Project builds the published table. The input is not modified.
func Project(in *tabular.Table) *tabular.Table {
	source := Columns(in.Columns)
	published := make([]string, len(source))
	for i, col := range source {
		published[i] = PublishedName(col)
	}

	out := tabular.New("tv_database", published...)
	out.Rows = make([]tabular.Row, 0, len(in.Rows))
	for _, row := range in.Rows {
		projected := make(tabular.Row, len(source))
		for i, col := range source {
			if value, ok := row.Get(col); ok {
				projected.Set(published[i], value)
			}
		}
		out.Rows = append(out.Rows, projected)
	}
	return out
}

// PublishedName returns the output name of an internal column.
func PublishedName(col string) string {
	if renamed, ok := Renames[col]; ok {
		return renamed
	}
	return col
}
