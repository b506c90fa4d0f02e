package main

import (
	"fmt"
	"io"
	"strconv"

	"tvschema/internal/report"
)

func renderSummary(out io.Writer, s report.Summary, colorize bool) {
	for _, line := range renderSectionHeader("Display technology schema", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "Total TVs: %d\n\n", s.Total)

	sections := []struct {
		title  string
		counts []report.Count
		quote  bool
	}{
		{"display_type", s.DisplayType, false},
		{"backlight_type_v2 (LCD only)", s.BacklightLCD, false},
		{"color_architecture", s.ColorArchitecture, false},
		{"qd_present", s.QDPresent, false},
		{"qd_material (qd_present = Yes)", s.QDMaterial, false},
		{"spd_verified", s.SPDVerified, false},
		{"marketing_label (top 15)", s.MarketingLabels, true},
	}
	for _, section := range sections {
		fmt.Fprintln(out, renderCounts(section.title, section.counts, section.quote))
	}

	if s.Dimming.WithData > 0 {
		fmt.Fprintf(out, "dimming_zone_count: %d TVs with data, range %d - %d\n\n", s.Dimming.WithData, s.Dimming.Min, s.Dimming.Max)
	} else {
		fmt.Fprint(out, "dimming_zone_count: no data\n\n")
	}

	if len(s.BrandByArchitecture.Brands) > 0 {
		for _, line := range renderSectionHeader("Color architecture by brand", colorize) {
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out, renderCrosstab(s.BrandByArchitecture))
	}

	for _, line := range renderSectionHeader(fmt.Sprintf("KSF classifications (%d)", len(s.KSF)), colorize) {
		fmt.Fprintln(out, line)
	}
	if len(s.KSF) == 0 {
		fmt.Fprintln(out, "none")
		return
	}
	fmt.Fprintln(out, "Spectral data cannot separate KSF from KSF-dominant Pseudo QD sets.")
	rows := make([][]string, 0, len(s.KSF))
	for _, item := range s.KSF {
		rows = append(rows, []string{item.Fullname, strconv.Quote(item.MarketingLabel)})
	}
	fmt.Fprintln(out, renderTable([]string{"Name", "Marketing"}, rows, nil))
}

func renderCounts(title string, counts []report.Count, quote bool) string {
	rows := make([][]string, 0, len(counts))
	total := 0
	for _, c := range counts {
		total += c.Count
		value := c.Value
		if quote && value != report.NullValue {
			value = strconv.Quote(value)
		}
		rows = append(rows, []string{value, strconv.Itoa(c.Count)})
	}
	return renderTableWithFooter([]string{title, "TVs"}, rows, []columnAlignment{alignLeft, alignRight},
		[]string{"total", strconv.Itoa(total)})
}

func renderCrosstab(ct report.Crosstab) string {
	headers := append([]string{"brand"}, ct.Architectures...)
	aligns := make([]columnAlignment, len(headers))
	for i := 1; i < len(aligns); i++ {
		aligns[i] = alignRight
	}
	rows := make([][]string, 0, len(ct.Brands))
	for i, brand := range ct.Brands {
		row := []string{brand}
		for _, n := range ct.Counts[i] {
			row = append(row, strconv.Itoa(n))
		}
		rows = append(rows, row)
	}
	return renderTable(headers, rows, aligns)
}
