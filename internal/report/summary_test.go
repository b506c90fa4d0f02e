package report_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tvschema/internal/report"
	"tvschema/internal/tabular"
)

func published(rows ...map[string]string) *tabular.Table {
	t := tabular.New("tv_database", "product_id", "fullname", "brand", "display_type", "backlight_type_v2",
		"dimming_zone_count", "color_architecture", "qd_present", "qd_material", "spd_verified", "marketing_label")
	for _, values := range rows {
		row := tabular.Row{}
		for k, v := range values {
			row.Set(k, v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func TestBuildSummary(t *testing.T) {
	table := published(
		map[string]string{"fullname": "LG C4", "brand": "LG", "display_type": "OLED", "color_architecture": "WOLED", "qd_present": "No", "spd_verified": "Yes", "marketing_label": "OLED"},
		map[string]string{"fullname": "Samsung Q60D", "brand": "Samsung", "display_type": "LCD", "backlight_type_v2": "Edge-lit", "color_architecture": "Pseudo QD", "qd_present": "No", "spd_verified": "Yes", "marketing_label": "QLED"},
		map[string]string{"fullname": "Samsung QN90D", "brand": "Samsung", "display_type": "LCD", "backlight_type_v2": "Direct-lit", "dimming_zone_count": "720", "color_architecture": "KSF", "qd_present": "No", "spd_verified": "Yes", "marketing_label": "Neo QLED"},
		map[string]string{"fullname": "Vizio MQX", "brand": "Vizio", "display_type": "LCD", "dimming_zone_count": "240", "color_architecture": "QD-LCD", "qd_present": "Yes", "qd_material": "Unknown", "spd_verified": "Yes", "marketing_label": ""},
		map[string]string{"fullname": "TCL QM8", "brand": "TCL", "display_type": "LCD", "backlight_type_v2": "Direct-lit", "dimming_zone_count": "2000", "color_architecture": "QD-LCD", "qd_present": "Yes", "spd_verified": "No", "marketing_label": "QLED"},
	)

	s := report.Build(table)

	if s.Total != 5 {
		t.Fatalf("total = %d", s.Total)
	}
	if diff := cmp.Diff([]report.Count{{"LCD", 4}, {"OLED", 1}}, s.DisplayType); diff != "" {
		t.Fatalf("display_type mismatch (-want +got):\n%s", diff)
	}
	wantBacklight := []report.Count{{"Direct-lit", 2}, {report.NullValue, 1}, {"Edge-lit", 1}}
	if diff := cmp.Diff(wantBacklight, s.BacklightLCD); diff != "" {
		t.Fatalf("backlight mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(report.DimmingRange{WithData: 3, Min: 240, Max: 2000}, s.Dimming); diff != "" {
		t.Fatalf("dimming mismatch (-want +got):\n%s", diff)
	}
	wantMaterial := []report.Count{{report.NullValue, 1}, {"Unknown", 1}}
	if diff := cmp.Diff(wantMaterial, s.QDMaterial); diff != "" {
		t.Fatalf("qd_material mismatch (-want +got):\n%s", diff)
	}
	wantLabels := []report.Count{{"QLED", 2}, {"", 1}, {"Neo QLED", 1}, {"OLED", 1}}
	if diff := cmp.Diff(wantLabels, s.MarketingLabels); diff != "" {
		t.Fatalf("marketing mismatch (-want +got):\n%s", diff)
	}
	wantKSF := []report.KSFEntry{{Fullname: "Samsung QN90D", MarketingLabel: "Neo QLED"}}
	if diff := cmp.Diff(wantKSF, s.KSF); diff != "" {
		t.Fatalf("ksf mismatch (-want +got):\n%s", diff)
	}

	ct := s.BrandByArchitecture
	if diff := cmp.Diff([]string{"LG", "Samsung", "TCL", "Vizio"}, ct.Brands); diff != "" {
		t.Fatalf("brands mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"KSF", "Pseudo QD", "QD-LCD", "WOLED"}, ct.Architectures); diff != "" {
		t.Fatalf("architectures mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 1, 0, 0}, ct.Counts[1]); diff != "" {
		t.Fatalf("samsung row mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTruncatesMarketingLabels(t *testing.T) {
	var rows []map[string]string
	for i := 0; i < report.MarketingLabelLimit+5; i++ {
		rows = append(rows, map[string]string{"marketing_label": string(rune('A' + i))})
	}
	s := report.Build(published(rows...))
	if len(s.MarketingLabels) != report.MarketingLabelLimit {
		t.Fatalf("got %d labels", len(s.MarketingLabels))
	}
}

func TestBuildEmpty(t *testing.T) {
	s := report.Build(nil)
	if s.Total != 0 || len(s.KSF) != 0 || s.Dimming.WithData != 0 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}
