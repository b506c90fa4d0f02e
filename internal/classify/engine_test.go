package classify_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tvschema/internal/classify"
	"tvschema/internal/derive"
	"tvschema/internal/rules"
	"tvschema/internal/tabular"
	"tvschema/internal/taxonomy"
)

var mergedColumns = []string{
	"product_id", "fullname", "brand", "panel_type", "backlight_type", "dimming_zone_count",
	"spd_classification", "spd_confidence", "green_fwhm_nm",
}

func mergedTable(t *testing.T, rows ...[]string) *tabular.Table {
	t.Helper()
	table := tabular.New("merged", mergedColumns...)
	for _, values := range rows {
		if len(values) != len(mergedColumns) {
			t.Fatalf("fixture row has %d values, want %d", len(values), len(mergedColumns))
		}
		row := tabular.Row{}
		for i, col := range mergedColumns {
			if values[i] != "" {
				row.Set(col, values[i])
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func newEngine(t *testing.T) *classify.Engine {
	t.Helper()
	table, err := rules.Default()
	if err != nil {
		t.Fatalf("default rules: %v", err)
	}
	return classify.NewEngine(classify.Options{
		Rules:    table,
		Material: derive.DefaultMaterialPolicy(),
	})
}

func TestRunReclassifiesKSFMarketedAsQuantumDot(t *testing.T) {
	merged := mergedTable(t,
		[]string{"1", "Samsung Q60D", "Samsung", "VA", "Edge", "0", "KSF", "high", ""},
		[]string{"2", "LG QNED85", "LG", "IPS", "Full-Array", "32", "KSF", "high", ""},
		[]string{"3", "Samsung QN90D", "Samsung", "VA", "Full-Array", "720", "KSF", "high", ""},
	)
	result := newEngine(t).Run(merged)

	want := []classify.Reclassification{
		{ProductID: "1", Name: "Samsung Q60D", Brand: "Samsung", MarketingLabel: "QLED"},
		{ProductID: "2", Name: "LG QNED85", Brand: "LG", MarketingLabel: "QNED"},
	}
	if diff := cmp.Diff(want, result.Reclassified); diff != "" {
		t.Fatalf("reclassified mismatch (-want +got):\n%s", diff)
	}

	first := result.Records[0]
	if first.Architecture != taxonomy.ArchPseudoQD || first.Confidence != "medium" {
		t.Fatalf("expected Pseudo QD/medium, got %q/%q", first.Architecture, first.Confidence)
	}
	if first.QDPresent != taxonomy.No || !first.QDMaterial.IsNull() {
		t.Fatalf("Pseudo QD must not carry quantum dots, got %v/%q", first.QDPresent, first.QDMaterial)
	}
	if got := first.Row.Value("color_architecture"); got != "Pseudo QD" {
		t.Fatalf("row color_architecture = %q", got)
	}
	if _, ok := first.Row.Get("qd_material"); ok {
		t.Fatal("expected null qd_material in row")
	}

	// Neo QLED is not a pseudo label, so the flagship stays KSF.
	third := result.Records[2]
	if third.MarketingLabel != "Neo QLED" || third.Architecture != taxonomy.ArchKSF {
		t.Fatalf("unexpected flagship record: label=%q arch=%q", third.MarketingLabel, third.Architecture)
	}
	if len(result.UnresolvedKSF) != 1 || result.UnresolvedKSF[0].ProductID != "3" {
		t.Fatalf("unexpected unresolved KSF: %+v", result.UnresolvedKSF)
	}
	if third.Row.Value("spd_confidence") != "high" {
		t.Fatalf("unreclassified confidence changed: %q", third.Row.Value("spd_confidence"))
	}
}

func TestRunComputesMarketingLabelFromRawArchitecture(t *testing.T) {
	// Hisense only labels ULED on QD-bearing architectures; the KSF row must
	// be labeled before it turns into Pseudo QD.
	merged := mergedTable(t,
		[]string{"10", "Hisense U8N", "Hisense", "VA", "Full-Array", "1000", "KSF", "high", ""},
	)
	result := newEngine(t).Run(merged)
	rec := result.Records[0]
	if rec.MarketingLabel != "ULED" {
		t.Fatalf("marketing label = %q, want ULED", rec.MarketingLabel)
	}
	if rec.Architecture != taxonomy.ArchPseudoQD {
		t.Fatalf("architecture = %q, want Pseudo QD", rec.Architecture)
	}
}

func TestRunQuantumDotMaterial(t *testing.T) {
	merged := mergedTable(t,
		[]string{"20", "Sony A95L", "Sony", "OLED", "No Backlight", "8294400", "QD-OLED", "high", ""},
		[]string{"21", "Samsung QN90D", "Samsung", "VA", "Full-Array", "720", "QD-LCD", "high", "22.5"},
		[]string{"22", "TCL QM8", "TCL", "VA", "Full-Array", "2000", "QD-LCD", "high", "24"},
		[]string{"23", "TCL QM7", "TCL", "VA", "Full-Array", "500", "QD-LCD", "high", "28"},
		[]string{"24", "Hisense U8N", "Hisense", "VA", "Full-Array", "1000", "QD-LCD", "high", ""},
		[]string{"25", "Vizio MQX", "Vizio", "VA", "Full-Array", "240", "QD-LCD", "high", ""},
		[]string{"26", "Roku Pro", "Roku", "VA", "Full-Array", "", "WLED", "high", "30"},
	)
	result := newEngine(t).Run(merged)

	want := []taxonomy.QDMaterial{
		taxonomy.MaterialInP,
		taxonomy.MaterialInP,
		taxonomy.MaterialCdSe,
		taxonomy.MaterialInP,
		taxonomy.MaterialCdSe,
		taxonomy.MaterialUnknown,
		taxonomy.MaterialNone,
	}
	var got []taxonomy.QDMaterial
	for _, rec := range result.Records {
		got = append(got, rec.QDMaterial)
		wantPresent := rec.Architecture.HasQuantumDots()
		if bool(rec.QDPresent) != wantPresent {
			t.Fatalf("%s: qd_present=%v for %q", rec.ProductID, rec.QDPresent, rec.Architecture)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("material mismatch (-want +got):\n%s", diff)
	}
}

func TestRunOLEDHasNoBacklightOrZones(t *testing.T) {
	merged := mergedTable(t,
		[]string{"30", "LG C4 OLED", "LG", "OLED", "Full-Array", "8294400", "WOLED", "high", ""},
	)
	rec := newEngine(t).Run(merged).Records[0]
	if rec.Display != taxonomy.DisplayOLED {
		t.Fatalf("display = %q", rec.Display)
	}
	if !rec.Backlight.IsNull() || rec.HasDimmingZones {
		t.Fatalf("expected null backlight and zones, got %q/%v", rec.Backlight, rec.HasDimmingZones)
	}
	if _, ok := rec.Row.Get("dimming_zone_count"); ok {
		t.Fatal("dimming_zone_count should be null for OLED")
	}
	if _, ok := rec.Row.Get("backlight_type_schema"); ok {
		t.Fatal("backlight_type_schema should be null for OLED")
	}
	if rec.Row.Value("backlight_type") != "Full-Array" {
		t.Fatal("raw backlight column must be preserved")
	}
}

func TestRunFlagsUnrecognizedBacklight(t *testing.T) {
	merged := mergedTable(t,
		[]string{"40", "Vizio M7", "Vizio", "VA", "Mini-LED Array", "", "WLED", "", ""},
		[]string{"41", "Vizio M8", "Vizio", "VA", "Mini-LED Array", "", "WLED", "", ""},
		[]string{"42", "Vizio V4", "Vizio", "VA", "Edge", "", "WLED", "", ""},
	)
	result := newEngine(t).Run(merged)

	want := []classify.BacklightFlag{{Value: "Mini-LED Array", Count: 2, ProductIDs: []string{"40", "41"}}}
	if diff := cmp.Diff(want, result.UnrecognizedBacklights); diff != "" {
		t.Fatalf("backlight flags mismatch (-want +got):\n%s", diff)
	}
	if got := result.Records[0].Row.Value("backlight_type_schema"); got != "Mini-LED Array" {
		t.Fatalf("vendor value should pass through, got %q", got)
	}
	if got := result.Records[2].Row.Value("backlight_type_schema"); got != "Edge-lit" {
		t.Fatalf("edge mapping = %q", got)
	}
	if diff := cmp.Diff([]string{"Vizio"}, result.UnlabeledBrands); diff != "" {
		t.Fatalf("unlabeled brands mismatch (-want +got):\n%s", diff)
	}
}

func TestRunSPDVerifiedFromRawValue(t *testing.T) {
	merged := mergedTable(t,
		[]string{"50", "TCL S4", "TCL", "VA", "Direct", "", "NO_SPD_IMAGE", "", ""},
		[]string{"51", "TCL S5", "TCL", "VA", "Direct", "", "ERROR: timeout", "", ""},
		[]string{"52", "TCL Q6", "TCL", "VA", "Direct", "", "KSF", "low", ""},
		[]string{"53", "TCL S3", "TCL", "VA", "Direct", "", "", "", ""},
	)
	result := newEngine(t).Run(merged)
	var got []string
	for _, rec := range result.Records {
		got = append(got, rec.Row.Value("spd_verified"))
	}
	if diff := cmp.Diff([]string{"No", "No", "Yes", "No"}, got); diff != "" {
		t.Fatalf("spd_verified mismatch (-want +got):\n%s", diff)
	}
	// The reclassified row is still verified by its raw spectral data.
	if result.Records[2].Architecture != taxonomy.ArchPseudoQD {
		t.Fatalf("TCL Q6 KSF should be Pseudo QD, got %q", result.Records[2].Architecture)
	}
	if _, ok := result.Records[3].Row.Get("color_architecture"); ok {
		t.Fatal("missing classification should leave color_architecture null")
	}
}

func TestRunPreservesOrderAndDoesNotMutateInput(t *testing.T) {
	merged := mergedTable(t,
		[]string{"b", "Samsung Q60D", "Samsung", "VA", "Edge", "", "KSF", "high", ""},
		[]string{"a", "LG B4 OLED", "LG", "OLED", "", "", "WOLED", "high", ""},
	)
	result := newEngine(t).Run(merged)
	if result.Table.Len() != 2 || result.Records[0].ProductID != "b" || result.Records[1].ProductID != "a" {
		t.Fatalf("order not preserved: %+v", result.Records)
	}
	if merged.Rows[0].Value("spd_classification") != "KSF" {
		t.Fatal("input row mutated")
	}
	if merged.HasColumn("display_type") {
		t.Fatal("input columns mutated")
	}
	for _, col := range classify.DerivedColumns {
		if !result.Table.HasColumn(col) {
			t.Fatalf("output missing column %s", col)
		}
	}
}

func TestReclassifyIsIdempotent(t *testing.T) {
	records := []classify.Record{
		{ProductID: "1", Architecture: taxonomy.ArchKSF, MarketingLabel: "QLED"},
		{ProductID: "2", Architecture: taxonomy.ArchKSF, MarketingLabel: "Crystal UHD"},
		{ProductID: "3", Architecture: taxonomy.ArchQDLCD, MarketingLabel: "QLED"},
	}
	labels := classify.LabelSet(classify.DefaultPseudoQDLabels...)

	first := classify.Reclassify(records, labels)
	if len(first) != 1 || first[0].ProductID != "1" {
		t.Fatalf("first pass: %+v", first)
	}
	if second := classify.Reclassify(records, labels); len(second) != 0 {
		t.Fatalf("second pass changed rows: %+v", second)
	}
	if records[2].Architecture != taxonomy.ArchQDLCD {
		t.Fatal("true QD-LCD must not be touched")
	}
}

func TestRunCustomPseudoLabels(t *testing.T) {
	merged := mergedTable(t,
		[]string{"60", "Samsung QN90D", "Samsung", "VA", "Full-Array", "720", "KSF", "high", ""},
	)
	table, err := rules.Default()
	if err != nil {
		t.Fatal(err)
	}
	engine := classify.NewEngine(classify.Options{Rules: table, PseudoQDLabels: []string{"Neo QLED"}})
	result := engine.Run(merged)
	if len(result.Reclassified) != 1 {
		t.Fatalf("expected Neo QLED to trigger reclassification, got %+v", result.Reclassified)
	}
}

func TestRunNormalizesConfidence(t *testing.T) {
	merged := mergedTable(t,
		[]string{"70", "TCL QM8", "TCL", "VA", "Full-Array", "2000", "QD-LCD", " High ", "24"},
		[]string{"71", "Vizio M7", "Vizio", "VA", "Full-Array", "", "WLED", "tentative", ""},
		[]string{"72", "Roku Select", "Roku", "VA", "Edge", "", "", "", ""},
	)
	result := newEngine(t).Run(merged)

	if got := result.Records[0].Confidence; got != taxonomy.ConfidenceHigh {
		t.Fatalf("confidence = %q, want high", got)
	}
	if got := result.Table.Rows[0].Value("spd_confidence"); got != "high" {
		t.Fatalf("published confidence = %q, want high", got)
	}
	if got := result.Table.Rows[1].Value("spd_confidence"); got != "tentative" {
		t.Fatalf("unknown confidence should pass through, got %q", got)
	}
	if _, ok := result.Table.Rows[2].Get("spd_confidence"); ok {
		t.Fatal("missing confidence must stay null")
	}
}

func TestRunReportsCaseFoldedBrandMatches(t *testing.T) {
	merged := mergedTable(t,
		[]string{"80", "samsung QN90D", "samsung", "VA", "Full-Array", "720", "QD-LCD", "high", "20"},
		[]string{"81", "Samsung QN85D", "Samsung", "VA", "Full-Array", "500", "QD-LCD", "high", "20"},
		[]string{"82", "tcl QM7", "tcl", "VA", "Full-Array", "500", "QD-LCD", "high", ""},
		[]string{"83", "tcl QM8", "tcl", "VA", "Full-Array", "2000", "QD-LCD", "high", "24"},
	)
	result := newEngine(t).Run(merged)

	if got := result.Records[0].QDMaterial; got != taxonomy.MaterialInP {
		t.Fatalf("folded override material = %q, want InP", got)
	}
	want := []classify.BrandFold{
		{Brand: "samsung", Configured: "Samsung", ProductIDs: []string{"80"}},
		{Brand: "tcl", Configured: "TCL", ProductIDs: []string{"82"}},
	}
	if diff := cmp.Diff(want, result.FoldedBrands); diff != "" {
		t.Fatalf("folded brands mismatch (-want +got):\n%s", diff)
	}
}
