package merge_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tvschema/internal/merge"
	"tvschema/internal/tabular"
)

func specTable(rows ...tabular.Row) *tabular.Table {
	t := tabular.New("specs", "product_id", "fullname", "brand")
	t.Rows = rows
	return t
}

func spectralTable(rows ...tabular.Row) *tabular.Table {
	cols := append([]string{"product_id"}, merge.SpectralColumns...)
	t := tabular.New("spectral", cols...)
	t.Rows = rows
	return t
}

func TestLeftJoinAttachesSpectralColumns(t *testing.T) {
	specs := specTable(
		tabular.Row{"product_id": "1", "fullname": "Hisense U8N", "brand": "Hisense"},
		tabular.Row{"product_id": "2", "fullname": "LG C4 OLED", "brand": "LG"},
	)
	spectral := spectralTable(
		tabular.Row{"product_id": "1", "spd_classification": "QD-LCD", "green_fwhm_nm": "25.0"},
	)

	out, stats := merge.LeftJoin(specs, spectral)
	if out.Len() != 2 {
		t.Fatalf("expected one row per spec row, got %d", out.Len())
	}
	if got := out.Rows[0].Value("spd_classification"); got != "QD-LCD" {
		t.Fatalf("expected matched classification, got %q", got)
	}
	for _, col := range merge.SpectralColumns {
		if _, ok := out.Rows[1].Get(col); ok {
			t.Fatalf("expected %s to be null for unmatched row", col)
		}
	}
	want := append([]string{"product_id", "fullname", "brand"}, merge.SpectralColumns...)
	if diff := cmp.Diff(want, out.Columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if stats.Matched != 1 || stats.Unmatched != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestLeftJoinDropsOrphans(t *testing.T) {
	specs := specTable(tabular.Row{"product_id": "1", "fullname": "A"})
	spectral := spectralTable(
		tabular.Row{"product_id": "1", "spd_classification": "WLED"},
		tabular.Row{"product_id": "99", "spd_classification": "KSF"},
	)

	out, stats := merge.LeftJoin(specs, spectral)
	if out.Len() != 1 {
		t.Fatalf("orphan spectral rows must not produce output, got %d rows", out.Len())
	}
	if diff := cmp.Diff([]string{"99"}, stats.Orphans); diff != "" {
		t.Fatalf("orphans mismatch (-want +got):\n%s", diff)
	}
}

func TestLeftJoinDuplicatesSpecRows(t *testing.T) {
	specs := specTable(
		tabular.Row{"product_id": "5", "fullname": "TCL QM8"},
		tabular.Row{"product_id": "5", "fullname": "TCL QM8 (dup)"},
	)
	spectral := spectralTable(tabular.Row{"product_id": "5", "spd_classification": "QD-LCD"})

	out, stats := merge.LeftJoin(specs, spectral)
	if out.Len() != 2 {
		t.Fatalf("expected duplicate output rows, got %d", out.Len())
	}
	for _, row := range out.Rows {
		if row.Value("spd_classification") != "QD-LCD" {
			t.Fatalf("expected both duplicates to carry spectral data: %#v", row)
		}
	}
	if diff := cmp.Diff([]string{"5"}, stats.DuplicateSpecIDs); diff != "" {
		t.Fatalf("duplicates mismatch (-want +got):\n%s", diff)
	}
}

func TestLeftJoinFirstSpectralDuplicateWins(t *testing.T) {
	specs := specTable(tabular.Row{"product_id": "3"})
	spectral := spectralTable(
		tabular.Row{"product_id": "3", "spd_classification": "KSF"},
		tabular.Row{"product_id": "3", "spd_classification": "WLED"},
	)

	out, stats := merge.LeftJoin(specs, spectral)
	if got := out.Rows[0].Value("spd_classification"); got != "KSF" {
		t.Fatalf("expected first spectral row to win, got %q", got)
	}
	if len(stats.DuplicateSpectralIDs) != 1 {
		t.Fatalf("expected duplicate spectral id to be reported: %+v", stats)
	}
}

func TestLeftJoinDoesNotMutateInputs(t *testing.T) {
	specRow := tabular.Row{"product_id": "1", "fullname": "A"}
	specs := specTable(specRow)
	spectral := spectralTable(tabular.Row{"product_id": "1", "spd_classification": "WOLED"})

	out, _ := merge.LeftJoin(specs, spectral)
	out.Rows[0].Set("fullname", "changed")
	if specRow.Value("fullname") != "A" {
		t.Fatal("merge must copy spec rows")
	}
	if _, ok := specRow.Get("spd_classification"); ok {
		t.Fatal("merge must not write into spec rows")
	}
}

func TestLeftJoinSpectralValueWinsOnCollision(t *testing.T) {
	specs := tabular.New("specs", "product_id", "match_status")
	specs.Rows = []tabular.Row{{"product_id": "1", "match_status": "stale"}}
	spectral := spectralTable(tabular.Row{"product_id": "1", "match_status": "MATCH"})

	out, stats := merge.LeftJoin(specs, spectral)
	if got := out.Rows[0].Value("match_status"); got != "MATCH" {
		t.Fatalf("expected spectral value, got %q", got)
	}
	if diff := cmp.Diff([]string{"match_status"}, stats.Overwritten); diff != "" {
		t.Fatalf("overwritten mismatch (-want +got):\n%s", diff)
	}
}
