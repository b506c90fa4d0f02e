package merge

import (
	"strings"

	"tvschema/internal/tabular"
)

// KeyColumn is the join key shared by both input tables.
const KeyColumn = "product_id"

// SpectralColumns are attached to each specification row from its spectral match.
var SpectralColumns = []string{
	"spd_classification",
	"spd_confidence",
	"ground_truth_tech",
	"ground_truth_qd_type",
	"match_status",
	"blue_peak_nm",
	"blue_fwhm_nm",
	"green_peak_nm",
	"green_fwhm_nm",
	"red_peak_nm",
	"red_fwhm_nm",
	"num_peaks",
}

// Stats describes how the two tables lined up.
type Stats struct {
	SpecRows     int
	SpectralRows int
	Matched      int
	Unmatched    int
	// Orphans are spectral ids with no specification row.
	Orphans []string
	// DuplicateSpecIDs repeat in the specification table and produce
	// duplicate output rows.
	DuplicateSpecIDs []string
	// DuplicateSpectralIDs repeat in the spectral table; the first row wins.
	DuplicateSpectralIDs []string
	// Overwritten lists specification columns replaced by spectral values.
	Overwritten []string
}

// LeftJoin merges spectral onto specs. Neither input is modified.
func LeftJoin(specs, spectral *tabular.Table) (*tabular.Table, Stats) {
	stats := Stats{SpecRows: specs.Len(), SpectralRows: spectral.Len()}

	attach := make([]string, 0, len(SpectralColumns))
	for _, col := range SpectralColumns {
		if spectral.HasColumn(col) {
			attach = append(attach, col)
		}
	}

	byID := make(map[string]tabular.Row, spectral.Len())
	seenSpectral := make(map[string]bool, spectral.Len())
	for _, row := range spectral.Rows {
		id := joinKey(row)
		if id == "" {
			continue
		}
		if seenSpectral[id] {
			stats.DuplicateSpectralIDs = appendOnce(stats.DuplicateSpectralIDs, id)
			continue
		}
		seenSpectral[id] = true
		byID[id] = row
	}

	out := tabular.New("merged", specs.Columns...)
	for _, col := range attach {
		if out.HasColumn(col) {
			stats.Overwritten = append(stats.Overwritten, col)
			continue
		}
		out.AddColumn(col)
	}

	seenSpec := make(map[string]bool, specs.Len())
	for _, row := range specs.Rows {
		merged := row.Clone()
		id := joinKey(row)
		if id != "" && seenSpec[id] {
			stats.DuplicateSpecIDs = appendOnce(stats.DuplicateSpecIDs, id)
		}
		seenSpec[id] = true

		match, ok := byID[id]
		if ok && id != "" {
			stats.Matched++
		} else {
			stats.Unmatched++
		}
		for _, col := range attach {
			if !ok {
				merged.SetNull(col)
				continue
			}
			v, present := match.Get(col)
			merged.SetOptional(col, v, present)
		}
		out.Rows = append(out.Rows, merged)
	}

	for _, row := range spectral.Rows {
		id := joinKey(row)
		if id != "" && !seenSpec[id] {
			stats.Orphans = appendOnce(stats.Orphans, id)
		}
	}
	return out, stats
}

func joinKey(row tabular.Row) string {
	return strings.TrimSpace(row.Value(KeyColumn))
}

func appendOnce(list []string, id string) []string {
	for _, existing := range list {
		if existing == id {
			return list
		}
	}
	return append(list, id)
}
