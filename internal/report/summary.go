package report

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"tvschema/internal/tabular"
)

// NullValue labels null cells in counts that keep them.
const NullValue = "(null)"

// MarketingLabelLimit caps the marketing label counts.
const MarketingLabelLimit = 15

// Published column names read by the summary.
const (
	colFullname          = "fullname"
	colBrand             = "brand"
	colDisplayType       = "display_type"
	colBacklight         = "backlight_type_v2"
	colDimmingZones      = "dimming_zone_count"
	colColorArchitecture = "color_architecture"
	colQDPresent         = "qd_present"
	colQDMaterial        = "qd_material"
	colSPDVerified       = "spd_verified"
	colMarketingLabel    = "marketing_label"
)

// Count is one value and how many rows carry it.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// DimmingRange describes the parsed dimming zone counts.
type DimmingRange struct {
	WithData int   `json:"with_data"`
	Min      int64 `json:"min"`
	Max      int64 `json:"max"`
}

// Crosstab counts rows per brand and architecture. Counts[i][j] pairs
// Brands[i] with Architectures[j].
type Crosstab struct {
	Brands        []string `json:"brands"`
	Architectures []string `json:"architectures"`
	Counts        [][]int  `json:"counts"`
}

// KSFEntry is a row still classified as KSF.
type KSFEntry struct {
	Fullname       string `json:"fullname"`
	MarketingLabel string `json:"marketing_label"`
}

// Summary is the post-build console summary.
type Summary struct {
	Total               int          `json:"total"`
	DisplayType         []Count      `json:"display_type"`
	BacklightLCD        []Count      `json:"backlight_type_v2_lcd"`
	Dimming             DimmingRange `json:"dimming_zone_count"`
	ColorArchitecture   []Count      `json:"color_architecture"`
	QDPresent           []Count      `json:"qd_present"`
	QDMaterial          []Count      `json:"qd_material"`
	SPDVerified         []Count      `json:"spd_verified"`
	MarketingLabels     []Count      `json:"marketing_label"`
	BrandByArchitecture Crosstab     `json:"brand_by_architecture"`
	KSF                 []KSFEntry   `json:"ksf"`
}

// Build summarizes a published table.
func Build(t *tabular.Table) Summary {
	var rows []tabular.Row
	if t != nil {
		rows = t.Rows
	}
	lcd := filter(rows, func(r tabular.Row) bool { return r.Value(colDisplayType) == "LCD" })
	qdYes := filter(rows, func(r tabular.Row) bool { return r.Value(colQDPresent) == "Yes" })

	s := Summary{
		Total:               len(rows),
		DisplayType:         ValueCounts(rows, colDisplayType, false),
		BacklightLCD:        ValueCounts(lcd, colBacklight, true),
		Dimming:             dimmingRange(rows),
		ColorArchitecture:   ValueCounts(rows, colColorArchitecture, false),
		QDPresent:           ValueCounts(rows, colQDPresent, false),
		QDMaterial:          ValueCounts(qdYes, colQDMaterial, true),
		SPDVerified:         ValueCounts(rows, colSPDVerified, false),
		MarketingLabels:     ValueCounts(rows, colMarketingLabel, false),
		BrandByArchitecture: crosstab(rows, colBrand, colColorArchitecture),
	}
	if len(s.MarketingLabels) > MarketingLabelLimit {
		s.MarketingLabels = s.MarketingLabels[:MarketingLabelLimit]
	}
	for _, row := range rows {
		if row.Value(colColorArchitecture) == "KSF" {
			s.KSF = append(s.KSF, KSFEntry{
				Fullname:       row.Value(colFullname),
				MarketingLabel: row.Value(colMarketingLabel),
			})
		}
	}
	return s
}

// ValueCounts counts distinct values of column, most frequent first; ties
// sort by value. Null cells are skipped unless keepNull is set, in which
// case they are counted under NullValue.
func ValueCounts(rows []tabular.Row, column string, keepNull bool) []Count {
	counts := map[string]int{}
	for _, row := range rows {
		value, ok := row.Get(column)
		if !ok {
			if !keepNull {
				continue
			}
			value = NullValue
		}
		counts[value]++
	}
	out := make([]Count, 0, len(counts))
	for value, n := range counts {
		out = append(out, Count{Value: value, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Value, b.Value)
	})
	return out
}

func dimmingRange(rows []tabular.Row) DimmingRange {
	var r DimmingRange
	for _, row := range rows {
		raw, ok := row.Get(colDimmingZones)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			continue
		}
		if r.WithData == 0 || n < r.Min {
			r.Min = n
		}
		if r.WithData == 0 || n > r.Max {
			r.Max = n
		}
		r.WithData++
	}
	return r
}

// crosstab skips rows where either value is null.
func crosstab(rows []tabular.Row, rowCol, colCol string) Crosstab {
	cells := map[[2]string]int{}
	brands := map[string]struct{}{}
	archs := map[string]struct{}{}
	for _, row := range rows {
		brand, ok := row.Get(rowCol)
		if !ok {
			continue
		}
		arch, ok := row.Get(colCol)
		if !ok {
			continue
		}
		brands[brand] = struct{}{}
		archs[arch] = struct{}{}
		cells[[2]string{brand, arch}]++
	}
	ct := Crosstab{
		Brands:        sortedKeys(brands),
		Architectures: sortedKeys(archs),
	}
	for _, brand := range ct.Brands {
		line := make([]int, len(ct.Architectures))
		for j, arch := range ct.Architectures {
			line[j] = cells[[2]string{brand, arch}]
		}
		ct.Counts = append(ct.Counts, line)
	}
	return ct
}

func filter(rows []tabular.Row, keep func(tabular.Row) bool) []tabular.Row {
	var out []tabular.Row
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	slices.Sort(out)
	return out
}
