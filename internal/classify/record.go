package classify

import (
	"strconv"

	"tvschema/internal/derive"
	"tvschema/internal/tabular"
	"tvschema/internal/taxonomy"
)

// Output column names written by the engine.
const (
	ColDisplayType       = "display_type"
	ColBacklightSchema   = "backlight_type_schema"
	ColDimmingZones      = "dimming_zone_count"
	ColColorArchitecture = "color_architecture"
	ColQDPresent         = "qd_present"
	ColQDMaterial        = "qd_material"
	ColSPDVerified       = "spd_verified"
	ColMarketingLabel    = "marketing_label"
	ColSPDConfidence     = "spd_confidence"
)

// Input column names read by the engine.
const (
	ColProductID         = "product_id"
	ColFullname          = "fullname"
	ColBrand             = "brand"
	ColPanelType         = "panel_type"
	ColBacklightRaw      = "backlight_type"
	ColSPDClassification = "spd_classification"
	ColGreenFWHM         = "green_fwhm_nm"
)

// RequiredSpecColumns must be present in the specification table.
var RequiredSpecColumns = []string{
	ColProductID, ColFullname, ColBrand, ColPanelType, ColBacklightRaw, ColDimmingZones,
}

// DerivedColumns are appended to the merged header in this order.
var DerivedColumns = []string{
	ColDisplayType,
	ColBacklightSchema,
	ColColorArchitecture,
	ColMarketingLabel,
	ColQDPresent,
	ColQDMaterial,
	ColSPDVerified,
}

// Record is one classified product. Row carries every merged column and is
// updated with the derived values once the pipeline finishes.
type Record struct {
	Row tabular.Row

	ProductID string
	Name      string
	Brand     string

	Display             taxonomy.DisplayType
	Backlight           taxonomy.BacklightType
	BacklightRaw        string
	BacklightRecognized bool
	DimmingZones        int64
	HasDimmingZones     bool

	// RawClassification is the spectral classifier output before correction.
	RawClassification string
	Architecture      taxonomy.ColorArchitecture
	Confidence        taxonomy.Confidence
	HasConfidence     bool
	SPDVerified       taxonomy.YesNo
	MarketingLabel    string
	Reclassified      bool

	QDPresent     taxonomy.YesNo
	QDMaterial    taxonomy.QDMaterial
	MaterialBasis derive.MaterialBasis
}

// apply writes the derived attributes into the row.
func (r *Record) apply() {
	row := r.Row
	row.Set(ColDisplayType, r.Display.String())
	row.SetOptional(ColBacklightSchema, r.Backlight.String(), !r.Backlight.IsNull())
	row.SetOptional(ColDimmingZones, strconv.FormatInt(r.DimmingZones, 10), r.HasDimmingZones)
	row.SetOptional(ColColorArchitecture, r.Architecture.String(), r.Architecture != "")
	row.SetOptional(ColSPDConfidence, r.Confidence.String(), r.HasConfidence)
	row.Set(ColMarketingLabel, r.MarketingLabel)
	row.Set(ColQDPresent, r.QDPresent.String())
	row.SetOptional(ColQDMaterial, r.QDMaterial.String(), !r.QDMaterial.IsNull())
	row.Set(ColSPDVerified, r.SPDVerified.String())
}
