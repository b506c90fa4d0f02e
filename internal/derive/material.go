package derive

import (
	"tvschema/internal/taxonomy"
	"tvschema/internal/textutil"
)

// Default quantum dot material policy values.
const DefaultCdSeFWHMThresholdNM = 28.0

var (
	DefaultInPOverrideBrands  = []string{"Samsung", "Sony", "LG", "Panasonic", "Philips"}
	DefaultCdSeFallbackBrands = []string{"Hisense", "TCL"}
)

// MaterialPolicy holds the tunable inputs of the quantum dot material rule.
type MaterialPolicy struct {
	// CdSeFWHMThresholdNM: green FWHM strictly below it reads as CdSe.
	CdSeFWHMThresholdNM float64
	// InPOverrideBrands use InP on QD-LCD regardless of spectral shape.
	InPOverrideBrands textutil.BrandSet
	// CdSeFallbackBrands are assumed CdSe when FWHM is unavailable.
	CdSeFallbackBrands textutil.BrandSet
}

// DefaultMaterialPolicy returns the validated production policy.
func DefaultMaterialPolicy() MaterialPolicy {
	return MaterialPolicy{
		CdSeFWHMThresholdNM: DefaultCdSeFWHMThresholdNM,
		InPOverrideBrands:   textutil.NewBrandSet(DefaultInPOverrideBrands...),
		CdSeFallbackBrands:  textutil.NewBrandSet(DefaultCdSeFallbackBrands...),
	}
}

// ConfiguredBrand returns the brand list spelling that brand matched for a
// brand-based basis, and whether it differs from brand as written.
func (p MaterialPolicy) ConfiguredBrand(basis MaterialBasis, brand string) (string, bool) {
	var set textutil.BrandSet
	switch basis {
	case BasisBrandOverride:
		set = p.InPOverrideBrands
	case BasisBrandFallback:
		set = p.CdSeFallbackBrands
	default:
		return "", false
	}
	name, ok := set.Configured(brand)
	if !ok || name == brand {
		return name, false
	}
	return name, true
}

// MaterialBasis names the branch that decided a material.
type MaterialBasis string

const (
	BasisNotApplicable MaterialBasis = "not_applicable"
	BasisQDOLED        MaterialBasis = "qd_oled"
	BasisBrandOverride MaterialBasis = "brand_override"
	BasisFWHM          MaterialBasis = "green_fwhm"
	BasisBrandFallback MaterialBasis = "brand_fallback"
	BasisUnknown       MaterialBasis = "unknown"
)

// Material decides the quantum dot chemistry. The branches are evaluated in
// a fixed order: architecture gate, QD-OLED, brand override, green FWHM,
// brand fallback.
func (p MaterialPolicy) Material(arch taxonomy.ColorArchitecture, brand, greenFWHM string) (taxonomy.QDMaterial, MaterialBasis) {
	switch arch {
	case taxonomy.ArchQDOLED:
		return taxonomy.MaterialInP, BasisQDOLED
	case taxonomy.ArchQDLCD:
	default:
		return taxonomy.MaterialNone, BasisNotApplicable
	}

	if p.InPOverrideBrands.Contains(brand) {
		return taxonomy.MaterialInP, BasisBrandOverride
	}
	if fwhm, ok := ParseNanometers(greenFWHM); ok {
		if fwhm < p.CdSeFWHMThresholdNM {
			return taxonomy.MaterialCdSe, BasisFWHM
		}
		return taxonomy.MaterialInP, BasisFWHM
	}
	if p.CdSeFallbackBrands.Contains(brand) {
		return taxonomy.MaterialCdSe, BasisBrandFallback
	}
	return taxonomy.MaterialUnknown, BasisUnknown
}
