package derive

import (
	"math"
	"strconv"
	"strings"

	"tvschema/internal/taxonomy"
)

// DisplayType maps the raw panel type. Only "OLED" selects OLED; anything
// else, including a missing value, is LCD. MicroLED has no trigger.
func DisplayType(panelType string) taxonomy.DisplayType {
	if strings.TrimSpace(panelType) == "OLED" {
		return taxonomy.DisplayOLED
	}
	return taxonomy.DisplayLCD
}

var backlightMap = map[string]taxonomy.BacklightType{
	"Full-Array":   taxonomy.BacklightDirectLit,
	"Direct":       taxonomy.BacklightDirectLit,
	"Edge":         taxonomy.BacklightEdgeLit,
	"No Backlight": taxonomy.BacklightNone,
}

// Backlight maps the raw vendor backlight string. OLED panels have no
// backlight. Unrecognized values pass through unchanged and recognized is
// false so the caller can flag them.
func Backlight(raw string, display taxonomy.DisplayType) (backlight taxonomy.BacklightType, recognized bool) {
	if display == taxonomy.DisplayOLED {
		return taxonomy.BacklightNone, true
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return taxonomy.BacklightNone, true
	}
	if mapped, ok := backlightMap[trimmed]; ok {
		return mapped, true
	}
	passthrough := taxonomy.BacklightType(raw)
	return passthrough, passthrough.Known()
}

// DimmingZones parses a non-negative integer zone count. Integral floats
// such as "720.0" are accepted. OLED panels always yield null since the
// upstream value for them is a pixel count.
func DimmingZones(raw string, display taxonomy.DisplayType) (int64, bool) {
	if display == taxonomy.DisplayOLED {
		return 0, false
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		if n < 0 {
			return 0, false
		}
		return n, true
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f != math.Trunc(f) || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// ColorArchitecture is the raw spectral classification before any
// reclassification.
func ColorArchitecture(spdClassification string) taxonomy.ColorArchitecture {
	return taxonomy.ColorArchitecture(strings.TrimSpace(spdClassification))
}

// SPDVerified reports whether the raw spectral classifier produced a real
// classification. It must be given the raw value, never a reclassified
// architecture.
func SPDVerified(spdClassification string) taxonomy.YesNo {
	raw := strings.TrimSpace(spdClassification)
	if raw == "" || raw == taxonomy.SentinelNoImage || strings.HasPrefix(raw, taxonomy.SentinelErrPrefix) {
		return taxonomy.No
	}
	return taxonomy.Yes
}

// QDPresent reports whether the final architecture uses quantum dots.
func QDPresent(arch taxonomy.ColorArchitecture) taxonomy.YesNo {
	return taxonomy.YesNo(arch.HasQuantumDots())
}

// ParseNanometers parses a spectral measurement. Missing, non-numeric and
// non-finite values are not ok.
func ParseNanometers(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
