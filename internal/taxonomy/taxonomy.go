package taxonomy

import "strings"

// DisplayType is the panel family of a television.
type DisplayType string

const (
	DisplayOLED DisplayType = "OLED"
	DisplayLCD  DisplayType = "LCD"
	// DisplayMicroLED is reserved; no upstream panel value maps to it yet.
	DisplayMicroLED DisplayType = "MicroLED"
)

func (d DisplayType) String() string { return string(d) }

// BacklightType is the LCD backlight layout. The zero value is null.
// Values outside the vocabulary are vendor strings passed through unchanged.
type BacklightType string

const (
	BacklightNone       BacklightType = ""
	BacklightEdgeLit    BacklightType = "Edge-lit"
	BacklightDirectLit  BacklightType = "Direct-lit"
	BacklightRGBMiniLED BacklightType = "RGB Mini-LED"
)

// Known reports whether b is null or part of the backlight vocabulary.
func (b BacklightType) Known() bool {
	switch b {
	case BacklightNone, BacklightEdgeLit, BacklightDirectLit, BacklightRGBMiniLED:
		return true
	}
	return false
}

// IsNull reports whether no backlight applies.
func (b BacklightType) IsNull() bool { return b == BacklightNone }

func (b BacklightType) String() string { return string(b) }

// ColorArchitecture is the color-conversion chemistry of a display.
// It starts as the raw spectral classifier output, which may also be an
// error sentinel or empty; Known distinguishes vocabulary members.
type ColorArchitecture string

const (
	ArchWLED     ColorArchitecture = "WLED"
	ArchKSF      ColorArchitecture = "KSF"
	ArchPseudoQD ColorArchitecture = "Pseudo QD"
	ArchQDLCD    ColorArchitecture = "QD-LCD"
	ArchQDOLED   ColorArchitecture = "QD-OLED"
	ArchWOLED    ColorArchitecture = "WOLED"
)

// Raw spectral classifier sentinels.
const (
	SentinelNoImage   = "NO_SPD_IMAGE"
	SentinelErrPrefix = "ERROR"
)

// Known reports whether a is part of the color architecture vocabulary.
func (a ColorArchitecture) Known() bool {
	switch a {
	case ArchWLED, ArchKSF, ArchPseudoQD, ArchQDLCD, ArchQDOLED, ArchWOLED:
		return true
	}
	return false
}

// HasQuantumDots reports whether the architecture uses true quantum dot conversion.
// Pseudo QD is deliberately excluded.
func (a ColorArchitecture) HasQuantumDots() bool {
	return a == ArchQDLCD || a == ArchQDOLED
}

func (a ColorArchitecture) String() string { return string(a) }

// QDMaterial is the quantum dot chemistry. The zero value is null.
type QDMaterial string

const (
	MaterialNone    QDMaterial = ""
	MaterialCdSe    QDMaterial = "CdSe"
	MaterialInP     QDMaterial = "InP"
	MaterialUnknown QDMaterial = "Unknown"
	// MaterialPerovskite is reserved; no derivation rule produces it yet.
	MaterialPerovskite QDMaterial = "Perovskite"
)

// IsNull reports whether no material applies.
func (m QDMaterial) IsNull() bool { return m == MaterialNone }

func (m QDMaterial) String() string { return string(m) }

// Confidence is the spectral classifier's categorical certainty. The zero value is null.
type Confidence string

const (
	ConfidenceNone   Confidence = ""
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ParseConfidence lower-cases and trims raw; unrecognized values are kept as-is.
func ParseConfidence(raw string) Confidence {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "low":
		return ConfidenceLow
	case "medium":
		return ConfidenceMedium
	case "high":
		return ConfidenceHigh
	}
	return Confidence(trimmed)
}

func (c Confidence) String() string { return string(c) }

// YesNo is a two-valued schema flag rendered as "Yes" or "No".
type YesNo bool

const (
	Yes YesNo = true
	No  YesNo = false
)

func (y YesNo) String() string {
	if y {
		return "Yes"
	}
	return "No"
}
