package testsupport

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"tvschema/internal/config"
)

// SpecsHeader is the minimal specification table header.
var SpecsHeader = []string{"product_id", "fullname", "brand", "panel_type", "backlight_type", "dimming_zone_count"}

// SpectralHeader is the full spectral table header.
var SpectralHeader = []string{
	"product_id", "spd_classification", "spd_confidence", "ground_truth_tech", "ground_truth_qd_type",
	"match_status", "blue_peak_nm", "blue_fwhm_nm", "green_peak_nm", "green_fwhm_nm",
	"red_peak_nm", "red_fwhm_nm", "num_peaks",
}

// WriteCSV writes header and rows to path, creating parent directories.
func WriteCSV(t testing.TB, path string, header []string, rows ...[]string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("write header %s: %v", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			t.Fatalf("write row %s: %v", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush %s: %v", path, err)
	}
}

// WriteSpecs writes specification rows in SpecsHeader order.
func WriteSpecs(t testing.TB, cfg *config.Config, rows ...[]string) {
	t.Helper()
	WriteCSV(t, cfg.Paths.SpecsFile, SpecsHeader, rows...)
}

// SpectralRow builds a spectral row with the classification, confidence and
// green FWHM set and every other measurement empty.
func SpectralRow(productID, classification, confidence, greenFWHM string) []string {
	row := make([]string, len(SpectralHeader))
	row[0] = productID
	row[1] = classification
	row[2] = confidence
	row[9] = greenFWHM
	return row
}

// WriteSpectral writes spectral rows in SpectralHeader order.
func WriteSpectral(t testing.TB, cfg *config.Config, rows ...[]string) {
	t.Helper()
	WriteCSV(t, cfg.Paths.SpectralFile, SpectralHeader, rows...)
}
