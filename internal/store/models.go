package store

import (
	"time"

	"tvschema/internal/tabular"
)

// Run is the metadata of one stored build.
type Run struct {
	ID                     string    `json:"run_id"`
	StartedAt              time.Time `json:"started_at"`
	FinishedAt             time.Time `json:"finished_at"`
	SpecsPath              string    `json:"specs_path,omitempty"`
	SpectralPath           string    `json:"spectral_path,omitempty"`
	OutputCSV              string    `json:"output_csv,omitempty"`
	OutputJSON             string    `json:"output_json,omitempty"`
	TotalProducts          int       `json:"total_products"`
	Reclassified           int       `json:"reclassified"`
	UnresolvedKSF          int       `json:"unresolved_ksf"`
	UnrecognizedBacklights int       `json:"unrecognized_backlights"`
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Reclassification is one stored KSF to Pseudo QD correction.
type Reclassification struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"fullname"`
	Brand          string `json:"brand"`
	MarketingLabel string `json:"marketing_label"`
}

// Snapshot is everything saved for a run.
type Snapshot struct {
	Run              Run
	Table            *tabular.Table
	Reclassification []Reclassification
}
