package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tvschema/internal/classify"
)

const namespace = "tvschema"

// BuildMetrics holds the collectors for one build.
type BuildMetrics struct {
	registry *prometheus.Registry

	productsByDisplay      *prometheus.CounterVec
	productsByArchitecture *prometheus.CounterVec
	productsByMaterial     *prometheus.CounterVec
	reclassified           prometheus.Counter
	unrecognizedBacklight  *prometheus.CounterVec
	unresolvedKSF          prometheus.Gauge
	runDuration            prometheus.Gauge
	lastSuccess            prometheus.Gauge
}

// New registers the build collectors on a fresh registry.
func New() *BuildMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &BuildMetrics{
		registry: reg,
		productsByDisplay: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "products_by_display_type_total",
			Help:      "Classified products per display type.",
		}, []string{"display_type"}),
		productsByArchitecture: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "products_by_color_architecture_total",
			Help:      "Classified products per final color architecture.",
		}, []string{"color_architecture"}),
		productsByMaterial: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "products_by_qd_material_total",
			Help:      "Quantum dot products per material.",
		}, []string{"qd_material"}),
		reclassified: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pseudo_qd_reclassified_total",
			Help:      "KSF products reclassified as Pseudo QD.",
		}),
		unrecognizedBacklight: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unrecognized_backlight_total",
			Help:      "Products whose vendor backlight value is outside the vocabulary.",
		}, []string{"value"}),
		unresolvedKSF: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unresolved_ksf_products",
			Help:      "Products left as KSF after reclassification.",
		}),
		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Wall time of the last build.",
		}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful build.",
		}),
	}
}

// Registry exposes the underlying registry.
func (m *BuildMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records a classification result.
func (m *BuildMetrics) Observe(result *classify.Result) {
	if result == nil {
		return
	}
	for _, rec := range result.Records {
		m.productsByDisplay.WithLabelValues(rec.Display.String()).Inc()
		arch := rec.Architecture.String()
		if arch == "" {
			arch = "none"
		}
		m.productsByArchitecture.WithLabelValues(arch).Inc()
		if !rec.QDMaterial.IsNull() {
			m.productsByMaterial.WithLabelValues(rec.QDMaterial.String()).Inc()
		}
	}
	m.reclassified.Add(float64(len(result.Reclassified)))
	for _, flag := range result.UnrecognizedBacklights {
		m.unrecognizedBacklight.WithLabelValues(flag.Value).Add(float64(flag.Count))
	}
	m.unresolvedKSF.Set(float64(len(result.UnresolvedKSF)))
}

// Finish records the run duration and success time.
func (m *BuildMetrics) Finish(started, finished time.Time) {
	m.runDuration.Set(finished.Sub(started).Seconds())
	m.lastSuccess.Set(float64(finished.Unix()))
}

// WriteTextfile writes the registry to path. The write is atomic.
func (m *BuildMetrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
