package build

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"tvschema/internal/classify"
	"tvschema/internal/config"
	"tvschema/internal/derive"
	"tvschema/internal/fileutil"
	"tvschema/internal/logging"
	"tvschema/internal/merge"
	"tvschema/internal/metrics"
	"tvschema/internal/preflight"
	"tvschema/internal/projection"
	"tvschema/internal/report"
	"tvschema/internal/rules"
	"tvschema/internal/store"
	"tvschema/internal/tabular"
	"tvschema/internal/textutil"
)

// Stage names used in logs and wrapped errors.
const (
	StagePreflight = "preflight"
	StageLoad      = "load"
	StageMerge     = "merge"
	StageClassify  = "classify"
	StageWrite     = "write"
	StageSnapshot  = "snapshot"
)

// Options adjusts a single run. Empty path overrides keep the configured value.
type Options struct {
	Logger       *slog.Logger
	DryRun       bool
	SpecsPath    string
	SpectralPath string
	OutputCSV    string
	OutputJSON   string
	// LockTimeout bounds the wait for another run holding the output lock.
	LockTimeout time.Duration
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Report describes a finished run.
type Report struct {
	RunID        string    `json:"run_id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	DryRun       bool      `json:"dry_run"`
	SpecsPath    string    `json:"specs_path"`
	SpectralPath string    `json:"spectral_path"`
	RulesSource  string    `json:"marketing_rules"`

	Merge                  MergeStats                  `json:"merge"`
	Products               int                         `json:"products"`
	Reclassified           []classify.Reclassification `json:"reclassified"`
	UnresolvedKSF          []classify.UnresolvedKSF    `json:"unresolved_ksf"`
	UnrecognizedBacklights []classify.BacklightFlag    `json:"unrecognized_backlights"`
	UnlabeledBrands        []string                    `json:"unlabeled_brands"`
	FoldedBrands           []classify.BrandFold        `json:"folded_brands"`

	Outputs     []string       `json:"outputs"`
	StoreSaved  bool           `json:"store_saved"`
	MetricsPath string         `json:"metrics_path,omitempty"`
	Summary     report.Summary `json:"summary"`

	Table *tabular.Table `json:"-"`
}

// MergeStats is the JSON form of the join diagnostics.
type MergeStats struct {
	SpecRows             int      `json:"spec_rows"`
	SpectralRows         int      `json:"spectral_rows"`
	Matched              int      `json:"matched"`
	Unmatched            int      `json:"unmatched"`
	Orphans              []string `json:"orphans"`
	DuplicateSpecIDs     []string `json:"duplicate_spec_ids"`
	DuplicateSpectralIDs []string `json:"duplicate_spectral_ids"`
	Overwritten          []string `json:"overwritten_columns"`
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Run executes one build.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Report, error) {
	if cfg == nil {
		return nil, Wrap(ErrConfiguration, StagePreflight, "config", "configuration is required", nil)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	runCfg := *cfg
	applyOverrides(&runCfg, opts)

	rep := &Report{
		RunID:        uuid.NewString(),
		StartedAt:    now().UTC(),
		DryRun:       opts.DryRun,
		SpecsPath:    runCfg.Paths.SpecsFile,
		SpectralPath: runCfg.Paths.SpectralFile,
	}
	ctx = logging.WithRunID(ctx, rep.RunID)
	base := logging.NewComponentLogger(opts.Logger, "build")
	logger := logging.WithContext(ctx, base)

	logger.Info("build started",
		logging.String("specs", runCfg.Paths.SpecsFile),
		logging.String("spectral", runCfg.Paths.SpectralFile),
		logging.Bool("dry_run", opts.DryRun),
		logging.Float64("cdse_fwhm_threshold_nm", runCfg.Classification.CdSeFWHMThresholdNM),
	)

	if err := runPreflight(&runCfg, opts.DryRun); err != nil {
		return nil, err
	}

	stageLogger := logging.WithContext(logging.WithStage(ctx, StageLoad), base)
	specs, spectral, err := loadInputs(&runCfg, stageLogger)
	if err != nil {
		return nil, err
	}

	stageLogger = logging.WithContext(logging.WithStage(ctx, StageMerge), base)
	merged, stats := merge.LeftJoin(specs, spectral)
	rep.Merge = mergeStats(stats)
	logMerge(stageLogger, stats)

	catalog := rules.NewCatalog(runCfg.Classification.MarketingRulesPath, stageLogger)
	ruleTable, err := catalog.Table()
	if err != nil {
		return nil, Wrap(ErrConfiguration, StageClassify, "load marketing rules", "", err)
	}
	rep.RulesSource = catalog.Source()

	stageLogger = logging.WithContext(logging.WithStage(ctx, StageClassify), opts.Logger)
	engine := classify.NewEngine(classify.Options{
		Rules:          ruleTable,
		Material:       materialPolicy(&runCfg),
		PseudoQDLabels: runCfg.Classification.PseudoQDMarketingLabels,
		Logger:         stageLogger,
	})
	result := engine.Run(merged)
	published := projection.Project(result.Table)

	rep.Products = published.Len()
	rep.Reclassified = result.Reclassified
	rep.UnresolvedKSF = result.UnresolvedKSF
	rep.UnrecognizedBacklights = result.UnrecognizedBacklights
	rep.UnlabeledBrands = result.UnlabeledBrands
	rep.FoldedBrands = result.FoldedBrands
	rep.Summary = report.Build(published)
	rep.Table = published

	if opts.DryRun {
		rep.FinishedAt = now().UTC()
		logger.Info("dry run complete; no files written",
			logging.Int("products", rep.Products),
			logging.Int("reclassified", len(rep.Reclassified)),
		)
		return rep, nil
	}

	stageLogger = logging.WithContext(logging.WithStage(ctx, StageWrite), base)
	if err := writeOutputs(ctx, &runCfg, opts, rep, stageLogger); err != nil {
		return nil, err
	}
	rep.FinishedAt = now().UTC()

	stageLogger = logging.WithContext(logging.WithStage(ctx, StageSnapshot), base)
	rep.StoreSaved = saveSnapshot(ctx, &runCfg, rep, stageLogger)
	rep.MetricsPath = writeMetrics(&runCfg, result, rep, stageLogger)

	logger.Info("build complete",
		logging.Int("products", rep.Products),
		logging.Int("reclassified", len(rep.Reclassified)),
		logging.Int("unresolved_ksf", len(rep.UnresolvedKSF)),
		logging.Duration("duration", rep.Duration()),
	)
	return rep, nil
}

func applyOverrides(cfg *config.Config, opts Options) {
	if v := strings.TrimSpace(opts.SpecsPath); v != "" {
		cfg.Paths.SpecsFile = v
	}
	if v := strings.TrimSpace(opts.SpectralPath); v != "" {
		cfg.Paths.SpectralFile = v
	}
	if v := strings.TrimSpace(opts.OutputCSV); v != "" {
		cfg.Paths.OutputCSV = v
	}
	if v := strings.TrimSpace(opts.OutputJSON); v != "" {
		cfg.Paths.OutputJSON = v
	}
}

func runPreflight(cfg *config.Config, dryRun bool) error {
	checkCfg := *cfg
	if dryRun {
		checkCfg.Store.Enabled = false
		checkCfg.Metrics.TextfilePath = ""
	}
	failed := preflight.Failed(preflight.RunAll(&checkCfg))
	if len(failed) == 0 {
		return nil
	}
	details := make([]string, 0, len(failed))
	for _, r := range failed {
		details = append(details, r.Name+": "+r.Detail)
	}
	marker := ErrConfiguration
	if failed[0].Name == "Specification table" || failed[0].Name == "Spectral table" {
		marker = ErrInput
	}
	return Wrap(marker, StagePreflight, "check", strings.Join(details, "; "), nil)
}

func loadInputs(cfg *config.Config, logger *slog.Logger) (*tabular.Table, *tabular.Table, error) {
	specs, err := tabular.ReadFile(cfg.Paths.SpecsFile)
	if err != nil {
		return nil, nil, Wrap(ErrInput, StageLoad, "read specification table", cfg.Paths.SpecsFile, err)
	}
	specs.Name = "specification table"
	spectral, err := tabular.ReadFile(cfg.Paths.SpectralFile)
	if err != nil {
		return nil, nil, Wrap(ErrInput, StageLoad, "read spectral table", cfg.Paths.SpectralFile, err)
	}
	spectral.Name = "spectral table"

	if err := specs.RequireColumns(classify.RequiredSpecColumns...); err != nil {
		return nil, nil, Wrap(ErrValidation, StageLoad, "check columns", "", err)
	}
	required := append([]string{merge.KeyColumn}, merge.SpectralColumns...)
	if err := spectral.RequireColumns(required...); err != nil {
		return nil, nil, Wrap(ErrValidation, StageLoad, "check columns", "", err)
	}

	logger.Info("inputs loaded",
		logging.Int("specification_rows", specs.Len()),
		logging.Int("spectral_rows", spectral.Len()),
	)
	return specs, spectral, nil
}

func logMerge(logger *slog.Logger, stats merge.Stats) {
	logger.Info("tables merged",
		logging.Int("matched", stats.Matched),
		logging.Int("unmatched", stats.Unmatched),
	)
	if len(stats.DuplicateSpecIDs) > 0 {
		logging.WarnWithContext(logger, "duplicate product ids in specification table", "join_duplicate_spec_ids",
			logging.Alert("duplicate_rows"),
			logging.Any("product_ids", stats.DuplicateSpecIDs),
			logging.String(logging.FieldErrorHint, "deduplicate the specification table upstream"),
			logging.String(logging.FieldImpact, "each duplicate produces its own output row"),
		)
	}
	if len(stats.DuplicateSpectralIDs) > 0 {
		logging.WarnWithContext(logger, "duplicate product ids in spectral table", "join_duplicate_spectral_ids",
			logging.Any("product_ids", stats.DuplicateSpectralIDs),
			logging.String(logging.FieldImpact, "only the first spectral row per product is used"),
		)
	}
	if len(stats.Orphans) > 0 {
		logging.WarnWithContext(logger, "spectral rows without a specification row", "join_orphans",
			logging.Any("product_ids", stats.Orphans),
			logging.String(logging.FieldImpact, "spectral data dropped"),
		)
	}
	if len(stats.Overwritten) > 0 {
		logging.WarnWithContext(logger, "specification columns replaced by spectral values", "join_column_overlap",
			logging.Any("columns", stats.Overwritten),
		)
	}
}

func mergeStats(stats merge.Stats) MergeStats {
	return MergeStats{
		SpecRows:             stats.SpecRows,
		SpectralRows:         stats.SpectralRows,
		Matched:              stats.Matched,
		Unmatched:            stats.Unmatched,
		Orphans:              stats.Orphans,
		DuplicateSpecIDs:     stats.DuplicateSpecIDs,
		DuplicateSpectralIDs: stats.DuplicateSpectralIDs,
		Overwritten:          stats.Overwritten,
	}
}

func materialPolicy(cfg *config.Config) derive.MaterialPolicy {
	return derive.MaterialPolicy{
		CdSeFWHMThresholdNM: cfg.Classification.CdSeFWHMThresholdNM,
		InPOverrideBrands:   textutil.NewBrandSet(cfg.Classification.InPOverrideBrands...),
		CdSeFallbackBrands:  textutil.NewBrandSet(cfg.Classification.CdSeFallbackBrands...),
	}
}

func writeOutputs(ctx context.Context, cfg *config.Config, opts Options, rep *Report, logger *slog.Logger) error {
	lock, err := fileutil.LockDir(ctx, cfg.OutputDir(), opts.LockTimeout)
	if err != nil {
		if errors.Is(err, fileutil.ErrLocked) {
			return Wrap(ErrOutput, StageWrite, "lock output directory", "another build is running", err)
		}
		return Wrap(ErrOutput, StageWrite, "lock output directory", "", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("release output lock failed", logging.Error(err))
		}
	}()

	if err := tabular.WriteCSV(cfg.Paths.OutputCSV, rep.Table); err != nil {
		return Wrap(ErrOutput, StageWrite, "write csv", cfg.Paths.OutputCSV, err)
	}
	rep.Outputs = append(rep.Outputs, cfg.Paths.OutputCSV)
	if cfg.Paths.OutputJSON != "" {
		env := tabular.Envelope{BuiltAt: rep.StartedAt, RunID: rep.RunID, Table: rep.Table}
		if err := tabular.WriteJSON(cfg.Paths.OutputJSON, env); err != nil {
			return Wrap(ErrOutput, StageWrite, "write json", cfg.Paths.OutputJSON, err)
		}
		rep.Outputs = append(rep.Outputs, cfg.Paths.OutputJSON)
	}

	for _, path := range rep.Outputs {
		logger.Info("output written", logging.String("path", path), logging.Int("rows", rep.Table.Len()))
	}
	return nil
}

// saveSnapshot records the run in the history store. Failures are logged
// and do not fail the build; the output files are already in place.
func saveSnapshot(ctx context.Context, cfg *config.Config, rep *Report, logger *slog.Logger) bool {
	if !cfg.Store.Enabled {
		return false
	}
	st, err := store.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "history store unavailable", "store_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run not recorded; summary and history will not show it"),
		)
		return false
	}
	defer st.Close()

	snap := store.Snapshot{
		Run: store.Run{
			ID:                     rep.RunID,
			StartedAt:              rep.StartedAt,
			FinishedAt:             rep.FinishedAt,
			SpecsPath:              rep.SpecsPath,
			SpectralPath:           rep.SpectralPath,
			OutputCSV:              cfg.Paths.OutputCSV,
			OutputJSON:             cfg.Paths.OutputJSON,
			TotalProducts:          rep.Products,
			Reclassified:           len(rep.Reclassified),
			UnresolvedKSF:          len(rep.UnresolvedKSF),
			UnrecognizedBacklights: len(rep.UnrecognizedBacklights),
		},
		Table: rep.Table,
	}
	for _, item := range rep.Reclassified {
		snap.Reclassification = append(snap.Reclassification, store.Reclassification{
			ProductID:      item.ProductID,
			Name:           item.Name,
			Brand:          item.Brand,
			MarketingLabel: item.MarketingLabel,
		})
	}
	if err := st.SaveRun(ctx, snap); err != nil {
		logging.WarnWithContext(logger, "save run snapshot failed", "store_save_failed",
			logging.Error(err),
			logging.String("path", st.Path()),
		)
		return false
	}
	logger.Debug("run snapshot saved", logging.String("path", st.Path()))
	return true
}

func writeMetrics(cfg *config.Config, result *classify.Result, rep *Report, logger *slog.Logger) string {
	path := cfg.Metrics.TextfilePath
	if path == "" {
		return ""
	}
	m := metrics.New()
	m.Observe(result)
	m.Finish(rep.StartedAt, rep.FinishedAt)
	if err := m.WriteTextfile(path); err != nil {
		logging.WarnWithContext(logger, "metrics textfile not written", "metrics_write_failed",
			logging.Error(err),
			logging.String("path", path),
		)
		return ""
	}
	return path
}
