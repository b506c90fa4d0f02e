package classify

import (
	"log/slog"
	"slices"
	"strings"

	"tvschema/internal/derive"
	"tvschema/internal/logging"
	"tvschema/internal/rules"
	"tvschema/internal/tabular"
	"tvschema/internal/taxonomy"
)

// DefaultPseudoQDLabels are the marketing labels that mark a KSF set as Pseudo QD.
var DefaultPseudoQDLabels = []string{"QLED", "QNED", "ULED"}

// Options configures an Engine.
type Options struct {
	Rules          *rules.Table
	Material       derive.MaterialPolicy
	PseudoQDLabels []string
	Logger         *slog.Logger
}

// Engine classifies merged rows. It holds no per-run state and can be reused.
type Engine struct {
	rules          *rules.Table
	material       derive.MaterialPolicy
	pseudoQDLabels map[string]struct{}
	logger         *slog.Logger
}

// NewEngine builds an engine. A nil rule table yields empty marketing labels.
// A zero material policy and an empty label list fall back to the defaults.
func NewEngine(opts Options) *Engine {
	labels := opts.PseudoQDLabels
	if len(labels) == 0 {
		labels = DefaultPseudoQDLabels
	}
	material := opts.Material
	if material.CdSeFWHMThresholdNM <= 0 {
		material = derive.DefaultMaterialPolicy()
	}
	return &Engine{
		rules:          opts.Rules,
		material:       material,
		pseudoQDLabels: LabelSet(labels...),
		logger:         logging.NewComponentLogger(opts.Logger, "classify"),
	}
}

// Reclassification itemizes one KSF row corrected to Pseudo QD.
type Reclassification struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"fullname"`
	Brand          string `json:"brand"`
	MarketingLabel string `json:"marketing_label"`
}

// UnresolvedKSF is a row left as KSF because its marketing label gives no
// quantum dot evidence.
type UnresolvedKSF struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"fullname"`
	Brand          string `json:"brand"`
	MarketingLabel string `json:"marketing_label"`
}

// BacklightFlag counts an unrecognized vendor backlight value.
type BacklightFlag struct {
	Value      string   `json:"value"`
	Count      int      `json:"count"`
	ProductIDs []string `json:"product_ids"`
}

// BrandFold records a brand whose material was decided by a brand list
// entry spelled differently, for example "samsung" matching "Samsung".
type BrandFold struct {
	Brand      string   `json:"brand"`
	Configured string   `json:"configured"`
	ProductIDs []string `json:"product_ids"`
}

// Result is the output of one engine run.
type Result struct {
	Records                []Record
	Table                  *tabular.Table
	Reclassified           []Reclassification
	UnresolvedKSF          []UnresolvedKSF
	UnrecognizedBacklights []BacklightFlag
	UnlabeledBrands        []string
	FoldedBrands           []BrandFold
}

// Run classifies every merged row. Rows are processed independently and
// output order matches input order.
func (e *Engine) Run(merged *tabular.Table) *Result {
	records := make([]Record, 0, merged.Len())
	for _, row := range merged.Rows {
		records = append(records, e.deriveIndependent(row.Clone()))
	}

	reclassified := Reclassify(records, e.pseudoQDLabels)

	for i := range records {
		e.deriveDependent(&records[i])
		records[i].apply()
	}

	out := tabular.New("classified", merged.Columns...)
	for _, col := range slices.Concat(DerivedColumns, []string{ColDimmingZones, ColSPDConfidence}) {
		out.AddColumn(col)
	}
	for i := range records {
		out.Rows = append(out.Rows, records[i].Row)
	}

	result := &Result{
		Records:      records,
		Table:        out,
		Reclassified: reclassified,
	}
	e.collectDiagnostics(result)
	e.logResult(result)
	return result
}

func (e *Engine) deriveIndependent(row tabular.Row) Record {
	rec := Record{
		Row:       row,
		ProductID: strings.TrimSpace(row.Value(ColProductID)),
		Name:      row.Value(ColFullname),
		Brand:     strings.TrimSpace(row.Value(ColBrand)),
	}
	rec.Display = derive.DisplayType(row.Value(ColPanelType))
	rec.BacklightRaw = row.Value(ColBacklightRaw)
	rec.Backlight, rec.BacklightRecognized = derive.Backlight(rec.BacklightRaw, rec.Display)
	rec.DimmingZones, rec.HasDimmingZones = derive.DimmingZones(row.Value(ColDimmingZones), rec.Display)

	rec.RawClassification = row.Value(ColSPDClassification)
	rec.Architecture = derive.ColorArchitecture(rec.RawClassification)
	rec.SPDVerified = derive.SPDVerified(rec.RawClassification)
	rawConfidence, hasConfidence := row.Get(ColSPDConfidence)
	rec.Confidence, rec.HasConfidence = taxonomy.ParseConfidence(rawConfidence), hasConfidence

	// The label reads the architecture before reclassification.
	rec.MarketingLabel = e.rules.Label(rec.Brand, rec.Name, rec.Architecture)
	return rec
}

// Reclassify rewrites KSF records whose marketing label is in labels to
// Pseudo QD with medium confidence and returns the rows it changed. Records
// already at Pseudo QD are never touched, so a second pass returns nothing.
func Reclassify(records []Record, labels map[string]struct{}) []Reclassification {
	var changed []Reclassification
	for i := range records {
		rec := &records[i]
		if rec.Architecture != taxonomy.ArchKSF {
			continue
		}
		if _, ok := labels[rec.MarketingLabel]; !ok {
			continue
		}
		rec.Architecture = taxonomy.ArchPseudoQD
		rec.Confidence = taxonomy.ConfidenceMedium
		rec.HasConfidence = true
		rec.Reclassified = true
		changed = append(changed, Reclassification{
			ProductID:      rec.ProductID,
			Name:           rec.Name,
			Brand:          rec.Brand,
			MarketingLabel: rec.MarketingLabel,
		})
	}
	return changed
}

func (e *Engine) deriveDependent(rec *Record) {
	rec.QDPresent = derive.QDPresent(rec.Architecture)
	rec.QDMaterial, rec.MaterialBasis = e.material.Material(rec.Architecture, rec.Brand, rec.Row.Value(ColGreenFWHM))
}

func (e *Engine) collectDiagnostics(result *Result) {
	backlights := map[string]*BacklightFlag{}
	var order []string
	unlabeled := map[string]struct{}{}
	folds := map[string]*BrandFold{}
	var foldOrder []string

	for _, rec := range result.Records {
		if rec.Architecture == taxonomy.ArchKSF {
			result.UnresolvedKSF = append(result.UnresolvedKSF, UnresolvedKSF{
				ProductID:      rec.ProductID,
				Name:           rec.Name,
				Brand:          rec.Brand,
				MarketingLabel: rec.MarketingLabel,
			})
		}
		if !rec.BacklightRecognized {
			flag, ok := backlights[rec.BacklightRaw]
			if !ok {
				flag = &BacklightFlag{Value: rec.BacklightRaw}
				backlights[rec.BacklightRaw] = flag
				order = append(order, rec.BacklightRaw)
			}
			flag.Count++
			flag.ProductIDs = append(flag.ProductIDs, rec.ProductID)
		}
		if name, differs := e.material.ConfiguredBrand(rec.MaterialBasis, rec.Brand); differs {
			fold, ok := folds[rec.Brand]
			if !ok {
				fold = &BrandFold{Brand: rec.Brand, Configured: name}
				folds[rec.Brand] = fold
				foldOrder = append(foldOrder, rec.Brand)
			}
			fold.ProductIDs = append(fold.ProductIDs, rec.ProductID)
		}
		if rec.Brand != "" && !e.rules.Lookup(rec.Brand, rec.Name, rec.Architecture).KnownBrand {
			unlabeled[rec.Brand] = struct{}{}
		}
	}
	for _, value := range order {
		result.UnrecognizedBacklights = append(result.UnrecognizedBacklights, *backlights[value])
	}
	for _, brand := range foldOrder {
		result.FoldedBrands = append(result.FoldedBrands, *folds[brand])
	}
	for brand := range unlabeled {
		result.UnlabeledBrands = append(result.UnlabeledBrands, brand)
	}
	slices.Sort(result.UnlabeledBrands)
}

func (e *Engine) logResult(result *Result) {
	for _, item := range result.Reclassified {
		attrs := logging.DecisionAttrs("pseudo_qd_reclassification", taxonomy.ArchPseudoQD.String(), "KSF spectrum marketed as "+item.MarketingLabel)
		attrs = append(attrs,
			logging.String(logging.FieldProductID, item.ProductID),
			logging.String("fullname", item.Name),
			logging.String("marketing_label", item.MarketingLabel),
		)
		e.logger.Info("reclassified KSF as Pseudo QD", logging.Args(attrs...)...)
	}
	for _, flag := range result.UnrecognizedBacklights {
		logging.WarnWithContext(e.logger, "unrecognized backlight value passed through", "backlight_unrecognized",
			logging.String("backlight_type", flag.Value),
			logging.Int("rows", flag.Count),
			logging.Any("product_ids", flag.ProductIDs),
			logging.String(logging.FieldErrorHint, "add a mapping for this vendor value"),
			logging.String(logging.FieldImpact, "backlight_type_v2 holds a value outside the schema vocabulary"),
		)
	}
	for _, fold := range result.FoldedBrands {
		logging.WarnWithContext(e.logger, "brand matched material list ignoring case", "brand_case_folded",
			logging.String("brand", fold.Brand),
			logging.String("configured_brand", fold.Configured),
			logging.Any("product_ids", fold.ProductIDs),
			logging.String(logging.FieldErrorHint, "normalize the brand spelling in the specification table"),
			logging.String(logging.FieldImpact, "qd_material decided by the brand list entry"),
		)
	}
	for _, item := range result.UnresolvedKSF {
		e.logger.Debug("KSF classification left unresolved",
			logging.String(logging.FieldProductID, item.ProductID),
			logging.String("fullname", item.Name),
			logging.String("marketing_label", item.MarketingLabel),
		)
	}
	if len(result.UnlabeledBrands) > 0 {
		e.logger.Info("brands without marketing rules",
			logging.Any("brands", result.UnlabeledBrands),
			logging.String(logging.FieldEventType, "marketing_rules_missing"),
		)
	}
	e.logger.Info("classification complete",
		logging.Int("products", len(result.Records)),
		logging.Int("reclassified", len(result.Reclassified)),
		logging.Int("unresolved_ksf", len(result.UnresolvedKSF)),
	)
}

// LabelSet builds the lookup set Reclassify expects.
func LabelSet(labels ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		set[strings.TrimSpace(label)] = struct{}{}
	}
	return set
}
