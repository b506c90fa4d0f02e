package config

import "tvschema/internal/derive"

const (
	defaultDataDir      = "data"
	defaultSpecsFile    = "rtings_tv_data.csv"
	defaultSpectralFile = "spd_analysis_results.csv"
	defaultOutputCSV    = "tv_database.csv"
	defaultOutputJSON   = "tv_database.json"
	defaultStateDir     = "~/.local/state/tvschema"
	defaultStoreFile    = "tvschema.db"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

var defaultPseudoQDMarketingLabels = []string{"QLED", "QNED", "ULED"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:      defaultDataDir,
			SpecsFile:    defaultSpecsFile,
			SpectralFile: defaultSpectralFile,
			OutputCSV:    defaultOutputCSV,
			OutputJSON:   defaultOutputJSON,
			StateDir:     defaultStateDir,
		},
		Classification: Classification{
			CdSeFWHMThresholdNM:     derive.DefaultCdSeFWHMThresholdNM,
			InPOverrideBrands:       append([]string(nil), derive.DefaultInPOverrideBrands...),
			CdSeFallbackBrands:      append([]string(nil), derive.DefaultCdSeFallbackBrands...),
			PseudoQDMarketingLabels: append([]string(nil), defaultPseudoQDMarketingLabels...),
		},
		Store: Store{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
