package config

const (
	defaultWorkdir        = "analysis"
	defaultScorer         = "glosa"
	defaultGenerator      = "java"
	defaultGeneratorClass = "AssignChemicalFeatures"
	defaultLedgerFile     = "sredun.db"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Workdir: defaultWorkdir,
		},
		Tools: Tools{
			GeneratorClass: defaultGeneratorClass,
		},
		Compare: Compare{
			Concurrent: false,
			Workers:    0,
			Threshold:  0.0,
			Exclusive:  false,
		},
		Ledger: Ledger{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
