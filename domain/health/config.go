package health

// Correlation methods accepted by the analysis engine.
const (
	MethodSpearman = "spearman"
	MethodPearson  = "pearson"
)

// Analysis defaults.
const (
	DefaultMaxLagDays        = 3
	DefaultDetrendWindowDays = 7
)

// AnalysisConfig selects the correlation method and lag window for one
// analysis request.
type AnalysisConfig struct {
	Method            string `json:"method"`
	MaxLagDays        int    `json:"max_lag_days"`
	DetrendWindowDays int    `json:"detrend_window_days"`
}

// DefaultAnalysisConfig returns the standard configuration: Spearman
// correlation over a three-day lag window with a seven-day detrend window.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Method:            MethodSpearman,
		MaxLagDays:        DefaultMaxLagDays,
		DetrendWindowDays: DefaultDetrendWindowDays,
	}
}

// Normalize fills empty or out-of-range settings with defaults so that the
// engine never has to branch on malformed configuration.
func (c AnalysisConfig) Normalize() AnalysisConfig {
	if c.Method != MethodPearson {
		c.Method = MethodSpearman
	}
	if c.MaxLagDays < 0 {
		c.MaxLagDays = DefaultMaxLagDays
	}
	if c.DetrendWindowDays < 1 {
		c.DetrendWindowDays = DefaultDetrendWindowDays
	}
	return c
}
