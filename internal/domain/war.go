package domain

// Trend classifies the recent direction of the wealth-asset ratio.
type Trend string

// Trends.
const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// WARTier labels the efficiency band of a ratio.
type WARTier string

// WAR efficiency tiers.
const (
	WARTierLegendary WARTier = "legendary"
	WARTierExcellent WARTier = "excellent"
	WARTierGood      WARTier = "good"
	WARTierAverage   WARTier = "average"
	WARTierPoor      WARTier = "poor"
)

// WARSample is one append-only history point.
type WARSample struct {
	AccountID  string
	Ratio      float64
	RecordedAt int64 // unix ms
}

// WARRecord is the wealth-asset-ratio view of an account, recomputed
// on demand from current balances and portfolio value.
type WARRecord struct {
	AccountID      string
	Ratio          float64
	PeakRatio      float64
	Tier           WARTier
	Trend          Trend
	Rank           int // assigned externally from the leaderboard snapshot
	PortfolioValue int64
	History        []WARSample
}
