package model

// TrendingStock is one entry of the ranked global screener output.
// Slope and AvgRangePct are retained for reporting only.
type TrendingStock struct {
	Symbol      string  `csv:"symbol"`
	Slope       float64 `csv:"slope_pct_per_day"`
	AvgRangePct float64 `csv:"avg_daily_range_pct"`
}

// TradeDecision is a buy candidate produced by the signal generator,
// consumed within the same cycle.
type TradeDecision struct {
	Symbol    string
	LastClose float64
	Target    float64 // stop-limit sell target, fixed at decision time
	Edge      float64 // Target - LastClose, per share
}

// CycleSummary aggregates what one active cycle did, for reporting.
type CycleSummary struct {
	UniverseSize   int
	TrendingCount  int
	BuySignals     int
	SellSignals    int
	BuysSubmitted  int
	SellsSubmitted int
	Skipped        int
}
