package screener

import (
	"log"
	"sort"
	"time"

	"MomentumScalper/internal/broker"
	"MomentumScalper/internal/calculator"
	"MomentumScalper/internal/config"
	"MomentumScalper/internal/model"
)

// Screening thresholds on daily bars.
const (
	smaShortPeriod    = 20
	smaLongPeriod     = 50
	slopeWindow       = 5
	rangeWindow       = 5
	minSlopePctPerDay = 0.15
	minAvgRangePct    = 2.5

	// minDailyBars is the long SMA plus its one-bar-ago reading; the daily
	// resolution lookback must be able to return at least this many bars.
	minDailyBars = smaLongPeriod + 1
)

// Screener scans the full universe on daily bars for persistent uptrends.
type Screener struct {
	Gateway broker.Gateway
}

// NewScreener creates a new Screener.
func NewScreener(gw broker.Gateway) *Screener {
	return &Screener{Gateway: gw}
}

// Screen evaluates the universe and returns the trending subset ranked
// descending by slope. A failed chunk query is logged and skipped for this
// run; unaffected chunks still contribute.
func (s *Screener) Screen(universe []string) []model.TrendingStock {
	spec, err := config.SpecFor(config.ResolutionDaily)
	if err != nil {
		log.Printf("[ERROR] daily resolution spec: %v", err)
		return nil
	}
	end := time.Now()
	start := end.AddDate(0, 0, -spec.LookbackDays)

	var trending []model.TrendingStock
	for _, chunk := range broker.Chunk(universe, broker.MaxSymbolsPerQuery) {
		series, err := s.Gateway.GetBars(chunk, config.ResolutionDaily, start, end)
		if err != nil {
			log.Printf("[WARN] daily bars for %d symbols failed, skipping chunk: %v", len(chunk), err)
			continue
		}
		for _, symbol := range chunk {
			bars := series[symbol]
			if len(bars) == 0 {
				continue
			}
			if ts, ok := evaluateDaily(symbol, bars); ok {
				trending = append(trending, ts)
			}
		}
	}

	sort.Slice(trending, func(i, j int) bool { return trending[i].Slope > trending[j].Slope })
	return trending
}

// evaluateDaily applies the global trend criteria to one symbol's daily bars.
// All must hold: short SMA above long SMA, price above short SMA, the SMA
// spread widening versus one bar ago, slope and average daily range over
// their floors.
func evaluateDaily(symbol string, bars []model.OHLCV) (model.TrendingStock, bool) {
	if len(bars) < minDailyBars {
		return model.TrendingStock{}, false
	}
	closes := model.Closes(bars)

	sma20, err := calculator.CalculateSMA(closes, smaShortPeriod)
	if err != nil {
		return model.TrendingStock{}, false
	}
	sma50, err := calculator.CalculateSMA(closes, smaLongPeriod)
	if err != nil {
		return model.TrendingStock{}, false
	}
	priorSMA20, err := calculator.CalculateSMA(closes[:len(closes)-1], smaShortPeriod)
	if err != nil {
		return model.TrendingStock{}, false
	}
	priorSMA50, err := calculator.CalculateSMA(closes[:len(closes)-1], smaLongPeriod)
	if err != nil {
		return model.TrendingStock{}, false
	}

	if len(closes) < slopeWindow {
		return model.TrendingStock{}, false
	}
	slope, err := calculator.SlopePercentPerDay(closes[len(closes)-slopeWindow:])
	if err != nil {
		return model.TrendingStock{}, false
	}
	avgRange, err := calculator.AvgDailyRangePercent(bars, rangeWindow)
	if err != nil {
		return model.TrendingStock{}, false
	}

	lastClose := closes[len(closes)-1]
	smaUptrend := sma50 < sma20
	priceUptrend := sma20 < lastClose
	divergent := (sma20 - sma50) > (priorSMA20 - priorSMA50)

	if !smaUptrend || !priceUptrend || !divergent || slope < minSlopePctPerDay || avgRange < minAvgRangePct {
		return model.TrendingStock{}, false
	}
	return model.TrendingStock{Symbol: symbol, Slope: slope, AvgRangePct: avgRange}, true
}
