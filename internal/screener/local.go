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

// LocalFilter re-confirms candidate uptrends on hourly bars before any
// signal is acted on, so a stale daily-level trend cannot trigger entries.
type LocalFilter struct {
	Gateway broker.Gateway
}

// NewLocalFilter creates a new LocalFilter.
func NewLocalFilter(gw broker.Gateway) *LocalFilter {
	return &LocalFilter{Gateway: gw}
}

// Filter evaluates candidates plus currently held symbols on hourly bars and
// returns the passing set unioned with all held symbols: a holding is always
// monitored for its exit signal even after it stops passing the entry filter.
func (f *LocalFilter) Filter(candidates, held []string) []string {
	monitor := union(candidates, held)

	spec, err := config.SpecFor(config.ResolutionHourly)
	if err != nil {
		log.Printf("[ERROR] hourly resolution spec: %v", err)
		return held
	}
	end := time.Now()
	start := end.AddDate(0, 0, -spec.LookbackDays)

	passing := make(map[string]bool, len(monitor))
	for _, chunk := range broker.Chunk(monitor, broker.MaxSymbolsPerQuery) {
		series, err := f.Gateway.GetBars(chunk, config.ResolutionHourly, start, end)
		if err != nil {
			log.Printf("[WARN] hourly bars for %d symbols failed, skipping chunk: %v", len(chunk), err)
			continue
		}
		for _, symbol := range chunk {
			bars := series[symbol]
			if len(bars) == 0 {
				continue
			}
			if evaluateHourly(bars) {
				passing[symbol] = true
			}
		}
	}

	for _, s := range held {
		passing[s] = true
	}
	out := make([]string, 0, len(passing))
	for s := range passing {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// evaluateHourly confirms a medium-term uptrend on hourly closes:
// long SMA below short SMA, price above short SMA, and a non-decreasing
// most recent candle.
func evaluateHourly(bars []model.OHLCV) bool {
	closes := model.Closes(bars)
	if len(closes) < 2 {
		return false
	}

	sma20, err := calculator.CalculateSMA(closes, smaShortPeriod)
	if err != nil {
		return false
	}
	sma50, err := calculator.CalculateSMA(closes, smaLongPeriod)
	if err != nil {
		return false
	}

	lastClose := closes[len(closes)-1]
	priorClose := closes[len(closes)-2]
	return sma50 < sma20 && sma20 < lastClose && priorClose <= lastClose
}

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
