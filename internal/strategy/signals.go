package strategy

import (
	"log"
	"math"
	"time"

	"MomentumScalper/internal/broker"
	"MomentumScalper/internal/calculator"
	"MomentumScalper/internal/config"
	"MomentumScalper/internal/model"
)

// CCI band thresholds. Only the threshold crossings are consumed, never the
// absolute magnitude.
const (
	cciPeriod = 20
	upperBand = 100.0
	lowerBand = -100.0
)

// Signals is the per-cycle output of the generator. A symbol can appear in at
// most one of the two sets: ownership decides which classification applies.
type Signals struct {
	Buys  []model.TradeDecision
	Sells []string
}

// Generator classifies locally-trending symbols as buy-eligible or
// sell-eligible from the 15-minute CCI crossover.
type Generator struct {
	Gateway      broker.Gateway
	StopLimitPct float64 // sell target above the buy close, in percent
	MinEdgePct   float64 // minimum target clearance over the buy price, in percent
}

// NewGenerator creates a Generator with the given target parameters.
func NewGenerator(gw broker.Gateway, stopLimitPct, minEdgePct float64) *Generator {
	return &Generator{Gateway: gw, StopLimitPct: stopLimitPct, MinEdgePct: minEdgePct}
}

// Evaluate classifies every monitored symbol. Symbols with too little data or
// no crossover are ignored this cycle; a failed chunk query skips that chunk.
func (g *Generator) Evaluate(monitored []string, held map[string]bool) Signals {
	spec, err := config.SpecFor(config.ResolutionFifteenMin)
	if err != nil {
		log.Printf("[ERROR] 15min resolution spec: %v", err)
		return Signals{}
	}
	end := time.Now()
	start := end.AddDate(0, 0, -spec.LookbackDays)

	var sig Signals
	for _, chunk := range broker.Chunk(monitored, broker.MaxSymbolsPerQuery) {
		series, err := g.Gateway.GetBars(chunk, config.ResolutionFifteenMin, start, end)
		if err != nil {
			log.Printf("[WARN] 15min bars for %d symbols failed, skipping chunk: %v", len(chunk), err)
			continue
		}
		for _, symbol := range chunk {
			bars := series[symbol]
			if len(bars) == 0 {
				continue
			}
			ccis, err := calculator.CalculateCCI(bars, cciPeriod)
			if err != nil {
				continue
			}
			prior, current := ccis[len(ccis)-2], ccis[len(ccis)-1]

			switch {
			case !held[symbol] && crossedAbove(prior, current):
				lastClose := bars[len(bars)-1].Close
				target := g.StopLimitTarget(lastClose)
				if !g.clearsMinEdge(lastClose, target) {
					continue // edge too thin to survive slippage
				}
				sig.Buys = append(sig.Buys, model.TradeDecision{
					Symbol:    symbol,
					LastClose: lastClose,
					Target:    target,
					Edge:      target - lastClose,
				})
			case held[symbol] && crossedBelow(prior, current):
				sig.Sells = append(sig.Sells, symbol)
			}
		}
	}
	return sig
}

// crossedAbove reports a cross back above either band: prior strictly below
// the threshold, current at or above it.
func crossedAbove(prior, current float64) bool {
	return (prior < lowerBand && current >= lowerBand) ||
		(prior < upperBand && current >= upperBand)
}

// crossedBelow reports a cross back below either band.
func crossedBelow(prior, current float64) bool {
	return (prior > upperBand && current <= upperBand) ||
		(prior > lowerBand && current <= lowerBand)
}

// StopLimitTarget is the fixed sell target for a prospective buy, rounded up
// to the nearest cent.
func (g *Generator) StopLimitTarget(buyPrice float64) float64 {
	return math.Ceil(buyPrice*(1+g.StopLimitPct/100)*100) / 100
}

func (g *Generator) clearsMinEdge(buyPrice, target float64) bool {
	return buyPrice*(1+g.MinEdgePct/100) <= target
}
