package calculator

import (
	"errors"
	"math"

	"github.com/montanaflynn/stats"

	"MomentumScalper/internal/model"
)

// cciScale is Lambert's constant; keeps ~70-80% of readings inside ±100.
const cciScale = 0.015

// CalculateCCI computes the Commodity Channel Index series over the given period:
// (TP - SMA(TP)) / (0.015 * meanDeviation), TP = (high+low+close)/3.
// Requires at least period+1 bars so a crossover between the last two
// readings can be observed.
func CalculateCCI(bars []model.OHLCV, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(bars) < period+1 {
		return nil, errors.New("not enough data for CCI calculation")
	}

	tp := make([]float64, len(bars))
	for i, b := range bars {
		tp[i] = (b.High + b.Low + b.Close) / 3
	}

	out := make([]float64, 0, len(bars)-period+1)
	devs := make([]float64, period)
	for i := period - 1; i < len(tp); i++ {
		window := tp[i-period+1 : i+1]
		ma, err := stats.Mean(window)
		if err != nil {
			return nil, err
		}
		for j, v := range window {
			devs[j] = math.Abs(v - ma)
		}
		md, err := stats.Mean(devs)
		if err != nil {
			return nil, err
		}
		if md == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (tp[i]-ma)/(cciScale*md))
	}
	return out, nil
}
