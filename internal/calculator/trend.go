package calculator

import (
	"errors"

	"github.com/montanaflynn/stats"

	"MomentumScalper/internal/model"
)

// LeastSquaresSlope computes the closed-form two-variable regression slope of y
// against x = 1..len(y). The x vector is a fixed ascending sequence, so the
// denominator is nonzero for len(y) >= 2 (structural invariant, not a runtime case).
func LeastSquaresSlope(y []float64) (float64, error) {
	if len(y) < 2 {
		return 0, errors.New("need at least two points for a slope")
	}
	n := len(y)
	x := make([]float64, n)
	xy := make([]float64, n)
	xx := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i + 1)
		xy[i] = x[i] * y[i]
		xx[i] = x[i] * x[i]
	}
	meanX, err := stats.Mean(x)
	if err != nil {
		return 0, err
	}
	meanY, err := stats.Mean(y)
	if err != nil {
		return 0, err
	}
	meanXY, err := stats.Mean(xy)
	if err != nil {
		return 0, err
	}
	meanXX, err := stats.Mean(xx)
	if err != nil {
		return 0, err
	}
	return (meanX*meanY - meanXY) / (meanX*meanX - meanXX), nil
}

// SlopePercentPerDay fits the closes normalized to their first value, so the
// slope is in percent-of-price per bar and comparable across symbols.
func SlopePercentPerDay(closes []float64) (float64, error) {
	if len(closes) < 2 {
		return 0, errors.New("need at least two closes for a slope")
	}
	if closes[0] == 0 {
		return 0, errors.New("first close is zero, cannot normalize")
	}
	norm := make([]float64, len(closes))
	for i, c := range closes {
		norm[i] = c / closes[0]
	}
	slope, err := LeastSquaresSlope(norm)
	if err != nil {
		return 0, err
	}
	return slope * 100, nil
}

// AvgDailyRangePercent is the mean of (high-low)/low over the last lookback bars,
// expressed as a percent.
func AvgDailyRangePercent(bars []model.OHLCV, lookback int) (float64, error) {
	if len(bars) == 0 {
		return 0, errors.New("no bars provided")
	}
	start := len(bars) - lookback
	if start < 0 {
		start = 0
	}
	deltas := make([]float64, 0, len(bars)-start)
	for _, b := range bars[start:] {
		if b.Low <= 0 {
			continue
		}
		deltas = append(deltas, (b.High-b.Low)/b.Low*100)
	}
	if len(deltas) == 0 {
		return 0, errors.New("no usable bars in lookback window")
	}
	return stats.Mean(deltas)
}
