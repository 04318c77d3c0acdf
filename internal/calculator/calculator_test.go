package calculator

import (
	"math"
	"testing"
	"time"

	"MomentumScalper/internal/model"
)

func TestCalculateSMA(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6}
	sma, err := CalculateSMA(prices, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sma != 5 {
		t.Errorf("expected SMA 5, got %v", sma)
	}

	if _, err := CalculateSMA(prices, 7); err == nil {
		t.Error("expected error for insufficient data")
	}
	if _, err := CalculateSMA(prices, 0); err == nil {
		t.Error("expected error for non-positive period")
	}
}

func TestLeastSquaresSlope(t *testing.T) {
	tests := []struct {
		name string
		y    []float64
		want float64
	}{
		{"unit ascent", []float64{1, 2, 3, 4, 5}, 1},
		{"flat", []float64{3, 3, 3, 3, 3}, 0},
		{"descent", []float64{10, 8, 6, 4, 2}, -2},
	}
	for _, tt := range tests {
		got, err := LeastSquaresSlope(tt.y)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: expected slope %v, got %v", tt.name, tt.want, got)
		}
	}

	if _, err := LeastSquaresSlope([]float64{1}); err == nil {
		t.Error("expected error for single point")
	}
}

func TestSlopePercentPerDay(t *testing.T) {
	// 1% of the first close per bar.
	closes := []float64{100, 101, 102, 103, 104}
	got, err := SlopePercentPerDay(closes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("expected 1.0 %%/day, got %v", got)
	}
}

func TestAvgDailyRangePercent(t *testing.T) {
	bars := []model.OHLCV{
		{High: 110, Low: 100},
		{High: 103, Low: 100},
		{High: 105, Low: 100},
	}
	got, err := AvgDailyRangePercent(bars, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// last two bars: 3% and 5%
	if math.Abs(got-4.0) > 1e-9 {
		t.Errorf("expected 4.0%%, got %v", got)
	}

	if _, err := AvgDailyRangePercent(nil, 5); err == nil {
		t.Error("expected error for empty bars")
	}
}

func linearBars(start, step float64, n int) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	t0 := time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC)
	for i := range bars {
		p := start + step*float64(i)
		bars[i] = model.OHLCV{
			Time:  t0.Add(time.Duration(i) * 15 * time.Minute),
			Open:  p, High: p + 0.1, Low: p - 0.1, Close: p, Volume: 1000,
		}
	}
	return bars
}

func TestCalculateCCI(t *testing.T) {
	rising := linearBars(100, 0.5, 30)
	ccis, err := CalculateCCI(rising, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ccis) != 11 {
		t.Fatalf("expected 11 readings, got %d", len(ccis))
	}
	if ccis[len(ccis)-1] <= 100 {
		t.Errorf("steadily rising series should read above +100, got %v", ccis[len(ccis)-1])
	}

	falling := linearBars(100, -0.5, 30)
	ccis, err = CalculateCCI(falling, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ccis[len(ccis)-1] >= -100 {
		t.Errorf("steadily falling series should read below -100, got %v", ccis[len(ccis)-1])
	}

	if _, err := CalculateCCI(linearBars(100, 0.5, 20), 20); err == nil {
		t.Error("expected error with fewer than period+1 bars")
	}
}

func TestCalculateCCI_FlatSeries(t *testing.T) {
	flat := linearBars(100, 0, 25)
	ccis, err := CalculateCCI(flat, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range ccis {
		if v != 0 {
			t.Errorf("flat series reading %d: expected 0, got %v", i, v)
		}
	}
}

func TestResampleHourly(t *testing.T) {
	t0 := time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC)
	mk := func(min int, o, h, l, c, v float64) model.OHLCV {
		return model.OHLCV{Time: t0.Add(time.Duration(min) * time.Minute), Open: o, High: h, Low: l, Close: c, Volume: v}
	}
	bars := []model.OHLCV{
		mk(0, 10, 12, 9, 11, 100),
		mk(15, 11, 13, 10, 12, 100),
		mk(30, 12, 14, 11, 13, 100),
		mk(45, 13, 15, 12, 14, 100),
		mk(60, 14, 16, 13, 15, 200),
		mk(75, 15, 17, 14, 16, 200),
	}

	hourly := ResampleHourly(bars)
	if len(hourly) != 2 {
		t.Fatalf("expected 2 hourly bars, got %d", len(hourly))
	}
	first := hourly[0]
	if first.Open != 10 || first.High != 15 || first.Low != 9 || first.Close != 14 || first.Volume != 400 {
		t.Errorf("first hour aggregated wrong: %+v", first)
	}
	second := hourly[1]
	if second.Open != 14 || second.Close != 16 || second.Volume != 400 {
		t.Errorf("second hour aggregated wrong: %+v", second)
	}

	if got := ResampleHourly(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}
