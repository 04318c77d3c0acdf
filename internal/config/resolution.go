package config

import "fmt"

// Resolution identifies a bar resolution consumed by the pipeline.
type Resolution string

const (
	ResolutionDaily      Resolution = "daily"
	ResolutionHourly     Resolution = "hourly"
	ResolutionFifteenMin Resolution = "15min"
)

// Broker query timeframes. The hourly resolution is not queried directly:
// it is a 15-minute query resampled into hour buckets.
const (
	TimeFrameDay        = "1Day"
	TimeFrameFifteenMin = "15Min"
)

// ResolutionSpec maps a pipeline resolution to the broker query that backs it.
type ResolutionSpec struct {
	QueryTimeFrame string
	LookbackDays   int
	QueryLimit     int
	Resample       bool // aggregate the 15-minute query into hourly buckets
}

// The daily lookback must span enough calendar days that the exchange
// calendar (~5 trading days per 7) still yields the 51 bars the daily
// trend criteria consume. 150 calendar days gives ~100 trading bars.
var resolutionTable = map[Resolution]ResolutionSpec{
	ResolutionDaily:      {QueryTimeFrame: TimeFrameDay, LookbackDays: 150, QueryLimit: 100},
	ResolutionHourly:     {QueryTimeFrame: TimeFrameFifteenMin, LookbackDays: 40, QueryLimit: 600, Resample: true},
	ResolutionFifteenMin: {QueryTimeFrame: TimeFrameFifteenMin, LookbackDays: 40, QueryLimit: 600},
}

// SpecFor resolves a resolution key. An unrecognized key is a configuration
// error and surfaces here rather than as a later lookup fault.
func SpecFor(r Resolution) (ResolutionSpec, error) {
	spec, ok := resolutionTable[r]
	if !ok {
		return ResolutionSpec{}, fmt.Errorf("unrecognized resolution %q", r)
	}
	return spec, nil
}

// ValidateResolutionTable checks the table exhaustively at startup.
func ValidateResolutionTable() error {
	required := []Resolution{ResolutionDaily, ResolutionHourly, ResolutionFifteenMin}
	for _, r := range required {
		spec, err := SpecFor(r)
		if err != nil {
			return err
		}
		if spec.QueryTimeFrame != TimeFrameDay && spec.QueryTimeFrame != TimeFrameFifteenMin {
			return fmt.Errorf("resolution %q: unknown query timeframe %q", r, spec.QueryTimeFrame)
		}
		if spec.LookbackDays <= 0 || spec.QueryLimit <= 0 {
			return fmt.Errorf("resolution %q: lookback and limit must be positive", r)
		}
	}
	if len(resolutionTable) != len(required) {
		return fmt.Errorf("resolution table has %d entries, expected %d", len(resolutionTable), len(required))
	}
	return nil
}
