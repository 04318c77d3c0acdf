package calculator

import (
	"time"

	"MomentumScalper/internal/model"
)

// ResampleHourly aggregates 15-minute bars into hourly bars:
// open = first, high = max, low = min, close = last, volume = sum per hour bucket.
// Input must be time-ascending; hours with no bars are simply absent.
func ResampleHourly(fifteenMin []model.OHLCV) []model.OHLCV {
	if len(fifteenMin) == 0 {
		return nil
	}
	var hourly []model.OHLCV
	var hour model.OHLCV
	var started bool

	for _, b := range fifteenMin {
		bucket := b.Time.Truncate(time.Hour)

		if !started {
			hour = model.OHLCV{Time: bucket, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
			started = true
			continue
		}

		if !bucket.Equal(hour.Time) {
			hourly = append(hourly, hour)
			hour = model.OHLCV{Time: bucket, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
		} else {
			if b.High > hour.High {
				hour.High = b.High
			}
			if b.Low < hour.Low {
				hour.Low = b.Low
			}
			hour.Close = b.Close
			hour.Volume += b.Volume
		}
	}
	if started {
		hourly = append(hourly, hour)
	}
	return hourly
}
