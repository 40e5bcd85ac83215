package calculator

import (
	"fmt"
	"math"

	"ForexPulse/internal/model"
)

// TrueRange returns the true range of a bar given the previous close:
// max(high-low, |high-prevClose|, |low-prevClose|). The first bar of a
// series has no previous close and uses high-low only.
func TrueRange(bar model.PriceBar, prevClose float64, hasPrev bool) float64 {
	hl := bar.High - bar.Low
	if !hasPrev {
		return hl
	}
	hc := math.Abs(bar.High - prevClose)
	lc := math.Abs(bar.Low - prevClose)
	return math.Max(hl, math.Max(hc, lc))
}

// ATRSeries computes the rolling-mean ATR over the given period, one value
// per input bar, undefined until `period` true ranges exist. A negative
// result indicates a computation bug and panics: the normalizer guarantees
// high >= low, so every true range is non-negative.
func ATRSeries(bars []model.PriceBar, period int) []model.Float {
	if len(bars) == 0 || period <= 0 {
		return nil
	}
	tr := make([]float64, len(bars))
	for i, b := range bars {
		if i == 0 {
			tr[i] = TrueRange(b, 0, false)
		} else {
			tr[i] = TrueRange(b, bars[i-1].Close, true)
		}
	}

	out := make([]model.Float, len(bars))
	for i := period - 1; i < len(bars); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += tr[j]
		}
		atr := sum / float64(period)
		if atr < 0 {
			panic(fmt.Sprintf("calculator: negative ATR %f at bar %d", atr, i))
		}
		out[i] = model.FloatFrom(atr)
	}
	return out
}
