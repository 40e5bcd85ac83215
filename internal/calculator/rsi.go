package calculator

import "ForexPulse/internal/model"

// RSISeries computes the rolling-mean RSI over the given period, one value
// per input sample. The average gain and average loss are plain means over
// the trailing `period` price deltas. A sample is undefined until `period`
// deltas exist. avgLoss of zero with gains present yields 100; a completely
// flat window (both averages zero) stays undefined rather than propagating
// a division by zero downstream.
func RSISeries(prices []float64, period int) []model.Float {
	if len(prices) == 0 || period <= 0 {
		return nil
	}
	out := make([]model.Float, len(prices))
	for i := period; i < len(prices); i++ {
		var gainSum, lossSum float64
		for j := i - period + 1; j <= i; j++ {
			delta := prices[j] - prices[j-1]
			if delta > 0 {
				gainSum += delta
			} else {
				lossSum -= delta
			}
		}
		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)

		switch {
		case avgLoss == 0 && avgGain == 0:
			// flat window: report unavailable
		case avgLoss == 0:
			out[i] = model.FloatFrom(100.0)
		default:
			rs := avgGain / avgLoss
			out[i] = model.FloatFrom(100.0 - 100.0/(1.0+rs))
		}
	}
	return out
}
