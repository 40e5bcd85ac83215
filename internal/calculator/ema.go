package calculator

import "ForexPulse/internal/model"

// EMASeries computes the exponential moving average of prices for the given
// span, one value per input sample. Seeded with the first price, so it is
// defined from the first sample (though numerically unstable before roughly
// span samples have elapsed).
func EMASeries(prices []float64, span int) []float64 {
	if len(prices) == 0 || span <= 0 {
		return nil
	}
	k := 2.0 / (float64(span) + 1.0)
	out := make([]float64, len(prices))
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = prices[i]*k + out[i-1]*(1.0-k)
	}
	return out
}

func extractCloses(bars []model.PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
