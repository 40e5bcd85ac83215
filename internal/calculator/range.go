package calculator

import "ForexPulse/internal/model"

// SupportResistance returns the rolling min(low) and max(high) over the
// trailing `window` bars ending at index i. These are cheap local bounds,
// not validated levels. Both are undefined until the window is full; no
// lookahead past index i.
func SupportResistance(bars []model.PriceBar, window, i int) (support, resistance model.Float) {
	if window <= 0 || i < window-1 || i >= len(bars) {
		return model.Float{}, model.Float{}
	}
	lo := bars[i-window+1].Low
	hi := bars[i-window+1].High
	for j := i - window + 2; j <= i; j++ {
		if bars[j].Low < lo {
			lo = bars[j].Low
		}
		if bars[j].High > hi {
			hi = bars[j].High
		}
	}
	return model.FloatFrom(lo), model.FloatFrom(hi)
}
