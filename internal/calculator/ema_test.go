package calculator

import (
	"math"
	"testing"
)

func TestEMASeries_ConstantPriceStaysAtPrice(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 1.2345
	}
	for _, span := range []int{SpanFast, SpanSlow} {
		ema := EMASeries(prices, span)
		for i, v := range ema {
			if math.Abs(v-1.2345) > 1e-12 {
				t.Fatalf("span %d: EMA diverged from constant close at %d: %v", span, i, v)
			}
		}
	}
}

func TestEMASeries_Recursion(t *testing.T) {
	// k = 2/(10+1); hand-check the first few terms.
	prices := []float64{1.1000, 1.1010, 1.1005, 1.1020, 1.1030}
	ema := EMASeries(prices, 10)
	k := 2.0 / 11.0

	if ema[0] != prices[0] {
		t.Fatalf("seed must be first close, got %v", ema[0])
	}
	want := prices[0]
	for i := 1; i < len(prices); i++ {
		want = prices[i]*k + want*(1-k)
		if math.Abs(ema[i]-want) > 1e-12 {
			t.Errorf("ema[%d] = %v, want %v", i, ema[i], want)
		}
	}
}

func TestEMASeries_BoundedByObservedCloses(t *testing.T) {
	prices := []float64{1.1000, 1.1010, 1.1005, 1.1020, 1.1030}
	ema := EMASeries(prices, 10)
	last := ema[len(ema)-1]
	if last <= 1.1000 || last >= 1.1030 {
		t.Errorf("EMA after 5 samples should sit strictly between min and max close, got %v", last)
	}
}

func TestEMASeries_DegenerateInput(t *testing.T) {
	if got := EMASeries(nil, 10); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	if got := EMASeries([]float64{1.0}, 0); got != nil {
		t.Errorf("expected nil for non-positive span, got %v", got)
	}
}
