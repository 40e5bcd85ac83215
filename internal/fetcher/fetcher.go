package fetcher

import (
	"context"
	"fmt"
	"time"

	"ForexPulse/internal/model"
)

// Fetcher defines the interface for fetching raw price series from a quote
// provider. Implementations own their timeouts; no call may hang.
type Fetcher interface {
	FetchSeries(ctx context.Context, symbol, interval string, count int) ([]model.RawBar, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars map[string][]model.RawBar // by symbol
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSeries(_ context.Context, symbol, _ string, count int) ([]model.RawBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	return GenerateMockBars(1.1000, count), nil
}

// GenerateMockBars builds a gently trending series around basePrice.
func GenerateMockBars(basePrice float64, count int) []model.RawBar {
	bars := make([]model.RawBar, count)
	start := time.Now().UTC().Add(-time.Duration(count) * 15 * time.Minute)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.0001)
		bars[i] = model.RawBar{
			Datetime: start.Add(time.Duration(i) * 15 * time.Minute).Format("2006-01-02 15:04:05"),
			Open:     fmt.Sprintf("%.5f", p*0.9995),
			High:     fmt.Sprintf("%.5f", p*1.0010),
			Low:      fmt.Sprintf("%.5f", p*0.9990),
			Close:    fmt.Sprintf("%.5f", p),
		}
	}
	return bars
}
