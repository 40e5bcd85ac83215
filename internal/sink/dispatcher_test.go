package sink

import (
	"context"
	"errors"
	"testing"
	"time"

	"ForexPulse/internal/model"
)

// fakeSink records deliveries and optionally fails or stalls.
type fakeSink struct {
	name      string
	err       error
	delay     time.Duration
	delivered int
}

func (f *fakeSink) Name() string { return f.name }

func (f *fakeSink) Deliver(ctx context.Context, _ *model.AlertRecord) error {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return f.err
	}
	f.delivered++
	return nil
}

func testRecord() *model.AlertRecord {
	return &model.AlertRecord{
		Pair:      "EUR/USD",
		Timestamp: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Close:     1.1020,
		Signal:    model.SignalState{Trend: model.TrendUp, Crossover: model.CrossNone},
		Sentiment: "Buy",
		News:      "No major news",
	}
}

func TestDispatch_FailureIsolation(t *testing.T) {
	good := &fakeSink{name: "good"}
	bad := &fakeSink{name: "bad", err: errors.New("connection refused")}
	other := &fakeSink{name: "other"}

	d := NewDispatcher(time.Second, good, bad, other)
	results := d.Dispatch(context.Background(), testRecord())

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results["good"] != nil || results["other"] != nil {
		t.Error("healthy sinks must not be affected by a failing one")
	}
	if good.delivered != 1 || other.delivered != 1 {
		t.Error("healthy sinks must each receive the record exactly once")
	}

	var sinkErr *SinkError
	if !errors.As(results["bad"], &sinkErr) {
		t.Fatalf("expected SinkError, got %v", results["bad"])
	}
	if sinkErr.Sink != "bad" {
		t.Errorf("SinkError names the wrong sink: %q", sinkErr.Sink)
	}
}

func TestDispatch_StalledSinkTimesOut(t *testing.T) {
	slow := &fakeSink{name: "slow", delay: 5 * time.Second}
	fast := &fakeSink{name: "fast"}

	d := NewDispatcher(50*time.Millisecond, slow, fast)
	start := time.Now()
	results := d.Dispatch(context.Background(), testRecord())

	if time.Since(start) > 2*time.Second {
		t.Fatal("dispatch must not wait for a stalled sink beyond its timeout")
	}
	if results["slow"] == nil {
		t.Error("the stalled sink must surface a failure")
	}
	if results["fast"] != nil {
		t.Error("the fast sink must succeed regardless")
	}
}

func TestAnySucceeded(t *testing.T) {
	if AnySucceeded(map[string]error{"a": errors.New("x"), "b": errors.New("y")}) {
		t.Error("no successes expected")
	}
	if !AnySucceeded(map[string]error{"a": errors.New("x"), "b": nil}) {
		t.Error("one nil result is a success")
	}
	if AnySucceeded(nil) {
		t.Error("empty results are not a success")
	}
}
