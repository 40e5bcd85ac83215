package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"ForexPulse/internal/fetcher"
	"ForexPulse/internal/model"
	"ForexPulse/internal/sentiment"
	"ForexPulse/internal/sink"
	"ForexPulse/internal/throttle"
)

type stubSink struct {
	name string
	err  error

	mu        sync.Mutex
	delivered []*model.AlertRecord
}

func (s *stubSink) Name() string { return s.name }

func (s *stubSink) Deliver(_ context.Context, rec *model.AlertRecord) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	s.delivered = append(s.delivered, rec)
	s.mu.Unlock()
	return nil
}

func (s *stubSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delivered)
}

func newTestPipeline(f fetcher.Fetcher, sinks ...sink.Sink) *Pipeline {
	return &Pipeline{
		Pairs:      []string{"EUR/USD", "GBP/USD"},
		Interval:   "15min",
		OutputSize: 50,
		SRWindow:   10,
		Fetcher:    f,
		Throttle:   throttle.New(60*time.Minute, throttle.NewMemoryStore()),
		Dispatcher: sink.NewDispatcher(time.Second, sinks...),
		Now:        func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) },
	}
}

func TestRun_ProcessesAllPairs(t *testing.T) {
	out := &stubSink{name: "out"}
	p := newTestPipeline(&fetcher.MockFetcher{}, out)

	results, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Processed {
			t.Errorf("%s: expected processed, got %+v", r.Pair, r)
		}
		if !r.Alerted {
			t.Errorf("%s: expected an alert on first run", r.Pair)
		}
	}
	if out.count() != 2 {
		t.Fatalf("expected 2 deliveries, got %d", out.count())
	}

	rec := out.delivered[0]
	if rec.Sentiment != sentiment.Unavailable || rec.News != sentiment.Unavailable {
		t.Errorf("absent context sources must read Unavailable, got %q / %q", rec.Sentiment, rec.News)
	}
	if rec.Signal.Trend != model.TrendUp && rec.Signal.Trend != model.TrendDown {
		t.Errorf("classified trend expected, got %v", rec.Signal.Trend)
	}
}

func TestRun_AllPairsFailed(t *testing.T) {
	p := newTestPipeline(&fetcher.MockFetcher{Err: errors.New("provider down")}, &stubSink{name: "out"})

	results, err := p.Run(context.Background())
	if !errors.Is(err, ErrAllPairsFailed) {
		t.Fatalf("expected ErrAllPairsFailed, got %v", err)
	}
	for _, r := range results {
		if r.Processed || r.Alerted {
			t.Errorf("%s: nothing should be processed, got %+v", r.Pair, r)
		}
		if r.Err == nil {
			t.Errorf("%s: expected a per-pair error", r.Pair)
		}
	}
}

func TestRun_SinkFailureDoesNotFailPair(t *testing.T) {
	bad := &stubSink{name: "bad", err: errors.New("insert failed")}
	good := &stubSink{name: "good"}
	p := newTestPipeline(&fetcher.MockFetcher{}, bad, good)

	results, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("sink failures must not fail the run: %v", err)
	}
	for _, r := range results {
		if !r.Processed || !r.Alerted {
			t.Errorf("%s: expected processed+alerted despite one sink failing, got %+v", r.Pair, r)
		}
		if r.SinkErrs["bad"] == nil {
			t.Errorf("%s: expected the failing sink surfaced", r.Pair)
		}
		if r.SinkErrs["good"] != nil {
			t.Errorf("%s: the healthy sink must succeed", r.Pair)
		}
	}
}

func TestRun_AllSinksFailedLeavesCooldownIdle(t *testing.T) {
	bad := &stubSink{name: "bad", err: errors.New("down")}
	p := newTestPipeline(&fetcher.MockFetcher{}, bad)

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Replace the sink with a healthy one: the next run at the same instant
	// must still be allowed to alert because the cooldown was never armed.
	good := &stubSink{name: "good"}
	p.Dispatcher = sink.NewDispatcher(time.Second, good)
	results, err := p.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if !r.Alerted {
			t.Errorf("%s: expected a retry alert after a fully failed dispatch", r.Pair)
		}
	}
}

func TestRun_SecondRunThrottled(t *testing.T) {
	out := &stubSink{name: "out"}
	p := newTestPipeline(&fetcher.MockFetcher{}, out)

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	// 30 minutes later, well inside the 60 minute cooldown.
	p.Now = func() time.Time { return time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC) }
	results, err := p.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if !r.Processed {
			t.Errorf("%s: throttled pairs are still processed", r.Pair)
		}
		if !r.Throttled || r.Alerted {
			t.Errorf("%s: expected suppression within cooldown, got %+v", r.Pair, r)
		}
	}
	if out.count() != 2 {
		t.Errorf("no deliveries expected on the throttled run, got %d total", out.count())
	}
}

func TestRun_CancelledContextAbortsRemainingPairs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestPipeline(&fetcher.MockFetcher{}, &stubSink{name: "out"})
	results, err := p.Run(ctx)
	if !errors.Is(err, ErrAllPairsFailed) {
		t.Fatalf("a pre-cancelled run processes nothing, got %v", err)
	}
	for _, r := range results {
		if r.Processed {
			t.Errorf("%s: must not process after cancellation", r.Pair)
		}
	}
}

func TestSummary(t *testing.T) {
	results := []PairResult{
		{Pair: "EUR/USD", Processed: true, Alerted: true, SinkErrs: map[string]error{"telegram": nil}},
		{Pair: "GBP/USD", Processed: true, Throttled: true},
		{Pair: "USD/JPY", Err: errors.New("provider down")},
	}
	s := Summary(results)
	for _, want := range []string{"EUR/USD: alerted", "GBP/USD: processed, alert suppressed", "USD/JPY: failed"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}
