package sink

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"ForexPulse/internal/model"
)

// Sink delivers one finished alert record to an output channel.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, rec *model.AlertRecord) error
}

// SinkError wraps a delivery failure with the sink that produced it. Sink
// failures are logged and isolated; they never propagate into the pipeline.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s: %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// Dispatcher fans one record out to all configured sinks. Deliveries run
// concurrently and independently: one sink failing or stalling does not
// block or roll back another. No automatic retry at this level; retry policy
// belongs inside each adapter.
type Dispatcher struct {
	Sinks   []Sink
	Timeout time.Duration
}

// NewDispatcher creates a Dispatcher with a per-sink delivery timeout.
func NewDispatcher(timeout time.Duration, sinks ...Sink) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{Sinks: sinks, Timeout: timeout}
}

// Dispatch delivers rec to every sink and returns the per-sink outcome,
// keyed by sink name with a nil value on success.
func (d *Dispatcher) Dispatch(ctx context.Context, rec *model.AlertRecord) map[string]error {
	results := make(map[string]error, len(d.Sinks))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, s := range d.Sinks {
		wg.Add(1)
		go func(s Sink) {
			defer wg.Done()
			sinkCtx, cancel := context.WithTimeout(ctx, d.Timeout)
			defer cancel()

			var res error
			if err := s.Deliver(sinkCtx, rec); err != nil {
				res = &SinkError{Sink: s.Name(), Err: err}
				log.Printf("[ERROR] %v", res)
			}
			mu.Lock()
			results[s.Name()] = res
			mu.Unlock()
		}(s)
	}
	wg.Wait()
	return results
}

// AnySucceeded reports whether at least one sink accepted the record.
func AnySucceeded(results map[string]error) bool {
	for _, err := range results {
		if err == nil {
			return true
		}
	}
	return false
}
