package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

type stubBuilder struct {
	mu    sync.Mutex
	calls []weather.Request
}

func (b *stubBuilder) BuildResult(_ context.Context, req weather.Request) weather.Result {
	b.mu.Lock()
	b.calls = append(b.calls, req)
	b.mu.Unlock()

	source := weather.SourceLive
	if req.Location == "" {
		source = weather.SourceFallback
	}
	return weather.Result{Aggregate: weather.Aggregate{Range: req.Range.Normalize(), Source: source}}
}

type recordingSink struct {
	mu   sync.Mutex
	seen map[string]weather.DataSource
}

func (s *recordingSink) Apply(req weather.Request, res weather.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen == nil {
		s.seen = make(map[string]weather.DataSource)
	}
	s.seen[req.Key()] = res.Aggregate.Source
}

func TestRefreshFansOutToSinks(t *testing.T) {
	requests := []weather.Request{
		{Location: "Lagos", Range: weather.Range24Hours},
		{Location: "Lagos", Range: weather.Range7Days},
		{Location: "", Range: weather.Range30Days},
	}
	builder := &stubBuilder{}
	a, b := &recordingSink{}, &recordingSink{}

	s := New(requests, time.Minute, builder, a, b)
	s.Refresh(context.Background())

	if len(builder.calls) != len(requests) {
		t.Fatalf("expected %d builds, got %d", len(requests), len(builder.calls))
	}
	for _, sink := range []*recordingSink{a, b} {
		if len(sink.seen) != len(requests) {
			t.Fatalf("expected every view in each sink, got %v", sink.seen)
		}
		if sink.seen[":30d"] != weather.SourceFallback {
			t.Fatalf("expected fallback for empty location, got %q", sink.seen[":30d"])
		}
		if sink.seen["Lagos:24h"] != weather.SourceLive {
			t.Fatalf("expected live data for Lagos, got %q", sink.seen["Lagos:24h"])
		}
	}
}

func TestStartWithoutRequests(t *testing.T) {
	s := New(nil, time.Minute, &stubBuilder{})
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()
}
