package dashboard

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func result(temp int, id string) weather.Result {
	return weather.Result{
		Aggregate: weather.Aggregate{Current: weather.Current{Temperature: temp}, Source: weather.SourceLive},
		BuildID:   id,
	}
}

func TestBoardLastWriteWins(t *testing.T) {
	b := NewBoard(0)
	req := weather.Request{Location: "Lagos, NG", Range: weather.Range7Days}

	b.Apply(req, result(20, "first"))
	b.Apply(req, result(25, "second"))

	v, err := b.Latest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.BuildID != "second" || v.Aggregate.Current.Temperature != 25 {
		t.Fatalf("expected the last applied view, got %+v", v)
	}
}

func TestBoardKeyNormalization(t *testing.T) {
	b := NewBoard(0)
	b.Apply(weather.Request{Location: " Lagos, NG ", Range: "bogus"}, result(20, "a"))

	if _, err := b.Latest(weather.Request{Location: "lagos, ng", Range: weather.Range7Days}); err != nil {
		t.Fatalf("expected normalized lookup to hit, got %v", err)
	}
	if _, err := b.Latest(weather.Request{Location: "lagos, ng", Range: weather.Range30Days}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another range, got %v", err)
	}
}

func TestBoardMaxAge(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	b := NewBoard(time.Hour)
	b.now = func() time.Time { return now }

	old := weather.Request{Location: "Accra", Range: weather.Range24Hours}
	b.Apply(old, result(30, "old"))

	now = now.Add(2 * time.Hour)
	if _, err := b.Latest(old); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired view to be hidden, got %v", err)
	}

	b.Apply(weather.Request{Location: "Kano", Range: weather.Range24Hours}, result(33, "new"))
	if b.Len() != 1 {
		t.Fatalf("expected expired view to be pruned, have %d", b.Len())
	}
}

func TestBoardConcurrentApply(t *testing.T) {
	b := NewBoard(0)
	req := weather.Request{Location: "Abuja", Range: weather.Range7Days}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Apply(req, result(i, "x"))
			_, _ = b.Latest(req)
		}(i)
	}
	wg.Wait()

	if b.Len() != 1 {
		t.Fatalf("expected one view, got %d", b.Len())
	}
}

func TestBoardEvictsOldestBeyondCap(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	b := NewBoard(0)
	b.maxViews = 2
	b.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	first := weather.Request{Location: "Accra", Range: weather.Range7Days}
	b.Apply(first, result(30, "a"))
	b.Apply(weather.Request{Location: "Kano", Range: weather.Range7Days}, result(31, "b"))
	b.Apply(weather.Request{Location: "Jos", Range: weather.Range7Days}, result(22, "c"))

	if b.Len() != 2 {
		t.Fatalf("expected 2 views, got %d", b.Len())
	}
	if _, err := b.Latest(first); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected oldest view to be evicted, got %v", err)
	}
}
