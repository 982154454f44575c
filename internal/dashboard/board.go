package dashboard

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// defaultMaxViews caps how many views a board holds; the least recently
// applied view is evicted first.
const defaultMaxViews = 1024

var (
	// ErrNotFound is returned when no aggregate is displayed for a view.
	ErrNotFound = errors.New("no dashboard data for view")
)

// entry is what the board currently shows for one view.
type entry struct {
	aggregate weather.Aggregate
	buildID   string
	appliedAt time.Time
}

// View is a displayed aggregate together with its bookkeeping.
type View struct {
	Aggregate weather.Aggregate `json:"aggregate"`
	BuildID   string            `json:"buildId"`
	AppliedAt time.Time         `json:"appliedAt"`
}

// Board is a concurrency-safe holder of the aggregate currently displayed for
// each (location, range) view. Overlapping refreshes are not cancelled; the last
// one applied wins.
type Board struct {
	mu sync.RWMutex

	// key: normalized request key
	data map[string]entry

	// maxAge hides views older than this; zero keeps them forever.
	maxAge   time.Duration
	maxViews int
	now      func() time.Time
}

// NewBoard creates an empty Board. If maxAge is <= 0, views never expire.
func NewBoard(maxAge time.Duration) *Board {
	return &Board{
		data:     make(map[string]entry),
		maxAge:   maxAge,
		maxViews: defaultMaxViews,
		now:      time.Now,
	}
}

func key(req weather.Request) string {
	req.Location = strings.ToLower(strings.TrimSpace(req.Location))
	return req.Key()
}

// Apply replaces the view for req with res.
func (b *Board) Apply(req weather.Request, res weather.Result) {
	k := key(req)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[k] = entry{
		aggregate: res.Aggregate,
		buildID:   res.BuildID,
		appliedAt: b.now(),
	}
	b.pruneLocked()
}

// Latest returns the view displayed for req.
func (b *Board) Latest(req weather.Request) (View, error) {
	k := key(req)

	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.data[k]
	if !ok || b.expired(e) {
		return View{}, ErrNotFound
	}
	return View{Aggregate: e.aggregate, BuildID: e.buildID, AppliedAt: e.appliedAt}, nil
}

// Len returns the number of views held, expired ones included until the next Apply.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

func (b *Board) expired(e entry) bool {
	return b.maxAge > 0 && b.now().Sub(e.appliedAt) > b.maxAge
}

// Enforce retention by age, then by count.
func (b *Board) pruneLocked() {
	if b.maxAge > 0 {
		for k, e := range b.data {
			if b.expired(e) {
				delete(b.data, k)
			}
		}
	}
	for b.maxViews > 0 && len(b.data) > b.maxViews {
		var oldest string
		var oldestAt time.Time
		for k, e := range b.data {
			if oldest == "" || e.appliedAt.Before(oldestAt) {
				oldest, oldestAt = k, e.appliedAt
			}
		}
		delete(b.data, oldest)
	}
}
