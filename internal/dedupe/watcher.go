package dedupe

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"
)

// DefaultDebounce is the delay before a pending quick search fires.
const DefaultDebounce = 500 * time.Millisecond

// Watcher tracks a building form being filled in and keeps duplicate state
// current as fields change. Name edits trigger a debounced quick search;
// only the last update within the debounce window reaches the store. Once
// name, city, and non-zero coordinates are all present, the full duplicate
// check runs as well.
type Watcher struct {
	service  *Service
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	timer        *time.Timer
	quickMatches []Candidate
	fullResult   *CheckResult
	closed       bool
}

// NewWatcher creates a Watcher around the service. A non-positive debounce
// uses DefaultDebounce.
func NewWatcher(service *Service, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		service:  service,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Update reports the current form state. The quick search is scheduled on
// the debounce timer; the full check runs immediately when all fields are
// present.
func (w *Watcher) Update(name, city string, lat, lon float64) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}

	if utf8.RuneCountInString(name) >= MinSearchLength {
		w.timer = time.AfterFunc(w.debounce, func() {
			w.runQuickSearch(name, city)
		})
	} else {
		w.quickMatches = nil
	}
	w.mu.Unlock()

	if name != "" && city != "" && lat != 0 && lon != 0 {
		result := w.service.CheckBuildingDuplicates(w.ctx, Query{
			Name: name,
			City: city,
			Lat:  lat,
			Lon:  lon,
		})

		w.mu.Lock()
		if !w.closed {
			w.fullResult = &result
		}
		w.mu.Unlock()
	}
}

func (w *Watcher) runQuickSearch(name, city string) {
	matches := w.service.SearchSimilarBuildings(w.ctx, SimilarQuery{Name: name, City: city})

	w.mu.Lock()
	if !w.closed {
		w.quickMatches = matches
	}
	w.mu.Unlock()
}

// HasDuplicates reports whether either the full check or the quick search
// found anything. The union lets the form warn before coordinates are known.
func (w *Watcher) HasDuplicates() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fullResult != nil && w.fullResult.IsDuplicate {
		return true
	}
	return len(w.quickMatches) > 0
}

// HasHighConfidenceDuplicates reports whether the full check classified any
// candidate as high confidence.
func (w *Watcher) HasHighConfidenceDuplicates() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fullResult != nil && w.fullResult.HighestConfidence == ConfidenceHigh
}

// Result returns the latest full check result, or nil if none has run.
func (w *Watcher) Result() *CheckResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fullResult
}

// QuickMatches returns the latest quick search hits.
func (w *Watcher) QuickMatches() []Candidate {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.quickMatches
}

// Close stops any pending quick search and cancels in-flight lookups.
// A timer cleared before firing never makes a call.
func (w *Watcher) Close() {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	w.cancel()
}
