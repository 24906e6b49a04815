package dedupe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archiroutes.org/internal/models"
)

func TestWatcherDebouncesQuickSearch(t *testing.T) {
	store := &fakeStore{
		searchResults: []models.Building{{ID: "b1", Name: "Bauhaus Archiv"}},
	}
	w := NewWatcher(newTestService(store), 30*time.Millisecond)
	defer w.Close()

	// Rapid typing: only the last update inside the window may fire
	w.Update("Bau", "", 0, 0)
	w.Update("Bauh", "", 0, 0)
	w.Update("Bauhaus", "", 0, 0)

	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, store.searchCalls)
	assert.True(t, w.HasDuplicates())
	assert.Len(t, w.QuickMatches(), 1)
}

func TestWatcherShortNameNeverSearches(t *testing.T) {
	store := &fakeStore{}
	w := NewWatcher(newTestService(store), 10*time.Millisecond)
	defer w.Close()

	// Multibyte two-rune names stay below the guard too
	w.Update("ab", "Berlin", 0, 0)
	w.Update("Ém", "Berlin", 0, 0)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, store.searchCalls)
	assert.False(t, w.HasDuplicates())
}

func TestWatcherRunsFullCheckWhenComplete(t *testing.T) {
	store := &fakeStore{
		duplicates: []Candidate{
			{ID: "b1", Name: "Reichstag", DistanceMeters: floatPtr(15), MatchType: MatchExactLocation, Confidence: ConfidenceHigh},
		},
	}
	w := NewWatcher(newTestService(store), 10*time.Millisecond)
	defer w.Close()

	// Coordinates missing: no full check yet
	w.Update("Reichstag", "Berlin", 0, 0)
	assert.Nil(t, w.Result())
	assert.False(t, w.HasHighConfidenceDuplicates())

	// All fields present: full check runs
	w.Update("Reichstag", "Berlin", 52.5186, 13.3762)

	require.NotNil(t, w.Result())
	assert.True(t, w.Result().IsDuplicate)
	assert.True(t, w.HasDuplicates())
	assert.True(t, w.HasHighConfidenceDuplicates())
}

func TestWatcherUnionOfQuickAndFull(t *testing.T) {
	// Full check comes back clean, but the quick search still has hits:
	// HasDuplicates is the union of the two.
	store := &fakeStore{
		searchResults: []models.Building{{ID: "b2", Name: "Reichstag Annex"}},
	}
	w := NewWatcher(newTestService(store), 10*time.Millisecond)
	defer w.Close()

	w.Update("Reichstag", "Berlin", 52.5186, 13.3762)
	time.Sleep(50 * time.Millisecond)

	require.NotNil(t, w.Result())
	assert.False(t, w.Result().IsDuplicate)
	assert.True(t, w.HasDuplicates())
	assert.False(t, w.HasHighConfidenceDuplicates())
}

func TestWatcherCloseStopsPendingSearch(t *testing.T) {
	store := &fakeStore{}
	w := NewWatcher(newTestService(store), 50*time.Millisecond)

	w.Update("Bauhaus", "", 0, 0)
	w.Close()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, store.searchCalls)

	// Updates after Close are ignored
	w.Update("Bauhaus Museum", "Berlin", 52.5, 13.4)
	assert.Nil(t, w.Result())
}

func TestWatcherDefaultDebounce(t *testing.T) {
	w := NewWatcher(newTestService(&fakeStore{}), 0)
	defer w.Close()
	assert.Equal(t, DefaultDebounce, w.debounce)
}
