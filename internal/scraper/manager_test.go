package scraper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lmartell/crescraper/internal/domain/entity"
	"github.com/lmartell/crescraper/internal/domain/progress"
)

type fakeScraper struct {
	name     string
	listings []entity.Listing
	err      error
	panics   bool
	calls    int
}

func (f *fakeScraper) Name() string { return f.name }

func (f *fakeScraper) Search(_ entity.SearchCriteria, fn progress.Func) ([]entity.Listing, error) {
	f.calls++
	if f.panics {
		panic("element vanished mid-click")
	}
	if fn != nil {
		fn(1.0)
	}
	return f.listings, f.err
}

func criteriaFor(websites ...string) entity.SearchCriteria {
	return entity.SearchCriteria{
		PropertyTypes: []entity.PropertyType{entity.PropertyTypeOffice},
		Location:      "Seattle, WA",
		Websites:      websites,
	}
}

func TestManagerSearchAllSites(t *testing.T) {
	a := &fakeScraper{name: "loopnet", listings: []entity.Listing{
		entity.NewListing("123 Main St", "$500,000", "Retail", "/listing/1"),
	}}
	b := &fakeScraper{name: "commercialmls", listings: []entity.Listing{
		entity.NewListing("456 Pine St", "$750,000", "Office", "/property/2"),
		entity.NewListing("789 Oak Ave", "$1,200,000", "Industrial", "/property/3"),
	}}
	m := NewManager(zaptest.NewLogger(t), a, b)

	// Empty website list targets every registered site, in order.
	results := m.Search(criteriaFor(), nil)
	require.Len(t, results, 2)
	assert.Equal(t, "loopnet", results[0].Site)
	assert.Equal(t, "commercialmls", results[1].Site)
	assert.Equal(t, 3, results.Total())
	assert.Len(t, results.Flat(), 3)
}

func TestManagerFailureIsolation(t *testing.T) {
	tests := []struct {
		name   string
		broken *fakeScraper
	}{
		{"scraper error", &fakeScraper{name: "loopnet", err: errors.New("browser failed to launch")}},
		{"scraper panic", &fakeScraper{name: "loopnet", panics: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			healthy := &fakeScraper{name: "commercialmls", listings: []entity.Listing{
				entity.NewListing("456 Pine St", "$750,000", "Office", "/property/2"),
			}}
			m := NewManager(zaptest.NewLogger(t), tt.broken, healthy)

			results := m.Search(criteriaFor(), nil)
			require.Len(t, results, 2, "a broken site must not abort the batch")

			broken, ok := results.Get("loopnet")
			require.True(t, ok)
			assert.Empty(t, broken)
			assert.NotNil(t, broken, "failed sites report empty, not absent")

			got, ok := results.Get("commercialmls")
			require.True(t, ok)
			assert.Len(t, got, 1)
			assert.Equal(t, 1, healthy.calls)
		})
	}
}

func TestManagerTargetResolution(t *testing.T) {
	a := &fakeScraper{name: "loopnet"}
	b := &fakeScraper{name: "commercialmls"}
	m := NewManager(zaptest.NewLogger(t), a, b)

	t.Run("domain spellings resolve to site keys", func(t *testing.T) {
		results := m.Search(criteriaFor("LoopNet.com", "loopnet.com"), nil)
		require.Len(t, results, 1, "duplicate specs collapse to one run")
		assert.Equal(t, "loopnet", results[0].Site)
	})

	t.Run("unknown sites are skipped", func(t *testing.T) {
		results := m.Search(criteriaFor("zillow.com", "commercialmls.com"), nil)
		require.Len(t, results, 1)
		assert.Equal(t, "commercialmls", results[0].Site)
	})

	t.Run("nothing resolvable yields empty results", func(t *testing.T) {
		results := m.Search(criteriaFor("zillow.com"), nil)
		assert.Empty(t, results)
	})
}

func TestManagerProgressCallbacks(t *testing.T) {
	a := &fakeScraper{name: "loopnet"}
	m := NewManager(zaptest.NewLogger(t), a)

	var got []float64
	m.Search(criteriaFor(), map[string]progress.Func{
		"loopnet": func(v float64) { got = append(got, v) },
	})
	assert.Equal(t, []float64{1.0}, got)
}

func TestSiteKey(t *testing.T) {
	assert.Equal(t, "loopnet", siteKey("loopnet.com"))
	assert.Equal(t, "loopnet", siteKey(" LoopNet "))
	assert.Equal(t, "commercialmls", siteKey("commercialmls.com"))
}

func TestResultsBySite(t *testing.T) {
	r := Results{
		{Site: "loopnet", Listings: nil},
		{Site: "commercialmls", Listings: []entity.Listing{entity.NewListing("a", "b", "c", "/1")}},
	}
	m := r.BySite()
	assert.NotNil(t, m["loopnet"])
	assert.Empty(t, m["loopnet"])
	assert.Len(t, m["commercialmls"], 1)
}
