// Package scraper coordinates the per-site scrapers and aggregates their
// results.
package scraper

import (
	"strings"

	"github.com/lmartell/crescraper/internal/domain/entity"
	"github.com/lmartell/crescraper/internal/domain/progress"
)

// SiteScraper drives one listing website end to end: fill the search form
// from the criteria, submit it, and extract the results. Implementations own
// their browser session for the duration of one Search call and must release
// it on every exit path.
type SiteScraper interface {
	Name() string
	Search(criteria entity.SearchCriteria, fn progress.Func) ([]entity.Listing, error)
}

// SiteResult pairs a site identifier with the listings it produced. An empty
// Listings slice is a valid outcome, including for sites whose scraper
// failed.
type SiteResult struct {
	Site     string
	Listings []entity.Listing
}

// Results preserves invocation order across sites.
type Results []SiteResult

// Get returns the listings for a site and whether the site was part of the
// run.
func (r Results) Get(site string) ([]entity.Listing, bool) {
	for _, sr := range r {
		if sr.Site == site {
			return sr.Listings, true
		}
	}
	return nil, false
}

// Flat concatenates all sites' listings in order. For a single-site run this
// is the whole result.
func (r Results) Flat() []entity.Listing {
	var out []entity.Listing
	for _, sr := range r {
		out = append(out, sr.Listings...)
	}
	return out
}

// Total counts listings across all sites.
func (r Results) Total() int {
	n := 0
	for _, sr := range r {
		n += len(sr.Listings)
	}
	return n
}

// BySite returns the results as a map for serialization. Order is lost; use
// the Results slice where order matters.
func (r Results) BySite() map[string][]entity.Listing {
	m := make(map[string][]entity.Listing, len(r))
	for _, sr := range r {
		listings := sr.Listings
		if listings == nil {
			listings = []entity.Listing{}
		}
		m[sr.Site] = listings
	}
	return m
}

// siteKey reduces a website spec like "loopnet.com" or "LoopNet" to the
// registry key.
func siteKey(website string) string {
	key := strings.ToLower(strings.TrimSpace(website))
	if i := strings.IndexByte(key, '.'); i >= 0 {
		key = key[:i]
	}
	return key
}
