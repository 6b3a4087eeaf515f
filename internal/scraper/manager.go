package scraper

import (
	"github.com/lmartell/crescraper/internal/domain/entity"
	"github.com/lmartell/crescraper/internal/domain/progress"
	"go.uber.org/zap"
)

// Manager runs searches across the registered site scrapers, one at a time.
// Sequential execution is deliberate: each scraper owns a full browser
// process, and running two of those side by side buys little except memory
// pressure and session cross-talk.
type Manager struct {
	scrapers []SiteScraper
	logger   *zap.Logger
}

func NewManager(logger *zap.Logger, scrapers ...SiteScraper) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{scrapers: scrapers, logger: logger}
}

// Sites lists the registered site identifiers in registration order.
func (m *Manager) Sites() []string {
	names := make([]string, 0, len(m.scrapers))
	for _, sc := range m.scrapers {
		names = append(names, sc.Name())
	}
	return names
}

// Search runs the criteria against every targeted site (criteria.Websites
// empty means all registered sites) and returns one entry per site in
// invocation order. A scraper failure, error or panic alike, is logged and
// recorded as an empty entry for that site; it never aborts the batch.
// callbacks maps site identifiers to progress callbacks and may be nil.
func (m *Manager) Search(criteria entity.SearchCriteria, callbacks map[string]progress.Func) Results {
	targets := m.resolveTargets(criteria.Websites)
	if len(targets) == 0 {
		m.logger.Warn("no resolvable target sites", zap.Strings("websites", criteria.Websites))
		return Results{}
	}

	results := make(Results, 0, len(targets))
	for _, sc := range targets {
		site := sc.Name()
		m.logger.Info("starting search", zap.String("site", site))

		var fn progress.Func
		if callbacks != nil {
			fn = callbacks[site]
		}

		listings := m.runSite(sc, criteria, fn)
		results = append(results, SiteResult{Site: site, Listings: listings})
		m.logger.Info("search finished",
			zap.String("site", site),
			zap.Int("results", len(listings)))
	}
	return results
}

// runSite isolates one scraper invocation: any error or panic inside it
// becomes an empty result for that site.
func (m *Manager) runSite(sc SiteScraper, criteria entity.SearchCriteria, fn progress.Func) (listings []entity.Listing) {
	defer func() {
		if rec := recover(); rec != nil {
			m.logger.Error("scraper panicked",
				zap.String("site", sc.Name()),
				zap.Any("panic", rec))
			listings = []entity.Listing{}
		}
	}()

	listings, err := sc.Search(criteria, fn)
	if err != nil {
		m.logger.Error("scraper failed",
			zap.String("site", sc.Name()),
			zap.Error(err))
		return []entity.Listing{}
	}
	if listings == nil {
		listings = []entity.Listing{}
	}
	return listings
}

func (m *Manager) resolveTargets(websites []string) []SiteScraper {
	if len(websites) == 0 {
		return m.scrapers
	}
	byName := make(map[string]SiteScraper, len(m.scrapers))
	for _, sc := range m.scrapers {
		byName[sc.Name()] = sc
	}
	var targets []SiteScraper
	seen := make(map[string]bool, len(websites))
	for _, w := range websites {
		key := siteKey(w)
		sc, ok := byName[key]
		if !ok {
			m.logger.Warn("unknown website skipped", zap.String("website", w))
			continue
		}
		if !seen[key] {
			seen[key] = true
			targets = append(targets, sc)
		}
	}
	return targets
}
