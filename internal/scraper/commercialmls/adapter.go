package commercialmls

import (
	"fmt"
	"time"

	"github.com/go-rod/rod/lib/input"
	"github.com/lmartell/crescraper/internal/domain/entity"
	"github.com/lmartell/crescraper/internal/domain/progress"
	"github.com/lmartell/crescraper/internal/infra/browser"
	"go.uber.org/zap"
)

const (
	// SiteName is the registry key and progress-callback key for this site.
	SiteName = "commercialmls"
	baseURL  = "https://www.commercialmls.com/"
	domain   = "commercialmls.com"
)

// Scraper drives a CommercialMLS search. The site funnels everything through
// a single-page search app: open it from the homepage, set every filter
// through dropdown panels, submit with Enter, then switch the result list to
// grid view before extracting.
type Scraper struct {
	browserCfg browser.Config
	selectors  Selectors
	logger     *zap.Logger
	// PriceWalkDepth bounds the ancestor walk the fallback extraction uses to
	// locate a price near a detail link.
	PriceWalkDepth int
}

func New(browserCfg browser.Config, selectors Selectors, logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{
		browserCfg:     browserCfg,
		selectors:      selectors,
		logger:         logger.With(zap.String("site", SiteName)),
		PriceWalkDepth: defaultPriceWalkDepth,
	}
}

func (s *Scraper) Name() string { return SiteName }

// Search fills the search app from the criteria and extracts the grid view.
// Filter-stage failures degrade the search instead of aborting it; only a
// failed launch or not reaching the site abort. The session is torn down on
// every path out.
func (s *Scraper) Search(criteria entity.SearchCriteria, fn progress.Func) ([]entity.Listing, error) {
	sess := browser.NewSession(s.browserCfg, s.logger)
	if err := sess.Open(); err != nil {
		return nil, fmt.Errorf("commercialmls: %w", err)
	}
	defer sess.Close()

	rep := progress.NewReporter(fn)
	rep.Report(0.05)

	s.logger.Info("navigating to commercialmls")
	if err := sess.Navigate(baseURL); err != nil {
		return nil, fmt.Errorf("commercialmls: %w", err)
	}
	rep.Report(0.1)

	if !sess.VerifyPageLoad(domain, 5*time.Second, false) {
		return nil, fmt.Errorf("commercialmls: did not reach %s", domain)
	}
	rep.Report(0.15)

	s.logger.Info("opening search app")
	if !sess.Click(s.selectors.SearchButton, "search button", 0) {
		s.logger.Error("could not open the search app, nothing to extract")
		return []entity.Listing{}, nil
	}
	rep.Report(0.2)

	s.applyCriteria(sess, criteria, rep)
	rep.Report(0.6)

	s.submitSearch(sess)
	rep.Report(0.65)
	time.Sleep(5 * time.Second)
	rep.Report(0.7)

	s.logger.Info("switching to grid view")
	if !sess.Click(s.selectors.GridButton, "grid view button", 0) {
		s.logger.Warn("failed to switch to grid view, extracting current view")
	}
	sess.WaitFor(browser.ConditionStable, s.selectors.Card, browser.WaitOptions{
		Timeout: 15 * time.Second,
	})
	rep.Report(0.8)

	listings := s.extract(sess)
	rep.Report(0.9)

	for i, l := range listings {
		s.logger.Debug("listing extracted",
			zap.Int("index", i+1),
			zap.String("address", l.Address),
			zap.String("price", l.Price),
			zap.String("url", l.URL))
	}
	rep.Report(1.0)
	return listings, nil
}

func (s *Scraper) applyCriteria(sess *browser.Session, criteria entity.SearchCriteria, rep *progress.Reporter) {
	s.logger.Info("setting location", zap.String("location", criteria.Location))
	sess.Click(s.selectors.LocationDropdown, "location dropdown", 0)
	sess.InputText(s.selectors.LocationInput, criteria.Location, "location input", false, true)
	time.Sleep(time.Second)
	rep.Report(0.25)

	// Commit the first typeahead suggestion.
	sess.SendKeys(s.selectors.LocationInput, input.ArrowDown)
	time.Sleep(settlePause)
	sess.SendKeys(s.selectors.LocationInput, input.Enter)
	time.Sleep(time.Second)
	rep.Report(0.3)

	s.logger.Info("setting property types")
	sess.Click(s.selectors.TypeDropdown, "property type dropdown", 0)
	sess.Click(s.selectors.ForSaleCheckbox, "for sale checkbox", 0)
	rep.Report(0.35)

	for _, pt := range criteria.PropertyTypes {
		selector := s.selectors.checkboxFor(string(pt))
		if selector == "" {
			s.logger.Warn("no checkbox for property type", zap.String("property_type", string(pt)))
			continue
		}
		s.logger.Info("selecting property type", zap.String("property_type", string(pt)))
		sess.Click(selector, string(pt)+" checkbox", 0)
		time.Sleep(settlePause)
	}
	rep.Report(0.4)

	if criteria.HasPriceRange() {
		s.logger.Info("setting price range",
			zap.String("min", criteria.MinPrice),
			zap.String("max", criteria.MaxPrice))
		sess.Click(s.selectors.PriceDropdown, "price dropdown", 0)
		time.Sleep(time.Second)
		sess.Click(s.selectors.PriceCheckbox, "price checkbox", 0)
		time.Sleep(time.Second)
		rep.Report(0.45)

		if criteria.MinPrice != "" {
			sess.InputText(s.selectors.MinPriceInput, criteria.MinPrice, "minimum price input", false, true)
			time.Sleep(time.Second)
		}
		rep.Report(0.5)

		if criteria.MaxPrice != "" {
			if sess.InputText(s.selectors.MaxPriceInput, criteria.MaxPrice, "maximum price input", false, true) {
				sess.SendKeys(s.selectors.MaxPriceInput, input.Tab)
				time.Sleep(time.Second)
			}
		}
		rep.Report(0.52)
		// Let the panel's bindings pick the values up before the next dropdown.
		time.Sleep(2 * time.Second)
	}

	if criteria.HasStartDate() {
		dateStr := criteria.StartDate.Format("01/02/2006")
		s.logger.Info("setting date filter", zap.String("date", dateStr))
		sess.Click(s.selectors.MoreDropdown, "more filters dropdown", 0)
		rep.Report(0.54)
		sess.Click(s.selectors.DateAddedCheckbox, "date added checkbox", 0)
		sess.InputText(s.selectors.StartDateInput, dateStr, "start date input", false, true)
		rep.Report(0.58)
	}
}

// submitSearch fires the search: Enter on the page body, falling back to a
// script-level form submit when the keypress goes nowhere.
func (s *Scraper) submitSearch(sess *browser.Session) {
	s.logger.Info("submitting search")
	if sess.SendKeys("body", input.Enter) {
		return
	}
	s.logger.Info("falling back to scripted form submit")
	page := sess.Page()
	if page == nil {
		return
	}
	if _, err := page.Eval(`() => {
		const form = document.querySelector('form');
		if (form) form.submit();
	}`); err != nil {
		s.logger.Error("form submit failed", zap.Error(err))
	}
}

func (s *Scraper) extract(sess *browser.Session) []entity.Listing {
	ext := newExtractor(s.selectors, s.logger, s.PriceWalkDepth)
	ext.liveAnchors = func() []browser.LiveAnchor {
		return sess.Anchors(s.selectors.DetailAnchor)
	}
	html, err := sess.HTML()
	if err != nil {
		s.logger.Error("failed to snapshot results page", zap.Error(err))
		html = ""
	}
	listings := ext.Extract(html)
	s.logger.Info("extraction complete", zap.Int("listings", len(listings)))
	return listings
}

const settlePause = 500 * time.Millisecond
