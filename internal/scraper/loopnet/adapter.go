package loopnet

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
	SiteName = "loopnet"
	baseURL  = "https://www.loopnet.com/"
	domain   = "loopnet.com"
)

// Scraper drives a LoopNet search: homepage quick-search form, for-sale
// transaction type, property type checkboxes, then the advanced filters modal
// for price range and listing date.
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

// Search fills the search form from the criteria and extracts the results.
// Individual stage failures degrade the search (a missed filter widens the
// result set, it never narrows it); only a failed browser launch or not
// reaching the site at all abort the run. The session is torn down on every
// path out.
func (s *Scraper) Search(criteria entity.SearchCriteria, fn progress.Func) ([]entity.Listing, error) {
	sess := browser.NewSession(s.browserCfg, s.logger)
	if err := sess.Open(); err != nil {
		return nil, fmt.Errorf("loopnet: %w", err)
	}
	defer sess.Close()

	rep := progress.NewReporter(fn)
	rep.Report(0.05)

	s.logger.Info("navigating to loopnet")
	if err := sess.Navigate(baseURL); err != nil {
		return nil, fmt.Errorf("loopnet: %w", err)
	}
	rep.Report(0.1)

	if !sess.VerifyPageLoad(domain, 5*time.Second, false) {
		return nil, fmt.Errorf("loopnet: did not reach %s", domain)
	}

	s.enterLocation(sess, criteria.Location)
	rep.Report(0.2)
	time.Sleep(time.Second)

	s.selectForSale(sess)
	rep.Report(0.25)

	s.selectPropertyTypes(sess, criteria, rep)
	sess.Blur()
	time.Sleep(time.Second)
	rep.Report(0.35)

	s.applyAdvancedFilters(sess, criteria, rep)
	rep.Report(0.65)

	s.logger.Info("waiting for results to settle")
	sess.WaitFor(browser.ConditionStable, s.selectors.Card, browser.WaitOptions{
		Timeout: 15 * time.Second,
	})
	rep.Report(0.7)

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

// withPopupRetry runs the step and, if it fails, closes whatever popup got in
// the way and runs it once more.
func (s *Scraper) withPopupRetry(sess *browser.Session, step func() bool) bool {
	if step() {
		return true
	}
	s.closePopups(sess)
	return step()
}

// closePopups removes overlays and clicks any visible modal close buttons.
func (s *Scraper) closePopups(sess *browser.Session) {
	sess.RemoveOverlays()
	time.Sleep(time.Second)
	page := sess.Page()
	if page == nil {
		return
	}
	els, err := page.Elements(s.selectors.PopupCloseButton)
	if err != nil {
		s.logger.Debug("no popup close buttons", zap.Error(err))
		return
	}
	for _, el := range els {
		if visible, err := el.Visible(); err != nil || !visible {
			continue
		}
		sess.ClickElement(el, "popup close button", 1)
		time.Sleep(settlePause)
	}
}

func (s *Scraper) enterLocation(sess *browser.Session, location string) {
	s.logger.Info("entering location", zap.String("location", location))
	ok := s.withPopupRetry(sess, func() bool {
		return sess.InputText(s.selectors.LocationBox, location, "location input", true, true)
	})
	if !ok {
		s.logger.Warn("failed to enter location, continuing with site default")
	}
}

func (s *Scraper) selectForSale(sess *browser.Session) {
	s.logger.Info("setting search to for sale")
	s.withPopupRetry(sess, func() bool {
		if !sess.Click(s.selectors.SaleLeaseDropdown, "sale/lease dropdown", 0) {
			return false
		}
		return sess.Click(s.selectors.ForSaleButton, "for sale button", 0)
	})
}

func (s *Scraper) selectPropertyTypes(sess *browser.Session, criteria entity.SearchCriteria, rep *progress.Reporter) {
	s.withPopupRetry(sess, func() bool {
		return sess.Click(s.selectors.PropertyTypeDropdown, "property type dropdown", 0)
	})
	time.Sleep(time.Second)
	rep.Report(0.3)

	for _, pt := range criteria.PropertyTypes {
		selector := s.selectors.checkboxFor(string(pt))
		if selector == "" {
			s.logger.Warn("no checkbox for property type", zap.String("property_type", string(pt)))
			continue
		}
		s.logger.Info("selecting property type", zap.String("property_type", string(pt)))
		s.withPopupRetry(sess, func() bool {
			return sess.Click(selector, string(pt)+" checkbox", 0)
		})
	}
}

// applyAdvancedFilters opens the Other Filters modal, sets the price range
// and listing-date filter, and submits the search. The modal is on the
// overlay allow-list, so the suppressor leaves it alone while we work in it.
func (s *Scraper) applyAdvancedFilters(sess *browser.Session, criteria entity.SearchCriteria, rep *progress.Reporter) {
	if !s.withPopupRetry(sess, func() bool {
		return sess.Click(s.selectors.OtherFiltersButton, "other filters button", 0)
	}) {
		s.logger.Warn("could not open advanced filters, searching without them")
		return
	}
	time.Sleep(time.Second)
	rep.Report(0.4)

	if criteria.HasPriceRange() {
		s.logger.Info("setting price range",
			zap.String("min", criteria.MinPrice),
			zap.String("max", criteria.MaxPrice))
		if criteria.MinPrice != "" {
			if sess.InputText(s.selectors.MinPriceBox, criteria.MinPrice, "minimum price input", false, true) {
				sess.SendKeys(s.selectors.MinPriceBox, input.Tab)
				time.Sleep(time.Second)
			}
		}
		rep.Report(0.45)
		if criteria.MaxPrice != "" {
			if sess.InputText(s.selectors.MaxPriceBox, criteria.MaxPrice, "maximum price input", false, true) {
				sess.SendKeys(s.selectors.MaxPriceBox, input.Tab)
				time.Sleep(time.Second)
			}
		}
		rep.Report(0.5)
		sess.Blur()
		// Let the modal's bindings pick the values up before we move on.
		time.Sleep(2 * time.Second)
	}

	if criteria.HasStartDate() {
		dateStr := criteria.StartDate.Format("01/02/2006")
		s.logger.Info("setting start date", zap.String("date", dateStr))
		sess.Click(s.selectors.CustomDateCheckbox, "custom date checkbox", 0)
		time.Sleep(time.Second)
		if sess.InputText(s.selectors.StartDateBox, dateStr, "start date input", false, true) {
			sess.SendKeys(s.selectors.StartDateBox, input.Tab)
			time.Sleep(time.Second)
		}
		rep.Report(0.55)
	}

	time.Sleep(time.Second)
	s.submitSearch(sess)
	rep.Report(0.6)
}

// submitSearch applies the modal's filters. If the declarative click stays
// blocked after overlay removal, a script-level click is the last resort.
func (s *Scraper) submitSearch(sess *browser.Session) {
	s.logger.Info("submitting search")
	if sess.Click(s.selectors.SearchButton, "search button", 0) {
		return
	}
	sess.RemoveOverlays()
	if sess.Click(s.selectors.SearchButton, "search button", 1) {
		return
	}
	if !sess.ForceClick(s.selectors.SearchButton) {
		s.logger.Error("search submission failed on every strategy")
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
