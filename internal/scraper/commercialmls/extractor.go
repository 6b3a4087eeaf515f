package commercialmls

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lmartell/crescraper/internal/domain/entity"
	"github.com/lmartell/crescraper/internal/infra/browser"
	"go.uber.org/zap"
)

const (
	defaultPriceWalkDepth = 4
	propertyURLPrefix     = "https://www.commercialmls.com/property/"
)

// extractor turns a grid-view snapshot into listings. Strategy order, next
// one tried only when the previous produced nothing:
//
//  1. grid cards, field selectors per card
//  2. detail anchors anywhere in the page, price from a bounded ancestor walk
//  3. the same anchors re-queried from the live DOM, partial records
//
// Listings are deduplicated by canonical detail URL in document order.
type extractor struct {
	selectors      Selectors
	logger         *zap.Logger
	priceWalkDepth int
	// liveAnchors supplies the live-DOM fallback; nil disables it.
	liveAnchors func() []browser.LiveAnchor
	liveCalls   int
}

func newExtractor(selectors Selectors, logger *zap.Logger, priceWalkDepth int) *extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if priceWalkDepth <= 0 {
		priceWalkDepth = defaultPriceWalkDepth
	}
	return &extractor{
		selectors:      selectors,
		logger:         logger,
		priceWalkDepth: priceWalkDepth,
	}
}

func (e *extractor) Extract(html string) []entity.Listing {
	seen := make(map[string]bool)
	var listings []entity.Listing

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.logger.Error("failed to parse results page", zap.Error(err))
		doc = nil
	}

	if doc != nil {
		listings = e.fromCards(doc, seen)
		if len(listings) == 0 {
			listings = e.fromDetailAnchors(doc, seen)
		}
	}
	if len(listings) == 0 && e.liveAnchors != nil {
		e.liveCalls++
		listings = e.fromLive(seen)
	}
	return listings
}

func (e *extractor) fromCards(doc *goquery.Document, seen map[string]bool) []entity.Listing {
	// Scope to the grid container when it is present; fall back to a global
	// scan when the surrounding layout has drifted.
	root := doc.Selection
	if grid := doc.Find(e.selectors.GridContainer); grid.Length() > 0 {
		root = grid
	}
	cards := root.Find(e.selectors.Card)
	e.logger.Debug("found grid cards", zap.Int("count", cards.Length()))

	var listings []entity.Listing
	cards.Each(func(_ int, card *goquery.Selection) {
		href := card.Find(e.selectors.CardLink).First().AttrOr("href", "")
		url := canonicalPropertyURL(href)
		if url == "" || seen[url] {
			return
		}
		seen[url] = true

		listings = append(listings, entity.NewListing(
			textOf(card, e.selectors.CardName),
			textOf(card, e.selectors.CardPrice),
			textOf(card, e.selectors.CardBadge),
			url,
		))
	})
	return listings
}

func (e *extractor) fromDetailAnchors(doc *goquery.Document, seen map[string]bool) []entity.Listing {
	anchors := doc.Find(e.selectors.DetailAnchor)
	e.logger.Debug("scanning detail anchors", zap.Int("count", anchors.Length()))

	var listings []entity.Listing
	anchors.Each(func(_ int, anchor *goquery.Selection) {
		url := canonicalPropertyURL(anchor.AttrOr("href", ""))
		if url == "" || seen[url] {
			return
		}
		seen[url] = true

		address := strings.TrimSpace(anchor.AttrOr("title", ""))
		if address == "" {
			address = strings.TrimSpace(anchor.Text())
		}
		listings = append(listings, entity.NewListing(
			address,
			e.priceNear(anchor),
			"",
			url,
		))
	})
	return listings
}

func (e *extractor) fromLive(seen map[string]bool) []entity.Listing {
	anchors := e.liveAnchors()
	e.logger.Debug("live-DOM fallback", zap.Int("anchors", len(anchors)))

	var listings []entity.Listing
	for _, a := range anchors {
		url := canonicalPropertyURL(a.Href)
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		listings = append(listings, entity.NewListing(strings.TrimSpace(a.Title), "", "", url))
	}
	return listings
}

// priceNear walks up from the anchor a bounded number of levels looking for
// a price-shaped node.
func (e *extractor) priceNear(anchor *goquery.Selection) string {
	parent := anchor.Parent()
	for i := 0; i < e.priceWalkDepth && parent.Length() > 0; i++ {
		candidate := parent.Find("[class*='price'], span").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return strings.Contains(s.Text(), "$")
		}).First()
		if candidate.Length() > 0 {
			return strings.TrimSpace(candidate.Text())
		}
		parent = parent.Parent()
	}
	return ""
}

// canonicalPropertyURL rewrites the app's fragment-routed hrefs ("#/.../id")
// to the property's full detail URL and passes absolute URLs through.
func canonicalPropertyURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "#") {
		parts := strings.Split(href, "/")
		id := parts[len(parts)-1]
		if id == "" {
			return ""
		}
		return propertyURLPrefix + id
	}
	return href
}

func textOf(root *goquery.Selection, selector string) string {
	return strings.TrimSpace(root.Find(selector).First().Text())
}
