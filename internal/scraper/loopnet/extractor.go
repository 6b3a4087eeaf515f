package loopnet

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lmartell/crescraper/internal/domain/entity"
	"github.com/lmartell/crescraper/internal/infra/browser"
	"go.uber.org/zap"
)

const (
	defaultPriceWalkDepth = 4
	detailTitlePrefix     = "More details for "
)

// extractor turns a results-page snapshot into listings. Strategies run in
// priority order and the next one is tried only when the previous produced
// nothing:
//
//  1. known listing-card containers, field selectors per card
//  2. detail-link anchors anywhere in the page, address from the title
//     attribute, price from a bounded ancestor walk
//  3. the same anchors re-queried from the live DOM, partial records
//
// Listings are deduplicated by detail URL in document order, first
// occurrence wins.
type extractor struct {
	selectors      Selectors
	logger         *zap.Logger
	priceWalkDepth int
	// liveAnchors supplies the live-DOM fallback; nil disables it.
	liveAnchors func() []browser.LiveAnchor
	// liveCalls counts liveAnchors invocations.
	liveCalls int
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
			listings = e.fromDetailLinks(doc, seen)
		}
	}
	if len(listings) == 0 && e.liveAnchors != nil {
		e.liveCalls++
		listings = e.fromLive(seen)
	}
	return listings
}

func (e *extractor) fromCards(doc *goquery.Document, seen map[string]bool) []entity.Listing {
	cards := doc.Find(e.selectors.Card)
	if cards.Length() == 0 {
		cards = doc.Find(e.selectors.CardAlt)
		e.logger.Debug("falling back to alternative card containers", zap.Int("count", cards.Length()))
	} else {
		e.logger.Debug("found listing cards", zap.Int("count", cards.Length()))
	}

	var listings []entity.Listing
	cards.Each(func(_ int, card *goquery.Selection) {
		url := firstHref(card.Find(e.selectors.DetailLink))
		if url == "" || seen[url] {
			return
		}
		seen[url] = true

		address := textOf(card, e.selectors.CardAddress)
		location := textOf(card, e.selectors.CardLoc)
		if address != "" && location != "" {
			address = address + ", " + location
		}
		listings = append(listings, entity.NewListing(
			address,
			textOf(card, e.selectors.CardPrice),
			textOf(card, e.selectors.CardType),
			url,
		))
	})
	return listings
}

func (e *extractor) fromDetailLinks(doc *goquery.Document, seen map[string]bool) []entity.Listing {
	links := doc.Find(e.selectors.DetailAnchor)
	e.logger.Debug("scanning detail links", zap.Int("count", links.Length()))

	var listings []entity.Listing
	links.Each(func(_ int, link *goquery.Selection) {
		url, ok := link.Attr("href")
		if !ok || url == "" || seen[url] {
			return
		}
		seen[url] = true

		address, propType := parseDetailTitle(link.AttrOr("title", ""))
		listings = append(listings, entity.NewListing(
			address,
			e.priceNear(link),
			propType,
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
		if a.Href == "" || seen[a.Href] {
			continue
		}
		seen[a.Href] = true
		address, _ := parseDetailTitle(a.Title)
		listings = append(listings, entity.NewListing(address, "", "", a.Href))
	}
	return listings
}

// priceNear walks up from the link a bounded number of levels looking for a
// price-shaped node (one whose text carries a currency symbol).
func (e *extractor) priceNear(link *goquery.Selection) string {
	parent := link.Parent()
	for i := 0; i < e.priceWalkDepth && parent.Length() > 0; i++ {
		candidate := parent.Find("[name='Price'], [class*='price']").First()
		if candidate.Length() > 0 {
			text := strings.TrimSpace(candidate.Text())
			if strings.Contains(text, "$") {
				return text
			}
		}
		parent = parent.Parent()
	}
	return ""
}

// parseDetailTitle splits a descriptive link title like
// "More details for 123 Main St - Retail for Sale" into address and, when
// present, property type.
func parseDetailTitle(title string) (address, propType string) {
	if !strings.Contains(title, detailTitlePrefix) {
		return "", ""
	}
	parts := strings.Split(strings.Replace(title, detailTitlePrefix, "", 1), " - ")
	if len(parts) == 0 || parts[0] == "" {
		return "", ""
	}
	address = strings.TrimSpace(parts[0])
	if len(parts) > 1 && strings.Contains(parts[1], "for ") {
		propType = strings.TrimSpace(strings.Split(parts[1], "for ")[0])
	}
	return address, propType
}

func firstHref(links *goquery.Selection) string {
	href := ""
	links.EachWithBreak(func(_ int, link *goquery.Selection) bool {
		if h, ok := link.Attr("href"); ok && h != "" {
			href = h
			return false
		}
		return true
	})
	return href
}

func textOf(root *goquery.Selection, selector string) string {
	return strings.TrimSpace(root.Find(selector).First().Text())
}
