package commercialmls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lmartell/crescraper/internal/domain/entity"
	"github.com/lmartell/crescraper/internal/infra/browser"
)

const gridCard = `
<div class="grid-column grid-card">
  <div class="rounded pointer card">
    <a class="link" href="#/search/wa/seattle/12345">view</a>
    <div class="badge">Office</div>
    <div class="bottom0 left0 text--white"><p class="bold">456 Pine St</p></div>
    <div class="relative p1"><p class="mb0 ellipsis"><span>$750,000</span></p></div>
  </div>
</div>`

func testExtractor(t *testing.T) *extractor {
	return newExtractor(DefaultSelectors(), zaptest.NewLogger(t), 0)
}

func TestExtractFromGridCards(t *testing.T) {
	got := testExtractor(t).Extract("<html><body>" + gridCard + "</body></html>")
	require.Len(t, got, 1)
	assert.Equal(t, entity.Listing{
		Address:      "456 Pine St",
		Price:        "$750,000",
		PropertyType: "Office",
		URL:          "https://www.commercialmls.com/property/12345",
	}, got[0])
}

func TestExtractDeduplicatesByCanonicalURL(t *testing.T) {
	// Two cards routing to the same property id, one to another.
	page := gridCard + gridCard + `
<div class="grid-column grid-card">
  <div class="rounded pointer card">
    <a class="link" href="#/map/wa/seattle/67890">view</a>
    <div class="bottom0 left0 text--white"><p class="bold">789 Oak Ave</p></div>
  </div>
</div>`
	got := testExtractor(t).Extract(page)
	require.Len(t, got, 2)
	assert.Equal(t, "456 Pine St", got[0].Address)
	assert.Equal(t, "789 Oak Ave", got[1].Address)
	assert.Equal(t, "https://www.commercialmls.com/property/67890", got[1].URL)
	// Absent card fields come back as sentinels.
	assert.Equal(t, entity.PriceNotAvailable, got[1].Price)
	assert.Equal(t, entity.TypeNotAvailable, got[1].PropertyType)
}

func TestExtractFallsBackToDetailAnchors(t *testing.T) {
	page := `<html><body>
<div>
  <a href="https://www.commercialmls.com/property/111" title="456 Pine St">456 Pine St</a>
  <span class="card-price">$750,000</span>
</div>
<div><div><div><div><div>
  <a href="https://www.commercialmls.com/property/222">789 Oak Ave</a>
</div></div></div></div></div>
</body></html>`

	ext := testExtractor(t)
	ext.liveAnchors = func() []browser.LiveAnchor {
		t.Fatal("live fallback must not run when the snapshot yields records")
		return nil
	}

	got := ext.Extract(page)
	require.Len(t, got, 2)
	assert.Equal(t, "456 Pine St", got[0].Address)
	assert.Equal(t, "$750,000", got[0].Price)
	// Anchor text stands in for a missing title attribute.
	assert.Equal(t, "789 Oak Ave", got[1].Address)
	assert.Equal(t, entity.PriceNotAvailable, got[1].Price)
	assert.Equal(t, 0, ext.liveCalls)
}

func TestExtractLiveFallback(t *testing.T) {
	ext := testExtractor(t)
	ext.liveAnchors = func() []browser.LiveAnchor {
		return []browser.LiveAnchor{
			{Href: "#/search/wa/seattle/333", Title: "77 Dock St"},
			{Href: "#/search/wa/seattle/333", Title: "77 Dock St"},
		}
	}

	got := ext.Extract("<html><body><p>nothing here</p></body></html>")
	require.Len(t, got, 1)
	assert.Equal(t, 1, ext.liveCalls)
	assert.Equal(t, "77 Dock St", got[0].Address)
	assert.Equal(t, "https://www.commercialmls.com/property/333", got[0].URL)
	assert.Equal(t, entity.PriceNotAvailable, got[0].Price)
}

func TestCanonicalPropertyURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#/search/wa/seattle/12345", "https://www.commercialmls.com/property/12345"},
		{"#/map/or/portland/9", "https://www.commercialmls.com/property/9"},
		{"https://www.commercialmls.com/property/42", "https://www.commercialmls.com/property/42"},
		{"/property/7", "/property/7"},
		{"#/trailing/", ""},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalPropertyURL(tt.in))
		})
	}
}

func TestSelectorsCheckboxFor(t *testing.T) {
	sel := DefaultSelectors()
	assert.Equal(t, sel.OfficeCheckbox, sel.checkboxFor("office"))
	assert.Equal(t, sel.MultifamilyCheckbox, sel.checkboxFor("multifamily"))
	assert.Empty(t, sel.checkboxFor("warehouse"))
}
