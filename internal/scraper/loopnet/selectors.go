package loopnet

import "encoding/json"

// Selectors is the site's locator table. It is configuration, not logic: the
// adapter's control flow never looks at the strings, so a site redesign is
// absorbed by overriding entries here.
type Selectors struct {
	LocationBox          string `json:"location_box"`
	SaleLeaseDropdown    string `json:"sale_lease_dropdown"`
	ForSaleButton        string `json:"for_sale_button"`
	PropertyTypeDropdown string `json:"property_type_dropdown"`
	MultifamilyCheckbox  string `json:"multifamily_checkbox"`
	RetailCheckbox       string `json:"retail_checkbox"`
	IndustrialCheckbox   string `json:"industrial_checkbox"`
	OfficeCheckbox       string `json:"office_checkbox"`
	OtherFiltersButton   string `json:"other_filters_button"`
	MinPriceBox          string `json:"min_price_box"`
	MaxPriceBox          string `json:"max_price_box"`
	CustomDateCheckbox   string `json:"custom_date_checkbox"`
	StartDateBox         string `json:"start_date_box"`
	SearchButton         string `json:"search_button"`
	ResultsContainer     string `json:"search_results_container"`
	PopupCloseButton     string `json:"popup_close_button"`

	// Extraction selectors.
	Card        string `json:"card"`
	CardAlt     string `json:"card_alt"`
	CardAddress string `json:"card_address"`
	CardLoc     string `json:"card_location"`
	CardPrice   string `json:"card_price"`
	CardType    string `json:"card_type"`
	DetailLink  string `json:"details_link"`
	// DetailAnchor matches the page's detail links directly when the card
	// layout has drifted.
	DetailAnchor string `json:"detail_anchor"`
}

// DefaultSelectors returns the locator table for the current site markup.
func DefaultSelectors() Selectors {
	return Selectors{
		LocationBox:          "#dataSection > section.wrap.hero > div.module.clearfix.wrapper-container > div > div > form > div > div > div.quick-search-container.search-location-container > div.typeahead-container > div > input",
		SaleLeaseDropdown:    "#quickSearchFilters > div.criteria-inputs > div.search-filter.search-type-container > div > button",
		ForSaleButton:        "#quickSearchFilters > div.criteria-inputs > div.search-filter.search-type-container > div > ul > li:nth-child(2) > button",
		PropertyTypeDropdown: "#quickSearchFilters > div.filters > div:nth-child(1) > div > button",
		MultifamilyCheckbox:  "#quickSearchFilters > div.filters > div:nth-child(1) > div > div > ul > li:nth-child(7) > label > input",
		RetailCheckbox:       "#quickSearchFilters > div.filters > div:nth-child(1) > div > div > ul > li:nth-child(4) > label > input",
		IndustrialCheckbox:   "#quickSearchFilters > div.filters > div:nth-child(1) > div > div > ul > li:nth-child(3) > label > input",
		OfficeCheckbox:       "#quickSearchFilters > div.filters > div:nth-child(1) > div > div > ul > li:nth-child(2) > label > input",
		OtherFiltersButton:   "#quickSearchFilters > div.filters > div:nth-child(15) > button",
		MinPriceBox:          ".price-range .range-from input",
		MaxPriceBox:          ".price-range .range-to input",
		CustomDateCheckbox:   ".date-entered .pill-group > div:nth-child(2) label",
		StartDateBox:         ".date-entered .custom-time-period input",
		SearchButton:         "div.csgp-modal.advanced-filters-modal button.button.primary.submit",
		ResultsContainer:     "#dataSection > div.main-content > div.placard-container",
		PopupCloseButton:     "button.csgp-modal-close.ln-icon-close-hollow",

		Card:         "div.placard-content",
		CardAlt:      ".property-card, article.placard",
		CardAddress:  "h4 a",
		CardLoc:      "a.subtitle-beta",
		CardPrice:    "li[name='Price']",
		CardType:     "ul.data-points-2c li:nth-child(3)",
		DetailLink:   "a[title*='More details']",
		DetailAnchor: "a[title*='More details for']",
	}
}

// WithOverrides returns a copy with entries replaced by the given map, keyed
// by the JSON tag names.
func (s Selectors) WithOverrides(overrides map[string]string) Selectors {
	if len(overrides) == 0 {
		return s
	}
	// Round-trip through JSON so overrides bind by tag name.
	raw, err := json.Marshal(overrides)
	if err != nil {
		return s
	}
	out := s
	_ = json.Unmarshal(raw, &out)
	return out
}

// checkboxFor maps a property type to its filter checkbox, or "" for types
// the site has no checkbox for.
func (s Selectors) checkboxFor(propertyType string) string {
	switch propertyType {
	case "multifamily":
		return s.MultifamilyCheckbox
	case "retail":
		return s.RetailCheckbox
	case "industrial":
		return s.IndustrialCheckbox
	case "office":
		return s.OfficeCheckbox
	default:
		return ""
	}
}
