package commercialmls

import "encoding/json"

// Selectors is the site's locator table, kept out of the adapter's control
// flow so markup drift is a data change.
type Selectors struct {
	SearchButton        string `json:"search_button"`
	LocationDropdown    string `json:"location_dropdown"`
	LocationInput       string `json:"location_input"`
	TypeDropdown        string `json:"type_dropdown"`
	ForSaleCheckbox     string `json:"for_sale_checkbox"`
	MultifamilyCheckbox string `json:"multifamily_checkbox"`
	IndustrialCheckbox  string `json:"industrial_checkbox"`
	OfficeCheckbox      string `json:"office_checkbox"`
	RetailCheckbox      string `json:"retail_checkbox"`
	PriceDropdown       string `json:"price_dropdown"`
	PriceCheckbox       string `json:"price_checkbox"`
	MinPriceInput       string `json:"min_price_input"`
	MaxPriceInput       string `json:"max_price_input"`
	MoreDropdown        string `json:"more_dropdown"`
	DateAddedCheckbox   string `json:"date_added_checkbox"`
	StartDateInput      string `json:"start_date_input"`
	GridButton          string `json:"grid_button"`
	GridContainer       string `json:"grid_container"`

	// Extraction selectors, relative to the grid container / card.
	Card         string `json:"card"`
	CardLink     string `json:"card_link"`
	CardBadge    string `json:"card_badge"`
	CardName     string `json:"card_name"`
	CardPrice    string `json:"card_price"`
	DetailAnchor string `json:"detail_anchor"`
}

// DefaultSelectors returns the locator table for the current site markup.
// The deep chains mirror the site's generated class structure.
func DefaultSelectors() Selectors {
	return Selectors{
		SearchButton:        "#content > div:nth-child(1) > div.row.mb-5.title-container > div > div > div.row.mt-3 > div:nth-child(1) > a",
		LocationDropdown:    "#crroot > div > div.js-main-content > div:nth-child(1) > div:nth-child(1) > div > div > div:nth-child(1) > div:nth-child(1) > div",
		LocationInput:       "#crroot > div > div.js-main-content > div:nth-child(1) > div:nth-child(1) > div > div > div:nth-child(1) > div:nth-child(1) > div.dropdown.p2.rounded--bottom.js-dropdown > div > div:nth-child(1) > div.mb2.clearfix > div > input",
		TypeDropdown:        "#crroot > div > div.js-main-content > div:nth-child(1) > div:nth-child(1) > div > div > div:nth-child(1) > div:nth-child(2) > div.p2.js-dropdown-toggle",
		ForSaleCheckbox:     "#crroot > div > div.js-main-content > div:nth-child(1) > div:nth-child(1) > div > div > div:nth-child(1) > div:nth-child(2) > div.dropdown.p2.rounded--bottom.js-dropdown > div.grid-row > div.grid-column.span-6 > div.control-group > div:nth-child(1) > label > span.control-indicator",
		MultifamilyCheckbox: "#crroot > div > div.js-main-content > div:nth-child(1) > div:nth-child(1) > div > div > div:nth-child(1) > div:nth-child(2) > div.dropdown.p2.rounded--bottom.js-dropdown > div.grid-row > div.grid-column.span-10.border--left > div > div:nth-child(9) > label > span.control-indicator",
		IndustrialCheckbox:  "#crroot > div > div.js-main-content > div:nth-child(1) > div:nth-child(1) > div > div > div:nth-child(1) > div:nth-child(2) > div.dropdown.p2.rounded--bottom.js-dropdown > div.grid-row > div.grid-column.span-10.border--left > div > div:nth-child(3) > label > span.control-indicator",
		OfficeCheckbox:      "#crroot > div > div.js-main-content > div:nth-child(1) > div:nth-child(1) > div > div > div:nth-child(1) > div:nth-child(2) > div.dropdown.p2.rounded--bottom.js-dropdown > div.grid-row > div.grid-column.span-10.border--left > div > div:nth-child(2) > label > span.control-indicator",
		RetailCheckbox:      "#crroot > div > div.js-main-content > div:nth-child(1) > div:nth-child(1) > div > div > div:nth-child(1) > div:nth-child(2) > div.dropdown.p2.rounded--bottom.js-dropdown > div.grid-row > div.grid-column.span-10.border--left > div > div:nth-child(1) > label > span.control-indicator",
		PriceDropdown:       "#crroot > div > div.js-main-content > div:nth-child(1) > div:nth-child(1) > div > div > div:nth-child(1) > div:nth-child(3) > div.p2.js-dropdown-toggle",
		PriceCheckbox:       "#crroot > div > div.js-main-content > div:nth-child(1) > div:nth-child(1) > div > div > div:nth-child(1) > div:nth-child(3) > div.dropdown.p2.rounded--bottom.js-dropdown > div > div:nth-child(1) > div > label > span.control-indicator",
		MinPriceInput:       "#crroot > div > div.js-main-content > div:nth-child(1) > div:nth-child(1) > div > div > div:nth-child(1) > div:nth-child(3) > div.dropdown.p2.rounded--bottom.js-dropdown > div > div:nth-child(1) > div > div > input:nth-child(2)",
		MaxPriceInput:       "#crroot > div > div.js-main-content > div:nth-child(1) > div:nth-child(1) > div > div > div:nth-child(1) > div:nth-child(3) > div.dropdown.p2.rounded--bottom.js-dropdown > div > div:nth-child(1) > div > div > input:nth-child(4)",
		MoreDropdown:        "#crroot > div > div.js-main-content > div:nth-child(1) > div:nth-child(1) > div > div > div:nth-child(1) > div:nth-child(4) > div.p2.js-dropdown-toggle",
		DateAddedCheckbox:   "#crroot > div > div.js-main-content > div:nth-child(1) > div:nth-child(1) > div > div > div:nth-child(1) > div:nth-child(4) > div.dropdown.p2.rounded--bottom.js-dropdown > div > div.grid-column.span-12.border--right > div:nth-child(2) > label > span.control-indicator",
		StartDateInput:      "#crroot > div > div.js-main-content > div:nth-child(1) > div:nth-child(1) > div > div > div:nth-child(1) > div:nth-child(4) > div.dropdown.p2.rounded--bottom.js-dropdown > div > div.grid-column.span-12.border--right > div.border--bottom.pb2.mb2 > div.mbs.clearfix > input",
		GridButton:          "#crroot > div > div.js-main-content > div:nth-child(1) > div:nth-child(1) > div > div > div.float-right.p1.bgh--shade.pointer > a",
		GridContainer:       "#crroot > div > div.js-main-content > div:nth-child(1) > div:nth-child(2) > div.container--huge.pt3",

		Card:         "div.grid-column.grid-card div.rounded.pointer.card",
		CardLink:     "a.link",
		CardBadge:    "div.badge",
		CardName:     "div.bottom0.left0.text--white p.bold",
		CardPrice:    "div.relative.p1 p.mb0.ellipsis span",
		DetailAnchor: "a[href*='/property/']",
	}
}

// WithOverrides returns a copy with entries replaced by the given map, keyed
// by the JSON tag names.
func (s Selectors) WithOverrides(overrides map[string]string) Selectors {
	if len(overrides) == 0 {
		return s
	}
	raw, err := json.Marshal(overrides)
	if err != nil {
		return s
	}
	out := s
	_ = json.Unmarshal(raw, &out)
	return out
}

func (s Selectors) checkboxFor(propertyType string) string {
	switch propertyType {
	case "multifamily":
		return s.MultifamilyCheckbox
	case "industrial":
		return s.IndustrialCheckbox
	case "office":
		return s.OfficeCheckbox
	case "retail":
		return s.RetailCheckbox
	default:
		return ""
	}
}
