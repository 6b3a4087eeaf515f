package entity

// Field sentinels used when a value cannot be read off the page. Consumers
// check for these strings instead of null.
const (
	AddressNotAvailable = "Address not available"
	PriceNotAvailable   = "Price not available"
	TypeNotAvailable    = "Type not available"
)

// Listing is one extracted search result. All fields are raw site-formatted
// strings; URL is the detail-page link and doubles as the dedup key, so it is
// never empty on a kept listing.
type Listing struct {
	Address      string `json:"address"`
	Price        string `json:"price"`
	PropertyType string `json:"property_type"`
	URL          string `json:"url"`
}

// NewListing returns a Listing with every missing field replaced by its
// sentinel.
func NewListing(address, price, propertyType, url string) Listing {
	if address == "" {
		address = AddressNotAvailable
	}
	if price == "" {
		price = PriceNotAvailable
	}
	if propertyType == "" {
		propertyType = TypeNotAvailable
	}
	return Listing{
		Address:      address,
		Price:        price,
		PropertyType: propertyType,
		URL:          url,
	}
}
