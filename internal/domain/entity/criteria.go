package entity

import (
	"fmt"
	"strings"
	"time"
)

type PropertyType string

const (
	PropertyTypeOffice      PropertyType = "office"
	PropertyTypeRetail      PropertyType = "retail"
	PropertyTypeIndustrial  PropertyType = "industrial"
	PropertyTypeMultifamily PropertyType = "multifamily"
)

// ParsePropertyType normalizes a user-supplied property type tag. The legacy
// "Investment" tag from old saved configs maps onto multifamily.
func ParsePropertyType(s string) (PropertyType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "office":
		return PropertyTypeOffice, true
	case "retail":
		return PropertyTypeRetail, true
	case "industrial":
		return PropertyTypeIndustrial, true
	case "multifamily", "investment":
		return PropertyTypeMultifamily, true
	default:
		return "", false
	}
}

// ParsePropertyTypes keeps the tags it can resolve and drops the rest,
// reporting the dropped ones so callers can log them.
func ParsePropertyTypes(tags []string) (types []PropertyType, dropped []string) {
	seen := make(map[PropertyType]bool, len(tags))
	for _, tag := range tags {
		pt, ok := ParsePropertyType(tag)
		if !ok {
			dropped = append(dropped, tag)
			continue
		}
		if !seen[pt] {
			seen[pt] = true
			types = append(types, pt)
		}
	}
	return types, dropped
}

// SearchCriteria is the read-only input for one scraping run. Prices are kept
// as raw strings because each site formats its own price inputs. A zero
// StartDate means no listing-age filter.
type SearchCriteria struct {
	PropertyTypes []PropertyType
	Location      string
	MinPrice      string
	MaxPrice      string
	StartDate     time.Time
	Websites      []string
}

func (c SearchCriteria) HasPriceRange() bool {
	return c.MinPrice != "" || c.MaxPrice != ""
}

func (c SearchCriteria) HasStartDate() bool {
	return !c.StartDate.IsZero()
}

// HasType reports whether the given property type was requested.
func (c SearchCriteria) HasType(pt PropertyType) bool {
	for _, t := range c.PropertyTypes {
		if t == pt {
			return true
		}
	}
	return false
}

func (c SearchCriteria) Validate() error {
	if strings.TrimSpace(c.Location) == "" {
		return fmt.Errorf("search criteria: location is required")
	}
	if len(c.PropertyTypes) == 0 {
		return fmt.Errorf("search criteria: at least one property type is required")
	}
	return nil
}
