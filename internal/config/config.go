package config

import (
	"time"

	"github.com/lmartell/crescraper/internal/domain/entity"
	"github.com/lmartell/crescraper/internal/infra/browser"
)

// Config is the application configuration: the saved search, the browser
// settings, the optional schedule and email notification, and per-site
// selector overrides for riding out site redesigns without a rebuild.
type Config struct {
	PropertyTypes []string `json:"property_types"`
	Location      string   `json:"location"`
	MinPrice      string   `json:"min_price"`
	MaxPrice      string   `json:"max_price"`
	Websites      []string `json:"websites"`
	// DaysBack maps to each site's listing-age filter; 0 disables it.
	DaysBack int `json:"days_back"`

	// OutputDir holds latest_results.json and the scheduler's run marker.
	OutputDir string `json:"output_dir"`

	Browser browser.Config `json:"browser"`

	Schedule struct {
		Enabled bool `json:"enabled"`
		// Time is the daily run time as "HH:MM" local time.
		Time string `json:"time"`
	} `json:"schedule"`

	Email struct {
		Enabled  bool   `json:"enabled"`
		To       string `json:"to"`
		SMTPHost string `json:"smtp_host"`
		SMTPPort int    `json:"smtp_port"`
	} `json:"email"`

	Selectors struct {
		Loopnet       map[string]string `json:"loopnet"`
		Commercialmls map[string]string `json:"commercialmls"`
	} `json:"selectors"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	cfg := &Config{
		PropertyTypes: []string{"Office", "Retail", "Industrial"},
		Location:      "Seattle, WA",
		Websites:      []string{"commercialmls.com", "loopnet.com"},
		DaysBack:      1,
		OutputDir:     ".",
		Browser:       browser.DefaultConfig(),
	}
	cfg.Schedule.Time = "03:00"
	cfg.Email.SMTPHost = "smtp.gmail.com"
	cfg.Email.SMTPPort = 587
	return cfg
}

// Criteria builds the search criteria from the saved search. Unresolvable
// property type tags are dropped and reported in the second return value;
// the days-back setting becomes a concrete start date relative to now.
func (c *Config) Criteria(now time.Time) (entity.SearchCriteria, []string) {
	types, dropped := entity.ParsePropertyTypes(c.PropertyTypes)
	criteria := entity.SearchCriteria{
		PropertyTypes: types,
		Location:      c.Location,
		MinPrice:      c.MinPrice,
		MaxPrice:      c.MaxPrice,
		Websites:      c.Websites,
	}
	if c.DaysBack > 0 {
		criteria.StartDate = now.AddDate(0, 0, -c.DaysBack)
	}
	return criteria, dropped
}
