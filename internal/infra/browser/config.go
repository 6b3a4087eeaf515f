package browser

import "time"

// DefaultUserAgent is reported to the sites instead of the headless build's
// own string.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

const (
	defaultWaitTimeout  = 10 * time.Second
	defaultPollInterval = 250 * time.Millisecond
	defaultQuietPeriod  = 2 * time.Second
	settleDelay         = 300 * time.Millisecond
	retryDelay          = 500 * time.Millisecond
)

// Config controls how the browser process is launched and how patient the
// interaction primitives are.
type Config struct {
	// Debug runs the browser headed and keeps it open on Close until the
	// operator presses Enter.
	Debug bool `json:"debug"`
	// Bin overrides the browser binary path. Empty means auto-detect.
	Bin                string `json:"bin"`
	UserAgent          string `json:"user_agent"`
	RandomUserAgent    bool   `json:"random_user_agent"`
	NoSandbox          bool   `json:"no_sandbox"`
	DisableDevShmUsage bool   `json:"disable_dev_shm_usage"`
	Leakless           bool   `json:"leakless"`
	// WaitTimeout bounds every element lookup and wait condition.
	WaitTimeout time.Duration `json:"-"`
	// OverlaySelectors are the modal/overlay container patterns the suppressor
	// removes. AllowedModal survives the sweep.
	OverlaySelectors []string `json:"overlay_selectors"`
	AllowedModal     string   `json:"allowed_modal"`
}

// DefaultConfig returns the settings used against the production sites.
func DefaultConfig() Config {
	return Config{
		UserAgent:          DefaultUserAgent,
		NoSandbox:          true,
		DisableDevShmUsage: true,
		Leakless:           true,
		WaitTimeout:        defaultWaitTimeout,
		OverlaySelectors: []string{
			"div.csgp-modal-overlay",
			"div.csgp-modal.ng-isolate-scope",
		},
		AllowedModal: "advanced-filters-modal",
	}
}

func (c Config) waitTimeout() time.Duration {
	if c.WaitTimeout <= 0 {
		return defaultWaitTimeout
	}
	return c.WaitTimeout
}
