package browser

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/corpix/uarand"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"
)

// Session owns one browser process and the single page driven through it. A
// Session belongs to exactly one site run at a time and must be closed on
// every exit path, or the browser process leaks.
type Session struct {
	cfg      Config
	logger   *zap.Logger
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

func NewSession(cfg Config, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{cfg: cfg, logger: logger}
}

// Open launches the browser process with the anti-detection flags, connects,
// and prepares a stealth page with a fixed 1920x1080 viewport and the
// overridden user agent. Launch failures are structural and propagate.
func (s *Session) Open() error {
	l := launcher.New().
		Headless(!s.cfg.Debug).
		Leakless(s.cfg.Leakless).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-gpu").
		Set("window-size", "1920,1080")
	if s.cfg.Bin != "" {
		l = l.Bin(s.cfg.Bin)
	}
	if s.cfg.NoSandbox {
		l = l.NoSandbox(true)
	}
	if s.cfg.DisableDevShmUsage {
		l = l.Set("disable-dev-shm-usage")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	s.launcher = l

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	s.browser = b

	page, err := stealth.Page(b)
	if err != nil {
		return fmt.Errorf("create stealth page: %w", err)
	}
	s.page = page

	// Belt and suspenders on top of stealth: the sites probe this flag.
	if _, err := page.EvalOnNewDocument(
		`Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`,
	); err != nil {
		s.logger.Warn("failed to mask webdriver flag", zap.Error(err))
	}

	ua := s.cfg.UserAgent
	if s.cfg.RandomUserAgent {
		ua = uarand.GetRandom()
	}
	if ua == "" {
		ua = DefaultUserAgent
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
		return fmt.Errorf("override user agent: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
	}); err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}

	s.logger.Debug("browser session opened",
		zap.Bool("headless", !s.cfg.Debug),
		zap.String("user_agent", ua))
	return nil
}

// Close terminates the browser process. In debug mode it first waits for the
// operator to press Enter so the final page state can be inspected. Safe to
// call on a Session that never opened.
func (s *Session) Close() {
	if s.browser == nil {
		return
	}
	if s.cfg.Debug {
		s.logger.Info("debug mode: browser stays open, press Enter to close")
		fmt.Fprintln(os.Stderr, "Debug mode: browser window will stay open. Press Enter to close...")
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
	}
	if err := s.browser.Close(); err != nil {
		s.logger.Warn("error closing browser", zap.Error(err))
	}
	s.browser = nil
	s.page = nil
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
}

// Page exposes the underlying page for site-specific maneuvers the primitives
// do not cover.
func (s *Session) Page() *rod.Page {
	return s.page
}

func (s *Session) Navigate(url string) error {
	s.logger.Debug("navigating", zap.String("url", url))
	if err := s.page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := s.page.Timeout(s.cfg.waitTimeout()).WaitLoad(); err != nil {
		s.logger.Warn("page load wait timed out", zap.String("url", url), zap.Error(err))
	}
	return nil
}

// CurrentURL returns the page's current URL, or "" if it cannot be read.
func (s *Session) CurrentURL() string {
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// VerifyPageLoad waits out the settle period and checks that the current URL
// contains (or exactly equals) the expected domain.
func (s *Session) VerifyPageLoad(domain string, settle time.Duration, exact bool) bool {
	time.Sleep(settle)
	current := strings.ToLower(s.CurrentURL())
	domain = strings.ToLower(domain)
	match := strings.Contains(current, domain)
	if exact {
		match = current == domain
	}
	if !match {
		s.logger.Error("failed to reach expected domain",
			zap.String("expected", domain),
			zap.String("current_url", current))
		return false
	}
	s.logger.Info("page loaded", zap.String("url", current))
	return true
}

// HTML returns a static snapshot of the full document.
func (s *Session) HTML() (string, error) {
	html, err := s.page.HTML()
	if err != nil {
		return "", fmt.Errorf("snapshot page html: %w", err)
	}
	return html, nil
}

// Blur drops focus from the active element, which closes the sites' dropdown
// panels.
func (s *Session) Blur() {
	_, err := s.page.Eval(`() => { if (document.activeElement) document.activeElement.blur() }`)
	if err != nil {
		s.logger.Debug("blur failed", zap.Error(err))
	}
}

// LiveAnchor is an anchor read straight off the live DOM, used by the
// extractors' last-resort strategy.
type LiveAnchor struct {
	Href  string
	Title string
}

// Anchors queries the live DOM for anchors matching the selector and returns
// their href and title attributes. Errors are swallowed, the result is simply
// shorter.
func (s *Session) Anchors(selector string) []LiveAnchor {
	if s.page == nil {
		return nil
	}
	els, err := s.page.Elements(selector)
	if err != nil {
		s.logger.Debug("live anchor query failed", zap.String("selector", selector), zap.Error(err))
		return nil
	}
	anchors := make([]LiveAnchor, 0, len(els))
	for _, el := range els {
		href, err := el.Attribute("href")
		if err != nil || href == nil || *href == "" {
			continue
		}
		a := LiveAnchor{Href: *href}
		if title, err := el.Attribute("title"); err == nil && title != nil {
			a.Title = *title
		}
		anchors = append(anchors, a)
	}
	return anchors
}

// find resolves a selector within the wait timeout. The returned element is
// detached from the lookup deadline so later operations on it are not bound
// by it.
func (s *Session) find(selector string) (*rod.Element, error) {
	el, err := s.page.Timeout(s.cfg.waitTimeout()).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("find %q: %w", selector, err)
	}
	return el.CancelTimeout(), nil
}
