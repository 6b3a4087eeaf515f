package browser

import (
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// DefaultClickRetries is the number of full click attempts (each attempt runs
// the whole strategy cascade) before Click gives up.
const DefaultClickRetries = 3

// Click resolves the selector and clicks it, absorbing the flaky-UI failure
// modes: before each attempt the overlay sweep runs and the target is
// scrolled to viewport center, then a JS click, a native click and a
// move-then-click are tried in order. Returns false instead of an error for
// expected interaction failures; the caller decides whether that is fatal.
func (s *Session) Click(selector, name string, maxRetries int) bool {
	return s.click(name, maxRetries, func() (*rod.Element, error) {
		return s.find(selector)
	})
}

// ClickElement is Click for an already-resolved element handle.
func (s *Session) ClickElement(el *rod.Element, name string, maxRetries int) bool {
	return s.click(name, maxRetries, func() (*rod.Element, error) {
		return el, nil
	})
}

func (s *Session) click(name string, maxRetries int, resolve func() (*rod.Element, error)) bool {
	if maxRetries <= 0 {
		maxRetries = DefaultClickRetries
	}
	attempt := 0
	ok := withRetries(maxRetries, retryDelay, s.RemoveOverlays, func() bool {
		attempt++
		s.logger.Debug("clicking",
			zap.String("target", name),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxRetries))

		el, err := resolve()
		if err != nil {
			s.logger.Warn("click target not found", zap.String("target", name), zap.Error(err))
			return false
		}
		if err := el.ScrollIntoView(); err != nil {
			s.logger.Debug("scroll into view failed", zap.String("target", name), zap.Error(err))
		}
		time.Sleep(settleDelay)

		used, err := tryEach([]strategy{
			{name: "js click", run: func() error {
				_, err := el.Eval(`() => this.click()`)
				return err
			}},
			{name: "native click", run: func() error {
				return el.Click(proto.InputMouseButtonLeft, 1)
			}},
			{name: "move and click", run: func() error {
				if err := el.Hover(); err != nil {
					return err
				}
				return el.Click(proto.InputMouseButtonLeft, 1)
			}},
		})
		if err != nil {
			s.logger.Warn("all click strategies failed",
				zap.String("target", name),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return false
		}
		s.logger.Debug("clicked", zap.String("target", name), zap.String("strategy", used))
		time.Sleep(settleDelay)
		return true
	})
	if !ok {
		s.logger.Error("failed to click",
			zap.String("target", name),
			zap.Int("attempts", maxRetries))
	}
	return ok
}

// ForceClick dispatches a click on the selector straight from script, for
// submit buttons that stay pointer-intercepted no matter what. Returns false
// if nothing matched.
func (s *Session) ForceClick(selector string) bool {
	res, err := s.page.Eval(`(sel) => {
		const el = document.querySelector(sel);
		if (!el) return false;
		el.click();
		return true;
	}`, selector)
	if err != nil {
		s.logger.Warn("force click failed", zap.String("selector", selector), zap.Error(err))
		return false
	}
	return res.Value.Bool()
}

// InputText waits for the target to become interactable, focuses it and types
// text into it. clearFirst wipes the field twice (native clear, then a direct
// value reset for inputs whose clear is intercepted by framework bindings).
// The entry cascade: native keystrokes, direct value assignment plus a
// synthetic input event, pointer-focus plus keystrokes. pressEnter sends a
// terminal Enter after a settle delay; a failed Enter fails the whole entry,
// since a committed-but-unsubmitted field is indistinguishable from success
// for callers that rely on the keypress.
func (s *Session) InputText(selector, text, name string, pressEnter, clearFirst bool) bool {
	s.RemoveOverlays()
	time.Sleep(settleDelay)
	s.logger.Debug("entering text", zap.String("target", name))

	el, err := s.find(selector)
	if err != nil {
		s.logger.Error("input target not found", zap.String("target", name), zap.Error(err))
		return false
	}
	if _, err := el.Timeout(s.cfg.waitTimeout()).WaitInteractable(); err != nil {
		s.logger.Error("input target not interactable", zap.String("target", name), zap.Error(err))
		return false
	}
	if err := el.ScrollIntoView(); err != nil {
		s.logger.Debug("scroll into view failed", zap.String("target", name), zap.Error(err))
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		s.logger.Debug("focus click failed", zap.String("target", name), zap.Error(err))
	}

	if clearFirst {
		if err := el.SelectAllText(); err == nil {
			_ = el.Type(input.Backspace)
		}
		// Re-clear directly in case the native clear was swallowed.
		if _, err := el.Eval(`() => { this.value = '' }`); err != nil {
			s.logger.Debug("value reset failed", zap.String("target", name), zap.Error(err))
		}
	}

	used, err := tryEach([]strategy{
		{name: "keystrokes", run: func() error {
			return el.Input(text)
		}},
		{name: "value assignment", run: func() error {
			_, err := el.Eval(`(text) => {
				this.value = text;
				this.dispatchEvent(new Event('input', { bubbles: true }));
			}`, text)
			return err
		}},
		{name: "pointer focus and keystrokes", run: func() error {
			if err := el.Hover(); err != nil {
				return err
			}
			if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
				return err
			}
			return el.Input(text)
		}},
	})
	if err != nil {
		s.logger.Error("all text entry strategies failed",
			zap.String("target", name),
			zap.Error(err))
		return false
	}
	s.logger.Debug("text entered", zap.String("target", name), zap.String("strategy", used))

	if pressEnter {
		time.Sleep(settleDelay)
		if err := el.Type(input.Enter); err != nil {
			s.logger.Error("enter keypress failed", zap.String("target", name), zap.Error(err))
			return false
		}
	}
	time.Sleep(settleDelay)
	return true
}

// SendKeys types raw keys into the element matching the selector. Used for
// the Tab-out-to-commit and arrow-key-selection quirks.
func (s *Session) SendKeys(selector string, keys ...input.Key) bool {
	el, err := s.find(selector)
	if err != nil {
		s.logger.Debug("send keys target not found", zap.String("selector", selector), zap.Error(err))
		return false
	}
	if err := el.Type(keys...); err != nil {
		s.logger.Debug("send keys failed", zap.String("selector", selector), zap.Error(err))
		return false
	}
	return true
}
