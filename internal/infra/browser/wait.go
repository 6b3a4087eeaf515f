package browser

import (
	"time"

	"go.uber.org/zap"
)

// Condition names a wait predicate for WaitFor.
type Condition string

const (
	// ConditionPresence waits for at least one match to exist in the DOM.
	ConditionPresence Condition = "presence"
	// ConditionVisible waits for a match that is rendered and visible.
	ConditionVisible Condition = "visible"
	// ConditionClickable waits for a match that is visible and not covered.
	ConditionClickable Condition = "clickable"
	// ConditionCount waits for exactly Count matches.
	ConditionCount Condition = "count"
	// ConditionMinCount waits for at least Count matches.
	ConditionMinCount Condition = "min_count"
	// ConditionStable waits for the match count to stop changing for the
	// quiet period. This is how we know a dynamically-loaded results grid has
	// finished populating.
	ConditionStable Condition = "stable"
	// ConditionPageLoad waits for document.readyState to reach complete.
	ConditionPageLoad Condition = "page_load"
)

// WaitOptions tunes a WaitFor call. Zero values fall back to the session
// defaults.
type WaitOptions struct {
	Timeout  time.Duration
	Interval time.Duration
	// Count is the target for the count and min_count conditions.
	Count int
	// Quiet is the no-change period required by the stable condition.
	Quiet time.Duration
}

func (o WaitOptions) withDefaults(cfg Config) WaitOptions {
	if o.Timeout <= 0 {
		o.Timeout = cfg.waitTimeout()
	}
	if o.Interval <= 0 {
		o.Interval = defaultPollInterval
	}
	if o.Quiet <= 0 {
		o.Quiet = defaultQuietPeriod
	}
	return o
}

// WaitFor polls the condition until it holds or the timeout elapses. It never
// raises for an unmet condition, only returns false, so callers pick their
// own fallback.
func (s *Session) WaitFor(cond Condition, selector string, opts WaitOptions) bool {
	opts = opts.withDefaults(s.cfg)

	var ok bool
	switch cond {
	case ConditionPresence:
		ok = pollUntil(opts.Timeout, opts.Interval, func() bool {
			return s.matchCount(selector) > 0
		})
	case ConditionVisible:
		ok = pollUntil(opts.Timeout, opts.Interval, func() bool {
			return s.anyVisible(selector)
		})
	case ConditionClickable:
		ok = pollUntil(opts.Timeout, opts.Interval, func() bool {
			els, err := s.page.Elements(selector)
			if err != nil || len(els) == 0 {
				return false
			}
			_, err = els.First().Interactable()
			return err == nil
		})
	case ConditionCount:
		ok = pollUntil(opts.Timeout, opts.Interval, func() bool {
			return s.matchCount(selector) == opts.Count
		})
	case ConditionMinCount:
		ok = pollUntil(opts.Timeout, opts.Interval, func() bool {
			return s.matchCount(selector) >= opts.Count
		})
	case ConditionStable:
		ok = waitStableCount(opts.Timeout, opts.Interval, opts.Quiet, func() int {
			return s.matchCount(selector)
		})
	case ConditionPageLoad:
		ok = pollUntil(opts.Timeout, opts.Interval, func() bool {
			res, err := s.page.Eval(`() => document.readyState`)
			return err == nil && res.Value.Str() == "complete"
		})
	default:
		s.logger.Warn("unknown wait condition", zap.String("condition", string(cond)))
		return false
	}

	if !ok {
		s.logger.Debug("wait condition not met",
			zap.String("condition", string(cond)),
			zap.String("selector", selector),
			zap.Duration("timeout", opts.Timeout))
	}
	return ok
}

func (s *Session) matchCount(selector string) int {
	els, err := s.page.Elements(selector)
	if err != nil {
		return 0
	}
	return len(els)
}

func (s *Session) anyVisible(selector string) bool {
	els, err := s.page.Elements(selector)
	if err != nil {
		return false
	}
	for _, el := range els {
		if visible, err := el.Visible(); err == nil && visible {
			return true
		}
	}
	return false
}

// pollUntil re-checks the predicate at the given interval until it holds or
// the timeout elapses.
func pollUntil(timeout, interval time.Duration, check func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if check() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(interval)
	}
}

// waitStableCount polls the count at the given interval and succeeds once it
// has not changed for the quiet period. Intermediate counts while the page is
// still populating never satisfy it.
func waitStableCount(timeout, interval, quiet time.Duration, count func() int) bool {
	deadline := time.Now().Add(timeout)
	last := -1
	lastChange := time.Now()
	for {
		current := count()
		now := time.Now()
		if current != last {
			last = current
			lastChange = now
		} else if now.Sub(lastChange) >= quiet {
			return true
		}
		if now.After(deadline) {
			return false
		}
		time.Sleep(interval)
	}
}
