package browser

import (
	"fmt"
	"time"
)

// strategy is one way of performing an interaction. Strategies for the same
// interaction are tried in order until one succeeds.
type strategy struct {
	name string
	run  func() error
}

// tryEach runs the strategies in order and returns the name of the first one
// that succeeded. Failures are collected, not raised.
func tryEach(strategies []strategy) (string, error) {
	var lastErr error
	for _, st := range strategies {
		if err := st.run(); err != nil {
			lastErr = fmt.Errorf("%s: %w", st.name, err)
			continue
		}
		return st.name, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no strategies to try")
	}
	return "", lastErr
}

// withRetries runs attempt up to max times, invoking pre before each try and
// pausing between failed tries so a transiently unsettled DOM gets a chance
// to settle.
func withRetries(max int, pause time.Duration, pre func(), attempt func() bool) bool {
	if max < 1 {
		max = 1
	}
	for i := 0; i < max; i++ {
		if pre != nil {
			pre()
		}
		if attempt() {
			return true
		}
		if i < max-1 {
			time.Sleep(pause)
		}
	}
	return false
}
