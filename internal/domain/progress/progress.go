// Package progress carries per-site progress signals from a running scrape to
// whoever is watching it (a UI progress bar, a log line, a test).
package progress

// Func receives values in [0,1]. Delivery is synchronous at the point of the
// operation the value follows.
type Func func(float64)

// Reporter clamps and orders progress emissions for one site run: values are
// forced into [0,1] and never go backwards. A nil callback is fine, the
// Reporter then only tracks the last value.
type Reporter struct {
	fn   Func
	last float64
}

func NewReporter(fn Func) *Reporter {
	return &Reporter{fn: fn}
}

// Report emits v. Out-of-range values are clamped and values below the last
// emission are raised to it, so consumers always see a non-decreasing series.
func (r *Reporter) Report(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	if v < r.last {
		v = r.last
	}
	r.last = v
	if r.fn != nil {
		r.fn(v)
	}
}

// Last returns the most recently emitted value.
func (r *Reporter) Last() float64 {
	return r.last
}
