package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReporterClampsAndOrders(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{
			name: "in-range values pass through",
			in:   []float64{0.05, 0.5, 1.0},
			want: []float64{0.05, 0.5, 1.0},
		},
		{
			name: "out-of-range values are clamped",
			in:   []float64{-0.3, 1.7},
			want: []float64{0, 1},
		},
		{
			name: "regressions are raised to the last value",
			in:   []float64{0.6, 0.4, 0.8},
			want: []float64{0.6, 0.6, 0.8},
		},
		{
			name: "repeated value is re-emitted",
			in:   []float64{0.5, 0.5},
			want: []float64{0.5, 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []float64
			r := NewReporter(func(v float64) { got = append(got, v) })
			for _, v := range tt.in {
				r.Report(v)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReporterNilCallback(t *testing.T) {
	r := NewReporter(nil)
	assert.NotPanics(t, func() {
		r.Report(0.3)
		r.Report(0.9)
	})
	assert.Equal(t, 0.9, r.Last())
}
