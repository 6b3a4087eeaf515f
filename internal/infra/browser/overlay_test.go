package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlayScript(t *testing.T) {
	t.Run("quotes every selector and the allowed modal", func(t *testing.T) {
		script := overlayScript([]string{"div.csgp-modal-overlay", "div.csgp-modal.ng-isolate-scope"}, "advanced-filters-modal")
		assert.Contains(t, script, `"div.csgp-modal-overlay"`)
		assert.Contains(t, script, `"div.csgp-modal.ng-isolate-scope"`)
		assert.Contains(t, script, `"advanced-filters-modal"`)
		assert.Contains(t, script, "position: fixed")
	})

	t.Run("empty selector list leaves the sweep guarded", func(t *testing.T) {
		script := overlayScript(nil, "advanced-filters-modal")
		assert.Contains(t, script, "const selectors = [];")
		assert.Contains(t, script, "if (selectors.length)")
	})

	t.Run("selectors with quotes survive escaping", func(t *testing.T) {
		script := overlayScript([]string{`div[data-role="overlay"]`}, "keep")
		assert.Contains(t, script, `div[data-role=\"overlay\"]`)
	})
}

func TestConfigWaitTimeout(t *testing.T) {
	assert.Equal(t, defaultWaitTimeout, Config{}.waitTimeout())
	assert.Equal(t, defaultWaitTimeout, DefaultConfig().waitTimeout())
}
