package browser

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Tests in this file drive a real headless browser against data: URL fixture
// pages. They are skipped in short mode and when no browser can be launched.

func newLiveSession(t *testing.T) *Session {
	t.Helper()
	if testing.Short() {
		t.Skip("live browser test")
	}
	sess := NewSession(DefaultConfig(), zaptest.NewLogger(t))
	if err := sess.Open(); err != nil {
		t.Skipf("browser unavailable: %v", err)
	}
	t.Cleanup(sess.Close)
	return sess
}

func navigateHTML(t *testing.T, sess *Session, html string) {
	t.Helper()
	require.NoError(t, sess.Navigate("data:text/html,"+url.PathEscape(html)))
}

func evalInt(t *testing.T, sess *Session, js string) int {
	t.Helper()
	res, err := sess.Page().Eval(js)
	require.NoError(t, err)
	return res.Value.Int()
}

func evalStr(t *testing.T, sess *Session, js string) string {
	t.Helper()
	res, err := sess.Page().Eval(js)
	require.NoError(t, err)
	return res.Value.Str()
}

func TestRemoveOverlaysUnblocksClick(t *testing.T) {
	sess := newLiveSession(t)
	navigateHTML(t, sess, `<html><body>
<button id="target" onclick="document.title='clicked'">go</button>
<div class="csgp-modal-overlay" style="position:fixed;top:0;left:0;width:100vw;height:100vh;z-index:9999;background:rgba(0,0,0,0.5)"></div>
<div class="advanced-filters-modal">filters</div>
</body></html>`)

	sess.RemoveOverlays()

	assert.Zero(t, evalInt(t, sess, `() => document.querySelectorAll('div.csgp-modal-overlay').length`),
		"overlay must be gone after the sweep")
	assert.Equal(t, 1, evalInt(t, sess, `() => document.querySelectorAll('div.advanced-filters-modal').length`),
		"allow-listed modal must survive the sweep")

	require.True(t, sess.Click("#target", "target button", 1))
	assert.Equal(t, "clicked", evalStr(t, sess, `() => document.title`))
}

func TestRemoveOverlaysDropsStrayFixedDivs(t *testing.T) {
	sess := newLiveSession(t)
	navigateHTML(t, sess, `<html><body>
<div id="banner" style="position: fixed; top: 0; width: 100vw">cookies!</div>
<div class="advanced-filters-modal"><div style="position: fixed; top: 10px">inside</div></div>
</body></html>`)

	sess.RemoveOverlays()

	assert.Zero(t, evalInt(t, sess, `() => document.querySelectorAll('#banner').length`))
	// Fixed-position elements inside the allow-listed modal are left alone.
	assert.Equal(t, 1, evalInt(t, sess, `() => document.querySelectorAll('.advanced-filters-modal div').length`))
}

func TestInputTextWaitsOutCoveringElement(t *testing.T) {
	sess := newLiveSession(t)
	// The shield is not a div and not on the overlay selector list, so the
	// sweep leaves it; only its timed self-removal frees the input. The entry
	// must ride out that window instead of failing the first probe.
	navigateHTML(t, sess, `<html><body>
<input id="loc" type="text">
<section id="shield" style="position:fixed;top:0;left:0;width:100vw;height:100vh;z-index:9999;background:white"></section>
<script>setTimeout(() => document.getElementById('shield').remove(), 800)</script>
</body></html>`)

	require.True(t, sess.InputText("#loc", "Seattle, WA", "location input", false, false))
	assert.Equal(t, "Seattle, WA", evalStr(t, sess, `() => document.getElementById('loc').value`))
}

func TestInputTextPressEnter(t *testing.T) {
	sess := newLiveSession(t)
	navigateHTML(t, sess, `<html><body>
<input id="q" type="text" value="stale" onkeydown="if (event.key === 'Enter') document.title = 'submitted'">
</body></html>`)

	require.True(t, sess.InputText("#q", "hello", "query input", true, true))
	assert.Equal(t, "hello", evalStr(t, sess, `() => document.getElementById('q').value`))
	assert.Equal(t, "submitted", evalStr(t, sess, `() => document.title`))
}
