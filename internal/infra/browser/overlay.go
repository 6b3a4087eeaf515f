package browser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RemoveOverlays sweeps the DOM for known modal/overlay containers and
// removes them, along with any stray fixed-position elements, so they cannot
// intercept the next interaction. Containers inside the allowed modal survive
// the sweep, and body scrollability is restored when that modal is not open.
// Best-effort: failures are logged and swallowed, and the sweep is a no-op
// when nothing matches.
func (s *Session) RemoveOverlays() {
	if s.page == nil {
		return
	}
	if _, err := s.page.Eval(overlayScript(s.cfg.OverlaySelectors, s.cfg.AllowedModal)); err != nil {
		s.logger.Debug("overlay sweep failed", zap.Error(err))
		return
	}
	time.Sleep(settleDelay)
}

// overlayScript builds the sweep function. overlaySelectors are the container
// patterns to remove; allowedModal is the class name of the one modal that
// must survive (the filter dialog an adapter may be working inside).
func overlayScript(overlaySelectors []string, allowedModal string) string {
	quoted := make([]string, 0, len(overlaySelectors))
	for _, sel := range overlaySelectors {
		quoted = append(quoted, strconv.Quote(sel))
	}
	return fmt.Sprintf(`() => {
		const allowed = %s;
		const selectors = [%s];
		if (selectors.length) {
			document.querySelectorAll(selectors.join(', ')).forEach(overlay => {
				if (!overlay.classList.contains(allowed)) {
					overlay.remove();
				}
			});
		}

		const fixedElements = document.querySelectorAll('div[style*="position: fixed"]');
		fixedElements.forEach(element => {
			if (!element.closest('.' + allowed)) {
				element.remove();
			}
		});

		if (!document.querySelector('.' + allowed)) {
			document.body.style.overflow = 'auto';
			document.body.style.position = 'relative';
			document.body.style.height = 'auto';
		}
	}`, strconv.Quote(allowedModal), strings.Join(quoted, ", "))
}
