package browser

import (
	"math/rand"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// jsPressAndHold dispatches the pointer/mouse event sequence of a held
// click. Fallback for verification widgets that swallow native input.
const jsPressAndHold = `(el, holdMs) => {
	el.scrollIntoView({block: 'center', inline: 'center'});
	const fire = (type, opts = {}) => {
		const r = el.getBoundingClientRect();
		el.dispatchEvent(new PointerEvent(type, Object.assign({
			bubbles: true, cancelable: true, composed: true,
			pointerId: 1, pointerType: 'mouse', isPrimary: true, buttons: 1,
			clientX: (r.left + r.right) / 2, clientY: (r.top + r.bottom) / 2
		}, opts)));
	};
	const mouse = type => el.dispatchEvent(new MouseEvent(type, {bubbles: true, cancelable: true, buttons: 1}));
	fire('pointerover'); fire('pointerenter'); fire('pointerdown');
	mouse('mouseover'); mouse('mouseenter'); mouse('mousedown');
	return new Promise(resolve => {
		setTimeout(() => {
			fire('pointerup', {buttons: 0});
			mouse('mouseup');
			mouse('click');
			resolve(true);
		}, holdMs);
	});
}`

// PressAndHold finds a button-like element whose text mentions "press" and
// "hold" (main document first, then frames) and holds it down for duration.
// Used against hold-to-verify interstitials. Returns false when no such
// element exists or every interaction path failed.
func (b *Browser) PressAndHold(page playwright.Page, duration time.Duration) bool {
	target := b.findHoldButton(page, 8*time.Second)
	if target == nil {
		return false
	}

	if err := target.ScrollIntoViewIfNeeded(); err != nil {
		b.logger.Debug("scroll into view failed", "error", err)
	}
	time.Sleep(150 * time.Millisecond)

	if b.mousePressAndHold(page, target, duration) {
		return true
	}

	b.logger.Debug("native press-and-hold failed, dispatching scripted events")
	if _, err := target.Evaluate(jsPressAndHold, duration.Milliseconds()); err != nil {
		b.logger.Warn("scripted press-and-hold failed", "error", err)
		return false
	}
	time.Sleep(duration + 250*time.Millisecond)
	return true
}

func (b *Browser) findHoldButton(page playwright.Page, timeout time.Duration) playwright.Locator {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if loc := holdButtonIn(page.Locator(`[role="button"], button`)); loc != nil {
			return loc
		}
		for _, frame := range page.Frames() {
			if loc := holdButtonIn(frame.Locator(`[role="button"], button`)); loc != nil {
				return loc
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil
}

func holdButtonIn(candidates playwright.Locator) playwright.Locator {
	all, err := candidates.All()
	if err != nil {
		return nil
	}
	for _, loc := range all {
		text, err := loc.TextContent()
		if err != nil {
			continue
		}
		lowered := strings.ToLower(text)
		if strings.Contains(lowered, "press") && strings.Contains(lowered, "hold") {
			return loc
		}
	}
	return nil
}

// mousePressAndHold holds the real mouse button over the element with small
// jitter movements so the hold reads as human.
func (b *Browser) mousePressAndHold(page playwright.Page, target playwright.Locator, duration time.Duration) bool {
	box, err := target.BoundingBox()
	if err != nil || box == nil {
		return false
	}

	x := box.X + box.Width/2
	y := box.Y + box.Height/2

	mouse := page.Mouse()
	if err := mouse.Move(x, y); err != nil {
		return false
	}
	time.Sleep(120 * time.Millisecond)

	if err := mouse.Down(); err != nil {
		return false
	}

	end := time.Now().Add(duration)
	for time.Now().Before(end) {
		dx := float64(rand.Intn(5) - 2)
		dy := float64(rand.Intn(5) - 2)
		mouse.Move(x+dx, y+dy)
		time.Sleep(120*time.Millisecond + time.Duration(rand.Intn(150))*time.Millisecond)
	}

	if err := mouse.Up(); err != nil {
		return false
	}

	return true
}
