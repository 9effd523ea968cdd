package browser

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Locator addresses one element on a page, either by structural CSS selector
// or by explicit XPath query.
type Locator struct {
	expr  string
	xpath bool
}

// CSS builds a structural selector locator.
func CSS(selector string) Locator {
	return Locator{expr: selector}
}

// XPath builds a path-query locator.
func XPath(expr string) Locator {
	return Locator{expr: expr, xpath: true}
}

// ParseLocator accepts the string form used by selector maps: a plain CSS
// selector, or an XPath query marked with an "xpath=" prefix.
func ParseLocator(s string) Locator {
	if rest, ok := strings.CutPrefix(s, "xpath="); ok {
		return XPath(rest)
	}
	if strings.HasPrefix(s, "//") || strings.HasPrefix(s, "(") {
		return XPath(s)
	}
	return CSS(s)
}

func (l Locator) String() string {
	if l.xpath {
		return "xpath=" + l.expr
	}
	return l.expr
}

func (l Locator) queryOption() chromedp.QueryOption {
	if l.xpath {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

// js returns a JavaScript expression resolving the locator to an element or
// null, for state inspection that chromedp's query actions cannot express.
func (l Locator) js() string {
	if l.xpath {
		return fmt.Sprintf(
			"document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue",
			jsString(l.expr),
		)
	}
	return fmt.Sprintf("document.querySelector(%s)", jsString(l.expr))
}

var newlineRun = regexp.MustCompile(`\s*\n\s*`)
var innerSpaceRun = regexp.MustCompile(`\s+`)

// ReadText returns the element's trimmed, whitespace-collapsed text. It never
// fails: an absent element, a bad query, and a timeout all yield "".
func (p *Page) ReadText(loc Locator) string {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.ActionTimeout)
	defer cancel()

	var text string
	err := chromedp.Run(ctx,
		chromedp.Text(loc.expr, &text, loc.queryOption(), chromedp.AtLeast(0)),
	)
	if err != nil {
		p.logger.Debug("read text failed", zap.String("locator", loc.String()), zap.Error(err))
		return ""
	}
	text = newlineRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(innerSpaceRun.ReplaceAllString(text, " "))
}

// Click clicks the element, retrying with a fixed delay. The locator is
// re-resolved on every attempt because the element may not exist yet or may
// detach between attempts. Returns false when all attempts fail; callers
// treat that as "field not available", not as a fatal error.
func (p *Page) Click(loc Locator) bool {
	return p.attempt("click", loc, func(ctx context.Context) error {
		return chromedp.Run(ctx,
			chromedp.ScrollIntoView(loc.expr, loc.queryOption()),
			chromedp.Click(loc.expr, loc.queryOption()),
		)
	})
}

// Type clears the field and types the value into it.
func (p *Page) Type(loc Locator, value string) bool {
	return p.attempt("type", loc, func(ctx context.Context) error {
		return chromedp.Run(ctx,
			chromedp.Clear(loc.expr, loc.queryOption()),
			chromedp.SendKeys(loc.expr, value, loc.queryOption()),
		)
	})
}

// SetCheckbox drives the checkbox to the wanted state. It is idempotent: the
// current checked state is inspected first and the box is only clicked when
// it differs.
func (p *Page) SetCheckbox(loc Locator, checked bool) bool {
	return p.attempt("checkbox", loc, func(ctx context.Context) error {
		var current bool
		stateExpr := fmt.Sprintf("(() => { const el = %s; if (!el) throw new Error('not found'); return !!el.checked; })()", loc.js())
		if err := chromedp.Run(ctx, chromedp.Evaluate(stateExpr, &current)); err != nil {
			return err
		}
		if current == checked {
			return nil
		}
		return chromedp.Run(ctx, chromedp.Click(loc.expr, loc.queryOption()))
	})
}

// SelectRadio selects the radio button.
func (p *Page) SelectRadio(loc Locator) bool {
	return p.attempt("radio", loc, func(ctx context.Context) error {
		return chromedp.Run(ctx,
			chromedp.ScrollIntoView(loc.expr, loc.queryOption()),
			chromedp.Click(loc.expr, loc.queryOption()),
		)
	})
}

// SelectDropdown expands the dropdown and clicks the option with the given
// visible text.
func (p *Page) SelectDropdown(drop Locator, optionText string) bool {
	option := XPath(fmt.Sprintf("//*[normalize-space(text())=%s]", xpathLiteral(optionText)))
	return p.attempt("select", drop, func(ctx context.Context) error {
		if err := chromedp.Run(ctx,
			chromedp.ScrollIntoView(drop.expr, drop.queryOption()),
			chromedp.Click(drop.expr, drop.queryOption()),
		); err != nil {
			return err
		}
		p.Sleep(p.cfg.RetryDelay)
		return chromedp.Run(ctx,
			chromedp.ScrollIntoView(option.expr, option.queryOption()),
			chromedp.Click(option.expr, option.queryOption()),
		)
	})
}

// WaitVisible blocks until the element is visible or the timeout elapses.
// Like the other non-essential actions it reports failure instead of
// returning an error.
func (p *Page) WaitVisible(loc Locator, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.WaitVisible(loc.expr, loc.queryOption())); err != nil {
		p.logger.Debug("wait visible failed", zap.String("locator", loc.String()), zap.Error(err))
		return false
	}
	return true
}

// attempt runs op up to RetryAttempts times with a fixed inter-attempt
// delay, logging every attempt for postmortem diagnosis.
func (p *Page) attempt(name string, loc Locator, op func(ctx context.Context) error) bool {
	for i := 0; i < p.cfg.RetryAttempts; i++ {
		ctx, cancel := context.WithTimeout(p.ctx, p.cfg.ActionTimeout)
		err := op(ctx)
		cancel()

		if err == nil {
			p.logger.Debug("action ok",
				zap.String("action", name),
				zap.String("locator", loc.String()),
				zap.Int("attempt", i+1),
			)
			return true
		}
		p.logger.Debug("action failed",
			zap.String("action", name),
			zap.String("locator", loc.String()),
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
		if p.cfg.OnRetry != nil {
			p.cfg.OnRetry(name)
		}
		p.Sleep(p.cfg.RetryDelay)
	}
	return false
}

func jsString(s string) string {
	return strconv.Quote(s)
}

// xpathLiteral quotes a string for use inside an XPath expression, handling
// embedded quotes via concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, part := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		quoted = append(quoted, "'"+part+"'")
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
