package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// MinContentLength is the shortest extracted text accepted from a plain HTTP fetch. Shorter
// pages are likely rendered client side.
const MinContentLength = 500

// ShouldUseBrowser reports whether text is too short to be a full job description.
func ShouldUseBrowser(text string) bool {
	return len(strings.TrimSpace(text)) < MinContentLength
}

// Renderer returns the HTML of a page after client-side rendering.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// ChromeRenderer renders pages in headless Chrome. Chrome or Chromium must be installed.
type ChromeRenderer struct {
	Timeout time.Duration // whole render; 30s when zero
	Settle  time.Duration // wait after the body is ready; 3s when zero
	Log     logrus.FieldLogger
}

// Render loads url, waits for scripts to settle, dismisses a cookie banner if one is
// visible and returns the document's outer HTML.
func (c ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	timeout, settle := c.Timeout, c.Settle
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if settle <= 0 {
		settle = 3 * time.Second
	}
	if c.Log != nil {
		c.Log.WithField("url", url).Debug("Rendering page in headless browser")
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(settle),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// best effort; most pages have no banner
			clickCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			_ = chromedp.Click(`button[id*="accept"], button[class*="accept"]`, chromedp.NodeVisible).Do(clickCtx)
			return nil
		}),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if c.Log != nil {
		c.Log.WithFields(logrus.Fields{"url": url, "bytes": len(html)}).Debug("Rendered page")
	}
	return html, nil
}
