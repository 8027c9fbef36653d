package fetch

import (
	"context"
	"errors"
	"time"

	"github.com/jonathan/ats-optimizer/internal/cache"
	"github.com/sirupsen/logrus"
)

// ErrNoContent is returned when a posting yields no text.
var ErrNoContent = errors.New("no job description text found")

// Posting is the text of a job posting.
type Posting struct {
	URL       string    `json:"url"`
	Platform  Platform  `json:"platform"`
	Title     string    `json:"title,omitempty"`
	Text      string    `json:"text"`
	Rendered  bool      `json:"rendered"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Fetcher downloads job postings, falling back to a Renderer for client-rendered pages and
// caching results by URL.
type Fetcher struct {
	opts     *Options
	renderer Renderer
	cache    cache.Cache
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewFetcher creates a Fetcher. A nil renderer disables the browser fallback and a nil cache
// disables caching.
func NewFetcher(opts *Options, renderer Renderer, c cache.Cache, log logrus.FieldLogger) *Fetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	if c == nil {
		c = cache.Nop{}
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Fetcher{opts: opts, renderer: renderer, cache: c, log: log, now: time.Now}
}

// Fetch returns the posting at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Posting, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	key := cache.HashKey("posting", rawURL)
	if p, ok := cache.GetJSON[Posting](ctx, f.cache, key); ok {
		f.log.WithField("url", rawURL).Debug("Posting cache hit")
		return &p, nil
	}

	platform := DetectPlatform(rawURL)
	log := f.log.WithFields(logrus.Fields{"url": rawURL, "platform": platform})

	page, err := Get(ctx, rawURL, f.opts)
	if err != nil {
		return nil, err
	}
	posting, err := f.extract(rawURL, platform, page.HTML)
	if err != nil {
		return nil, err
	}

	if ShouldUseBrowser(posting.Text) && f.renderer != nil {
		log.WithField("length", len(posting.Text)).Info("Posting text is short, rendering in browser")
		html, err := f.renderer.Render(ctx, rawURL)
		if err != nil {
			log.WithError(err).Warn("Browser rendering failed, keeping HTTP content")
		} else if rendered, err := f.extract(rawURL, platform, html); err == nil && len(rendered.Text) > len(posting.Text) {
			rendered.Rendered = true
			posting = rendered
		}
	}

	if posting.Text == "" {
		return nil, &Error{URL: rawURL, Message: "page has no readable text", Cause: ErrNoContent}
	}

	cache.SetJSON(ctx, f.cache, key, posting)
	log.WithField("length", len(posting.Text)).Info("Fetched job posting")
	return posting, nil
}

func (f *Fetcher) extract(rawURL string, platform Platform, html string) (*Posting, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "unparseable HTML", Cause: err}
	}
	title := doc.Title()
	return &Posting{
		URL:       rawURL,
		Platform:  platform,
		Title:     title,
		Text:      doc.MainText(platform.ContentSelectors(), platform.NoiseSelectors()...),
		FetchedAt: f.now(),
	}, nil
}
