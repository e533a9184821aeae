package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/common"
	"github.com/ternarybob/ragkit/internal/models"
)

// ErrCannotAccessURL is returned when the browser loads no content for a URL
var ErrCannotAccessURL = errors.New("can't access URL")

// MarkdownifyDriver loads pages in headless Chrome with images blocked and returns them as markdown
type MarkdownifyDriver struct {
	options     ConvertOptions
	wait        time.Duration
	pageTimeout time.Duration
	userAgent   string
	headless    bool
	logger      arbor.ILogger
}

// NewMarkdownifyDriver creates a scraper driver from config
func NewMarkdownifyDriver(config *common.ScraperConfig, logger arbor.ILogger) *MarkdownifyDriver {
	return &MarkdownifyDriver{
		options: ConvertOptions{
			IncludeLinks:   config.IncludeLinks,
			ExcludeTags:    config.ExcludeTags,
			ExcludeClasses: config.ExcludeClasses,
			ExcludeIDs:     config.ExcludeIDs,
		},
		wait:        common.ParseDurationOr(config.Timeout, 0),
		pageTimeout: common.ParseDurationOr(config.PageTimeout, 60*time.Second),
		userAgent:   config.UserAgent,
		headless:    config.Headless,
		logger:      logger,
	}
}

func (d *MarkdownifyDriver) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{},
		chromedp.DefaultExecAllocatorOptions[:]...,
	)
	opts = append(opts,
		chromedp.Flag("headless", d.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if d.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(d.userAgent))
	}
	return opts
}

// ScrapeURL renders url and returns its cleaned markdown
func (d *MarkdownifyDriver) ScrapeURL(ctx context.Context, url string) (*models.TextArtifact, error) {
	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(ctx, d.allocatorOptions()...)
	defer allocatorCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx,
		chromedp.WithLogf(func(s string, i ...interface{}) {
			d.logger.Debug().Msgf(s, i...)
		}),
	)
	defer browserCancel()

	pageCtx, pageCancel := context.WithTimeout(browserCtx, d.pageTimeout)
	defer pageCancel()

	d.blockImages(pageCtx)

	startTime := time.Now()
	var html string
	actions := []chromedp.Action{
		fetch.Enable(),
		chromedp.Navigate(url),
	}
	// some sites keep rendering after the load event
	if d.wait > 0 {
		actions = append(actions, chromedp.Sleep(d.wait))
	}
	actions = append(actions, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(pageCtx, actions...); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", url, err)
	}

	if strings.TrimSpace(html) == "" {
		return nil, ErrCannotAccessURL
	}

	markdown, err := ConvertHTML(html, url, d.options)
	if err != nil {
		return nil, err
	}

	d.logger.Debug().
		Str("url", url).
		Int("html_length", len(html)).
		Int("markdown_length", len(markdown)).
		Dur("duration", time.Since(startTime)).
		Msg("Scraped URL")

	return models.NewTextArtifact(markdown, models.WithArtifactName(url)), nil
}

// blockImages fails image requests and lets everything else through
func (d *MarkdownifyDriver) blockImages(ctx context.Context) {
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		paused, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go func() {
			c := chromedp.FromContext(ctx)
			if c == nil || c.Target == nil {
				return
			}
			execCtx := cdp.WithExecutor(ctx, c.Target)

			var err error
			if paused.ResourceType == network.ResourceTypeImage {
				err = fetch.FailRequest(paused.RequestID, network.ErrorReasonBlockedByClient).Do(execCtx)
			} else {
				err = fetch.ContinueRequest(paused.RequestID).Do(execCtx)
			}
			if err != nil && ctx.Err() == nil {
				d.logger.Debug().Err(err).Str("request_id", string(paused.RequestID)).Msg("Failed to resolve paused request")
			}
		}()
	})
}
