package chromedp_fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SepDev7/shop-crawler/internal/entity"
	"github.com/SepDev7/shop-crawler/internal/proxy"
	"github.com/SepDev7/shop-crawler/internal/repository"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromedpFetcher loads search pages in a headless browser, for sources that
// only render their embedded JSON after scripts run.
type ChromedpFetcher struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	timeout     time.Duration
	logger      *zap.Logger
}

// NewChromedpFetcher starts one browser allocator shared by all fetches.
// A configured proxy is pinned for the browser's lifetime.
func NewChromedpFetcher(pageLoadTimeout time.Duration, proxies *proxy.Manager, logger *zap.Logger) *ChromedpFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if ua := proxies.GetUserAgent(); ua != "" {
		opts = append(opts, chromedp.UserAgent(ua))
	}
	if proxies.HasProxies() {
		opts = append(opts, chromedp.ProxyServer(proxies.GetProxy()))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpFetcher{
		allocCtx:    allocCtx,
		cancelAlloc: cancel,
		timeout:     pageLoadTimeout,
		logger:      logger,
	}
}

// Fetch navigates to pageURL and returns the rendered document.
// JSON documents are returned as their text, everything else as outer HTML.
func (f *ChromedpFetcher) Fetch(ctx context.Context, pageURL string) (*entity.RawResponse, error) {
	taskCtx, cancel := chromedp.NewContext(f.allocCtx)
	defer cancel()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, f.timeout)
	defer cancelTimeout()

	// The tab lives under the allocator, so tie it to the caller's context by hand.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	startTime := time.Now()

	resp, err := chromedp.RunResponse(taskCtx, chromedp.Navigate(pageURL))
	if err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", pageURL, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("navigate to %s: no network response", pageURL)
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return nil, fmt.Errorf("%w: GET %s returned %d", repository.ErrUnexpectedStatus, pageURL, resp.Status)
	}

	out := &entity.RawResponse{
		URL:         pageURL,
		StatusCode:  int(resp.Status),
		ContentType: resp.MimeType,
	}

	var body string
	if strings.Contains(strings.ToLower(resp.MimeType), "json") {
		err = chromedp.Run(taskCtx, chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &body))
	} else {
		out.ContentType = "text/html"
		err = chromedp.Run(taskCtx, chromedp.OuterHTML("html", &body, chromedp.ByQuery))
	}
	if err != nil {
		return nil, fmt.Errorf("read rendered document of %s: %w", pageURL, err)
	}
	out.Body = []byte(body)

	f.logger.Debug("rendered page",
		zap.String("url", pageURL),
		zap.String("mime_type", resp.MimeType),
		zap.Int64("duration_ms", time.Since(startTime).Milliseconds()),
	)
	return out, nil
}

// Close shuts the browser down.
func (f *ChromedpFetcher) Close() {
	f.cancelAlloc()
}
