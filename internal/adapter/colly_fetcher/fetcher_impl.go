package colly_fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/SepDev7/shop-crawler/internal/entity"
	"github.com/SepDev7/shop-crawler/internal/proxy"
	"github.com/SepDev7/shop-crawler/internal/repository"
	"github.com/SepDev7/shop-crawler/pkg/utils"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// CollyFetcher fetches search pages over plain HTTP.
// Every Fetch works on a clone of the parent collector, so clones share the
// HTTP client (timeout, proxy rotation) but keep their callbacks apart.
type CollyFetcher struct {
	collector *colly.Collector
	proxies   *proxy.Manager
	logger    *zap.Logger
}

// NewCollyFetcher creates a fetcher whose requests are bounded by timeout.
func NewCollyFetcher(timeout time.Duration, proxies *proxy.Manager, logger *zap.Logger) (*CollyFetcher, error) {
	c := colly.NewCollector(colly.AllowURLRevisit())
	c.SetRequestTimeout(timeout)

	if proxies.HasProxies() {
		c.SetProxyFunc(func(r *http.Request) (*url.URL, error) {
			return url.Parse(proxies.GetProxy())
		})
	}

	return &CollyFetcher{
		collector: c,
		proxies:   proxies,
		logger:    logger,
	}, nil
}

// Fetch issues a GET for pageURL. Non-2xx answers are reported as repository.ErrUnexpectedStatus.
func (f *CollyFetcher) Fetch(ctx context.Context, pageURL string) (*entity.RawResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collector := f.collector.Clone()
	collector.Context = ctx

	var (
		result     *entity.RawResponse
		statusCode int
	)

	collector.OnRequest(func(r *colly.Request) {
		if ua := f.proxies.GetUserAgent(); ua != "" {
			r.Headers.Set("User-Agent", ua)
		}
		f.logger.Debug("fetching page", zap.String("url", r.URL.String()))
	})

	collector.OnResponse(func(r *colly.Response) {
		result = &entity.RawResponse{
			URL:         r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
			Body:        r.Body,
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		statusCode = r.StatusCode
		f.logger.Warn("page request failed",
			zap.String("url", pageURL),
			zap.Int("status", r.StatusCode),
			zap.String("proxy", utils.RedactURL(r.Request.ProxyURL)),
			zap.Error(err),
		)
	})

	if err := collector.Visit(pageURL); err != nil {
		if statusCode != 0 {
			return nil, fmt.Errorf("%w: GET %s returned %d: %w", repository.ErrUnexpectedStatus, pageURL, statusCode, err)
		}
		return nil, fmt.Errorf("GET %s: %w", pageURL, err)
	}
	collector.Wait()

	if result == nil {
		return nil, fmt.Errorf("GET %s: no response received", pageURL)
	}
	return result, nil
}
