// Package news aggregates financial headlines from keyed APIs and RSS
// feeds into one deduplicated payload for the daily brief.
package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"market-brief/internal/fetchutil"
	"market-brief/internal/logger"
	"market-brief/internal/types"
	"market-brief/internal/watchlist"
)

// Aggregator fans out to every configured news source. Each source is
// best effort: a failed source becomes a SourceReport entry, never an
// error from FetchAll.
type Aggregator struct {
	http       *fetchutil.Client
	newsAPIKey string
	gnewsKey   string
	finnhub    MarketNewsSource
	feeds      []Feed
	feedParser *gofeed.Parser

	newsAPIBase string
	gnewsBase   string
	now         func() time.Time
}

// Option tweaks an Aggregator, mainly so tests can point it at local servers.
type Option func(*Aggregator)

func WithHTTPClient(c *fetchutil.Client) Option {
	return func(a *Aggregator) { a.http = c }
}

func WithFinnhub(s MarketNewsSource) Option {
	return func(a *Aggregator) { a.finnhub = s }
}

func WithFeeds(feeds []Feed) Option {
	return func(a *Aggregator) { a.feeds = feeds }
}

func WithNewsAPIBase(base string) Option {
	return func(a *Aggregator) { a.newsAPIBase = base }
}

func WithGNewsBase(base string) Option {
	return func(a *Aggregator) { a.gnewsBase = base }
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// NewAggregator builds an Aggregator with the production sources. Empty
// API keys disable the corresponding source.
func NewAggregator(newsAPIKey, gnewsKey, finnhubKey string, opts ...Option) *Aggregator {
	a := &Aggregator{
		// 429 is exempt from retry: NewsAPI reports quota exhaustion
		// with a 429 body that FetchAll must see on the first attempt.
		http: fetchutil.New(fetchutil.DefaultAttempts, fetchutil.DefaultDelay,
			fetchutil.DefaultTimeout, http.StatusTooManyRequests),
		newsAPIKey:  newsAPIKey,
		gnewsKey:    gnewsKey,
		feeds:       DefaultFeeds,
		feedParser:  gofeed.NewParser(),
		newsAPIBase: "https://newsapi.org",
		gnewsBase:   "https://gnews.io",
		now:         time.Now,
	}
	if finnhubKey != "" {
		a.finnhub = NewFinnhubSource(finnhubKey)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FetchAll runs every source in order and returns the combined,
// deduplicated payload. NewsAPI quota exhaustion short-circuits only the
// remaining NewsAPI calls; every other source still runs.
func (a *Aggregator) FetchAll(ctx context.Context, hoursBack int) *types.NewsPayload {
	timer := logger.StartOperation(ctx, "fetch_news", "hours_back", hoursBack)
	ctx = timer.GetContext()

	cutoff := a.now().UTC().Add(-time.Duration(hoursBack) * time.Hour)

	var all []types.Article
	var reports []types.SourceReport
	collect := func(source string, articles []types.Article, err error) {
		r := types.SourceReport{Source: source, OK: err == nil, Count: len(articles)}
		if err != nil {
			r.Err = err.Error()
			logger.SourceDown(ctx, source, err)
		}
		reports = append(reports, r)
		all = append(all, articles...)
	}

	if a.finnhub != nil {
		articles, err := a.finnhub.MarketNews(ctx, cutoff)
		collect("finnhub", articles, err)
	}

	quotaGone := false
	runNewsAPI := func(source string, fetch func() ([]types.Article, error)) {
		if a.newsAPIKey == "" || quotaGone {
			return
		}
		articles, err := fetch()
		if errors.Is(err, errQuotaExhausted) {
			quotaGone = true
			logger.Warn(ctx, "NewsAPI quota exhausted, skipping remaining NewsAPI calls", "source", source)
		}
		collect(source, articles, err)
	}

	runNewsAPI("newsapi_india", func() ([]types.Article, error) {
		return a.fetchNewsAPIIndia(ctx)
	})
	runNewsAPI("newsapi_global", func() ([]types.Article, error) {
		return a.fetchNewsAPIGlobal(ctx)
	})
	for _, query := range watchlist.SearchQueries {
		q := query
		runNewsAPI("newsapi_search:"+q, func() ([]types.Article, error) {
			return a.fetchNewsAPISearch(ctx, q, hoursBack)
		})
	}

	articles, err := a.fetchGNewsIndia(ctx)
	collect("gnews_india", articles, err)

	for _, feed := range a.feeds {
		articles, err := a.fetchFeed(ctx, feed, cutoff)
		collect(fmt.Sprintf("rss:%s", feed.Name), articles, err)
	}

	unique := Deduplicate(all)
	logger.Info(ctx, "News fetch complete",
		"total", len(all), "unique", len(unique), "sources", len(reports))
	timer.End("unique_articles", len(unique))

	return &types.NewsPayload{
		FetchedAt:    a.now().UTC(),
		HoursBack:    hoursBack,
		ArticleCount: len(unique),
		Articles:     unique,
		Sources:      reports,
	}
}

// Deduplicate drops articles whose normalized title prefix was already
// seen. Different outlets syndicate the same wire story with trailing
// suffixes, so the first 60 characters are the identity.
func Deduplicate(articles []types.Article) []types.Article {
	seen := make(map[string]struct{}, len(articles))
	var unique []types.Article
	for _, a := range articles {
		key := types.TitleKey(a.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, a)
	}
	return unique
}
