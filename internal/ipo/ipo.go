// Package ipo scrapes active and upcoming Indian IPO data: grey market
// premium, subscription status and listing metadata. Scraping is
// brittle, so a primary source with a full fallback keeps the column
// selectors defensive and the failure mode an empty list, never an
// aborted pipeline.
package ipo

import (
	"context"
	"time"

	"market-brief/internal/fetchutil"
	"market-brief/internal/logger"
	"market-brief/internal/types"
)

var scrapeHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
}

const gmpNote = "GMP = Grey Market Premium (unofficial, speculative). " +
	"Positive GMP means shares trade above issue price in grey market."

// Fetcher scrapes Chittorgarh first and ipowatch.in when Chittorgarh
// yields nothing.
type Fetcher struct {
	http            *fetchutil.Client
	chittorgarhBase string
	ipowatchBase    string
	pageDelay       time.Duration
	now             func() time.Time
	sleep           func(time.Duration) <-chan time.Time
}

type Option func(*Fetcher)

func WithHTTPClient(c *fetchutil.Client) Option {
	return func(f *Fetcher) { f.http = c }
}

func WithChittorgarhBase(base string) Option {
	return func(f *Fetcher) { f.chittorgarhBase = base }
}

func WithIpowatchBase(base string) Option {
	return func(f *Fetcher) { f.ipowatchBase = base }
}

func WithPageDelay(d time.Duration) Option {
	return func(f *Fetcher) { f.pageDelay = d }
}

func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		http:            fetchutil.New(2, 2*time.Second, 15*time.Second),
		chittorgarhBase: "https://www.chittorgarh.com",
		ipowatchBase:    "https://ipowatch.in",
		pageDelay:       time.Second,
		now:             time.Now,
		sleep:           time.After,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAll returns the combined IPO payload. An empty list with the
// fallback source name recorded is a valid outcome.
func (f *Fetcher) FetchAll(ctx context.Context) *types.IPOPayload {
	timer := logger.StartOperation(ctx, "fetch_ipo_data")
	ctx = timer.GetContext()

	ipos := f.fetchChittorgarh(ctx)
	source := "chittorgarh.com"
	if len(ipos) == 0 {
		logger.Warn(ctx, "Chittorgarh returned no IPO data, trying ipowatch.in fallback")
		ipos = f.fetchIpowatch(ctx)
		source = "ipowatch.in (fallback)"
	}

	if len(ipos) == 0 {
		logger.Warn(ctx, "No IPO data from any source, continuing with empty list")
	}
	logger.Info(ctx, "IPO fetch complete", "source", source, "ipos", len(ipos))
	timer.End("ipos", len(ipos))

	return &types.IPOPayload{
		FetchedAt: f.now().UTC(),
		Source:    source,
		IPOCount:  len(ipos),
		IPOs:      ipos,
		Note:      gmpNote,
	}
}
