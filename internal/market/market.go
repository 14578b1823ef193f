// Package market fetches Indian and global market data: index quotes,
// sector performance, US closes, FII/DII flows, the Gift Nifty proxy and
// the economic calendar.
package market

import (
	"context"
	"sort"
	"time"

	"market-brief/internal/fetchutil"
	"market-brief/internal/logger"
	"market-brief/internal/types"
)

// Fetcher collects all market data for the brief. Every sub-fetch is
// best effort; missing data becomes an absent field plus a SourceReport.
type Fetcher struct {
	http       *fetchutil.Client
	finnhubKey string
	polygonKey string

	yahooBase       string
	polygonBase     string
	finnhubBase     string
	nseBase         string
	moneycontrolURL string

	tickerDelay time.Duration
	warmupDelay time.Duration
	now         func() time.Time
	sleep       func(time.Duration) <-chan time.Time
}

type Option func(*Fetcher)

func WithHTTPClient(c *fetchutil.Client) Option {
	return func(f *Fetcher) { f.http = c }
}

func WithYahooBase(base string) Option {
	return func(f *Fetcher) { f.yahooBase = base }
}

func WithPolygonBase(base string) Option {
	return func(f *Fetcher) { f.polygonBase = base }
}

func WithFinnhubBase(base string) Option {
	return func(f *Fetcher) { f.finnhubBase = base }
}

func WithNSEBase(base string) Option {
	return func(f *Fetcher) { f.nseBase = base }
}

func WithMoneycontrolURL(u string) Option {
	return func(f *Fetcher) { f.moneycontrolURL = u }
}

func WithDelays(ticker, warmup time.Duration) Option {
	return func(f *Fetcher) {
		f.tickerDelay = ticker
		f.warmupDelay = warmup
	}
}

func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

func NewFetcher(finnhubKey, polygonKey string, opts ...Option) *Fetcher {
	f := &Fetcher{
		http:            fetchutil.Default(),
		finnhubKey:      finnhubKey,
		polygonKey:      polygonKey,
		yahooBase:       "https://query1.finance.yahoo.com",
		polygonBase:     "https://api.polygon.io",
		finnhubBase:     "https://finnhub.io",
		nseBase:         "https://www.nseindia.com",
		moneycontrolURL: "https://www.moneycontrol.com/stocks/marketstats/fii_dii_activity/index.php",
		tickerDelay:     500 * time.Millisecond,
		warmupDelay:     time.Second,
		now:             time.Now,
		sleep:           time.After,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAll gathers every market data point into one payload.
func (f *Fetcher) FetchAll(ctx context.Context) *types.MarketPayload {
	timer := logger.StartOperation(ctx, "fetch_market_data")
	ctx = timer.GetContext()

	var reports []types.SourceReport
	report := func(source string, count int, err error) {
		r := types.SourceReport{Source: source, OK: err == nil, Count: count}
		if err != nil {
			r.Err = err.Error()
			logger.SourceDown(ctx, source, err)
		}
		reports = append(reports, r)
	}

	indices := f.fetchQuotes(ctx, MainIndices)
	report("indices", len(indices), nil)

	sectors := f.fetchQuotes(ctx, SectorIndices)
	report("sectors", len(sectors), nil)

	usMarkets := f.fetchUSMarkets(ctx)
	report("us_markets", len(usMarkets), nil)

	gift := f.fetchGiftNifty(ctx)

	flows := f.fetchFlows(ctx)
	if flows == nil {
		report("fii_dii", 0, nil)
	} else {
		report("fii_dii", 1, nil)
	}

	calendar, err := f.fetchEconomicCalendar(ctx)
	report("economic_calendar", len(calendar), err)

	logger.Info(ctx, "Market data fetch complete",
		"indices", len(indices), "sectors", len(sectors),
		"us_markets", len(usMarkets), "calendar_events", len(calendar))
	timer.End("indices", len(indices), "sectors", len(sectors))

	return &types.MarketPayload{
		FetchedAt:        f.now().UTC(),
		Indices:          indices,
		USMarkets:        usMarkets,
		GiftNifty:        gift,
		FIIDII:           flows,
		Sectors:          rankSectors(sectors),
		EconomicCalendar: calendar,
		Sources:          reports,
	}
}

// rankSectors orders sector quotes by day change. Top gainers are the
// best three descending, top losers the worst three worst-first. Fewer
// than three sectors means no loser list: one reading should not appear
// as both gainer and loser.
func rankSectors(sectors map[string]types.IndexQuote) types.SectorPerformance {
	var all []types.IndexQuote
	for _, inst := range SectorIndices {
		if q, ok := sectors[inst.Ticker]; ok {
			all = append(all, q)
		}
	}

	ranked := make([]types.IndexQuote, len(all))
	copy(ranked, all)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ChangePct > ranked[j].ChangePct
	})

	perf := types.SectorPerformance{All: all}
	if len(ranked) >= 3 {
		perf.TopGainers = ranked[:3]
		losers := ranked[len(ranked)-3:]
		perf.TopLosers = []types.IndexQuote{losers[2], losers[1], losers[0]}
	} else {
		perf.TopGainers = ranked
	}
	return perf
}
