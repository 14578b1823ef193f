// Package earnings fetches upcoming US earnings announcements that move
// Indian markets: big tech earnings swing the IT index, US bank results
// shift FII risk appetite, and oil majors signal crude demand.
package earnings

import (
	"context"
	"sort"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"market-brief/internal/logger"
	"market-brief/internal/types"
	"market-brief/internal/watchlist"
)

const lookaheadDays = 7

const payloadNote = "US earnings can move Indian markets: big tech beats lift IT stocks, " +
	"big tech misses create selling pressure on TCS/Infosys/Wipro. " +
	"US bank earnings affect global risk sentiment and FII flows into India."

// CalendarSource abstracts the Finnhub earnings calendar for testing.
type CalendarSource interface {
	EarningsCalendar(ctx context.Context, from, to string) ([]types.EarningsEvent, error)
}

// FinnhubCalendar wraps the Finnhub SDK earnings calendar endpoint.
type FinnhubCalendar struct {
	client *finnhub.DefaultApiService
}

func NewFinnhubCalendar(apiKey string) *FinnhubCalendar {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	return &FinnhubCalendar{client: finnhub.NewAPIClient(cfg).DefaultApi}
}

func (c *FinnhubCalendar) EarningsCalendar(ctx context.Context, from, to string) ([]types.EarningsEvent, error) {
	res, _, err := c.client.EarningsCalendar(ctx).From(from).To(to).Execute()
	if err != nil {
		return nil, err
	}

	var events []types.EarningsEvent
	for _, e := range res.GetEarningsCalendar() {
		ev := types.EarningsEvent{
			Symbol: e.GetSymbol(),
			Date:   e.GetDate(),
			Hour:   e.GetHour(),
		}
		ev.EPSEstimate = float64(e.GetEpsEstimate())
		ev.RevenueEstimate = float64(e.GetRevenueEstimate())
		events = append(events, ev)
	}
	return events, nil
}

// Fetcher filters the raw calendar down to the India-relevant tickers.
type Fetcher struct {
	source CalendarSource
	now    func() time.Time
}

type Option func(*Fetcher)

func WithSource(s CalendarSource) Option {
	return func(f *Fetcher) { f.source = s }
}

func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// NewFetcher builds a Fetcher. An empty API key disables the source and
// FetchAll returns an empty payload.
func NewFetcher(finnhubKey string, opts ...Option) *Fetcher {
	f := &Fetcher{now: time.Now}
	if finnhubKey != "" {
		f.source = NewFinnhubCalendar(finnhubKey)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAll returns the next 7 days of relevant earnings, one event per
// ticker, sorted by date.
func (f *Fetcher) FetchAll(ctx context.Context) *types.EarningsPayload {
	timer := logger.StartOperation(ctx, "fetch_earnings_calendar")
	ctx = timer.GetContext()

	today := f.now().UTC()
	from := today.Format("2006-01-02")
	to := today.AddDate(0, 0, lookaheadDays).Format("2006-01-02")

	empty := &types.EarningsPayload{
		FetchedAt: today,
		Window:    from + " to " + to,
	}

	if f.source == nil {
		logger.Warn(ctx, "Earnings calendar source not configured, skipping")
		timer.End("events", 0)
		return empty
	}

	all, err := f.source.EarningsCalendar(ctx, from, to)
	if err != nil {
		logger.SourceDown(ctx, "finnhub_earnings", err)
		timer.EndWithError(err)
		return empty
	}

	seen := make(map[string]struct{})
	var relevant []types.EarningsEvent
	for _, e := range all {
		if _, ok := watchlist.RelevantTickers[e.Symbol]; !ok {
			continue
		}
		if _, dup := seen[e.Symbol]; dup {
			continue
		}
		seen[e.Symbol] = struct{}{}

		e.Company = watchlist.CompanyName(e.Symbol)
		e.Context = watchlist.TickerContext(e.Symbol)
		e.When = whenLabel(e.Date, today)
		relevant = append(relevant, e)
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Date < relevant[j].Date
	})

	logger.Info(ctx, "Earnings calendar fetch complete", "events", len(relevant))
	timer.End("events", len(relevant))

	return &types.EarningsPayload{
		FetchedAt:  today,
		Window:     from + " to " + to,
		EventCount: len(relevant),
		Events:     relevant,
		Note:       payloadNote,
	}
}

// whenLabel renders an event date relative to today: TODAY, Tomorrow,
// or "Mon 02 Jan". An unparseable date passes through as-is.
func whenLabel(date string, today time.Time) string {
	dt, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	days := int(dt.Sub(today.Truncate(24*time.Hour)).Hours() / 24)
	switch days {
	case 0:
		return "TODAY"
	case 1:
		return "Tomorrow"
	default:
		return dt.Format("Mon 02 Jan")
	}
}
